package jwtutil

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/jonboulle/clockwork"
)

// TokenTTL is the fixed validity of a sign-in token.
const TokenTTL = time.Hour

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// UserClaims represents the JWT claims for user authentication
type UserClaims struct {
	UserID   string `json:"userId"`
	UserType string `json:"userType"`
	jwt.RegisteredClaims
}

// JWTUtil is a utility for JWT token operations
type JWTUtil struct {
	signingKey []byte
	clock      clockwork.Clock
}

// NewJWTUtil creates a new JWT utility signing with the given key
func NewJWTUtil(signingKey string, clock clockwork.Clock) *JWTUtil {
	return &JWTUtil{
		signingKey: []byte(signingKey),
		clock:      clock,
	}
}

// GenerateToken creates a JWT token carrying the user's id and role
func (j *JWTUtil) GenerateToken(userID, userType string) (string, error) {
	if len(j.signingKey) == 0 {
		return "", errors.New("JWT signing key not provided")
	}

	now := j.clock.Now()
	claims := UserClaims{
		UserID:   userID,
		UserType: userType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.signingKey)
}

// ValidateToken validates and parses the JWT token. Expiry is checked against
// the injected clock rather than the wall clock.
func (j *JWTUtil) ValidateToken(tokenString string) (*UserClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	claims := &UserClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.signingKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if !claims.VerifyExpiresAt(j.clock.Now(), true) {
		return nil, ErrExpiredToken
	}

	return claims, nil
}
