package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/xxiimcha/lifeec-mobile/internal/model"
	"github.com/xxiimcha/lifeec-mobile/pkg/jwtutil"
	"github.com/xxiimcha/lifeec-mobile/pkg/logger"
	"github.com/xxiimcha/lifeec-mobile/prometheus"
	"go.uber.org/zap"
)

const userContextKey = "user"

// AuthMiddleware validates the bearer token and stores its claims in the
// request context
func AuthMiddleware(tokens *jwtutil.JWTUtil) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				log.Warn("Missing authorization header")
				prometheus.RecordAuthError("missing_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Missing authorization header"})
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				log.Warn("Invalid authorization header format")
				prometheus.RecordAuthError("invalid_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid authorization header format"})
			}

			claims, err := tokens.ValidateToken(parts[1])
			if err != nil {
				log.Warn("Invalid or expired token", zap.Error(err))
				prometheus.RecordAuthError("invalid_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid or expired token"})
			}

			c.Set(userContextKey, claims)
			c.Set("logger", log.With(zap.String("user_id", claims.UserID)))
			return next(c)
		}
	}
}

// RequireRole rejects callers whose token role is not one of roles
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := GetUserClaims(c)
			if claims == nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Authentication required"})
			}
			for _, r := range roles {
				if claims.UserType == string(r) {
					return next(c)
				}
			}
			logger.FromContext(c).Warn("Role not permitted", zap.String("role", claims.UserType))
			return c.JSON(http.StatusForbidden, echo.Map{"message": "Access denied"})
		}
	}
}

// GetUserClaims returns the claims stored by AuthMiddleware, or nil
func GetUserClaims(c echo.Context) *jwtutil.UserClaims {
	claims, _ := c.Get(userContextKey).(*jwtutil.UserClaims)
	return claims
}
