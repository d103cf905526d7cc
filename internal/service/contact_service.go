package service

import (
	"context"

	"github.com/xxiimcha/lifeec-mobile/internal/apperror"
	"github.com/xxiimcha/lifeec-mobile/internal/model"
	"github.com/xxiimcha/lifeec-mobile/prometheus"
)

// ContactStore is the part of the account directory the contact service reads
type ContactStore interface {
	FindByRoles(ctx context.Context, roles []model.Role) ([]model.Account, error)
}

// ContactService answers "who can this user contact"
type ContactService struct {
	store ContactStore
}

// NewContactService creates a contact service
func NewContactService(store ContactStore) *ContactService {
	return &ContactService{store: store}
}

// ListVisible returns every account the requester role may see. The result
// is all-or-nothing; a store failure returns no accounts.
func (s *ContactService) ListVisible(ctx context.Context, requesterRole string) ([]model.Account, error) {
	label := "other"
	if r, ok := model.ParseRole(requesterRole); ok {
		label = string(r)
	} else if requesterRole == "" {
		label = ""
	}
	prometheus.RecordContactLookup(label)

	accounts, err := s.store.FindByRoles(ctx, VisibleRoles(requesterRole))
	if err != nil {
		return nil, apperror.Store("Failed to get contacts", err)
	}
	return accounts, nil
}
