package usecase

import (
	"context"
	"errors"

	"github.com/schedulo/schedulo/application/port/outbound"
	"github.com/schedulo/schedulo/domain/entity"
	apperr "github.com/schedulo/schedulo/domain/error"
)

// RoleGuard enforces the assignment-time role check consumed by booking
// collaborators: whoever puts an account into a customer or employee slot must
// re-fetch the live row and confirm its role, never trusting a client-supplied
// one.
type RoleGuard struct {
	accounts outbound.AccountRepository
}

func NewRoleGuard(accounts outbound.AccountRepository) *RoleGuard {
	return &RoleGuard{accounts: accounts}
}

// EnsureRole re-fetches the account and confirms it holds the expected role.
// A missing account and a role mismatch both surface as RoleMismatch so the
// collaborator's not-found-style mapping does not leak account existence.
func (g *RoleGuard) EnsureRole(ctx context.Context, accountID string, role entity.Role) (*entity.Account, error) {
	account, err := g.accounts.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, outbound.ErrAccountNotFound) {
			return nil, apperr.ErrRoleMismatch(role.String())
		}
		return nil, apperr.ErrInternalFailure("ensure_role", err)
	}
	if account.Role != role {
		return nil, apperr.ErrRoleMismatch(role.String())
	}
	return account, nil
}
