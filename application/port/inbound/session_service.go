package inbound

import (
	"context"

	"github.com/schedulo/schedulo/application/port/outbound"
	"github.com/schedulo/schedulo/domain/entity"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Role     string  `json:"role"`
	Phone    *string `json:"phone,omitempty"`
}

// Identity is the outward account representation: password and refresh-hash
// fields stripped.
type Identity struct {
	ID       string      `json:"id"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     entity.Role `json:"role"`
	Phone    *string     `json:"phone,omitempty"`
}

// SessionResult is returned by login and register: the stripped identity plus
// a fresh token pair.
type SessionResult struct {
	Identity     Identity `json:"user"`
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
}

// SessionService orchestrates the credential and session-token lifecycle. It
// is the only component allowed to read or write the refresh-token hash.
type SessionService interface {
	Login(ctx context.Context, req LoginRequest) (*SessionResult, error)
	Register(ctx context.Context, req RegisterRequest) (*SessionResult, error)
	Logout(ctx context.Context, accountID string) (bool, error)
	Refresh(ctx context.Context, accountID, refreshToken string) (*outbound.TokenPair, error)
	Me(ctx context.Context, accountID string) (*Identity, error)
}
