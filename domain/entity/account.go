package entity

import (
	"time"
)

// Account is the credential-store row for a platform user. PasswordHash and
// RefreshTokenHash are opaque to every layer except the session use case and
// must never serialize outward.
type Account struct {
	ID               string    `json:"id"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	Phone            *string   `json:"phone,omitempty"`
	Role             Role      `json:"role"`
	PasswordHash     string    `json:"-"`
	RefreshTokenHash *string   `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func NewAccount(id, username, email, passwordHash string, role Role, phone *string) *Account {
	now := time.Now()
	return &Account{
		ID:           id,
		Username:     username,
		Email:        email,
		Phone:        phone,
		Role:         role,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// HasActiveSession reports whether a refresh-token hash is currently stored.
// A nil hash means the account is logged out everywhere.
func (a *Account) HasActiveSession() bool {
	return a.RefreshTokenHash != nil
}
