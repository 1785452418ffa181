package outbound

import (
	"context"
	"errors"

	"github.com/schedulo/schedulo/domain/entity"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrDuplicateEmail  = errors.New("email already in use")
)

// AccountRepository is the credential store. The refresh-token hash column is
// read and written only through the session use case.
type AccountRepository interface {
	FindByID(ctx context.Context, id string) (*entity.Account, error)
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)
	// Create inserts a new account. The store's unique constraint on email is
	// the authoritative duplicate guard: a violated insert returns
	// ErrDuplicateEmail, never a silent overwrite.
	Create(ctx context.Context, account *entity.Account) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// UpdateRefreshTokenHash overwrites the stored hash unconditionally,
	// invalidating any previously issued refresh token for the account.
	UpdateRefreshTokenHash(ctx context.Context, accountID, hash string) error
	// RotateRefreshTokenHash replaces the stored hash only when it still equals
	// oldHash, linearizing concurrent rotations on the store's update. Returns
	// false when another rotation got there first.
	RotateRefreshTokenHash(ctx context.Context, accountID, oldHash, newHash string) (bool, error)
	// ClearRefreshTokenHash sets the stored hash to null. Idempotent.
	ClearRefreshTokenHash(ctx context.Context, accountID string) error
}
