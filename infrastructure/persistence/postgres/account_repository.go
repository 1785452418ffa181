package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/schedulo/schedulo/application/port/outbound"
	"github.com/schedulo/schedulo/domain/entity"
)

// uniqueViolation is the postgres error code for a violated unique constraint.
const uniqueViolation = "23505"

type accountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) outbound.AccountRepository {
	return &accountRepository{db: db}
}

const accountColumns = `id, username, email, phone, role, password_hash, refresh_token_hash, created_at, updated_at`

func (r *accountRepository) FindByID(ctx context.Context, id string) (*entity.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE id = $1`, accountColumns)
	return r.scanOne(r.db.QueryRowContext(ctx, query, id), "find account by ID")
}

func (r *accountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE email = $1`, accountColumns)
	return r.scanOne(r.db.QueryRowContext(ctx, query, email), "find account by email")
}

func (r *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	query := `
		INSERT INTO accounts (id, username, email, phone, role, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		account.ID,
		account.Username,
		account.Email,
		account.Phone,
		account.Role.String(),
		account.PasswordHash,
		account.CreatedAt,
		account.UpdatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return outbound.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

func (r *accountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM accounts WHERE email = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check if email exists: %w", err)
	}

	return exists, nil
}

func (r *accountRepository) UpdateRefreshTokenHash(ctx context.Context, accountID, hash string) error {
	query := `
		UPDATE accounts
		SET refresh_token_hash = $2, updated_at = $3
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, accountID, hash, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update refresh token hash: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return outbound.ErrAccountNotFound
	}

	return nil
}

func (r *accountRepository) RotateRefreshTokenHash(ctx context.Context, accountID, oldHash, newHash string) (bool, error) {
	// The WHERE clause on the old hash makes the read-compare-write rotation
	// linearize on this single UPDATE; a racing rotation sees zero rows.
	query := `
		UPDATE accounts
		SET refresh_token_hash = $3, updated_at = $4
		WHERE id = $1 AND refresh_token_hash = $2
	`

	result, err := r.db.ExecContext(ctx, query, accountID, oldHash, newHash, time.Now())
	if err != nil {
		return false, fmt.Errorf("failed to rotate refresh token hash: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *accountRepository) ClearRefreshTokenHash(ctx context.Context, accountID string) error {
	// Deliberately no rows-affected check: clearing an already-cleared slot is
	// a success, logout is idempotent.
	query := `
		UPDATE accounts
		SET refresh_token_hash = NULL, updated_at = $2
		WHERE id = $1
	`

	if _, err := r.db.ExecContext(ctx, query, accountID, time.Now()); err != nil {
		return fmt.Errorf("failed to clear refresh token hash: %w", err)
	}

	return nil
}

func (r *accountRepository) scanOne(row *sql.Row, operation string) (*entity.Account, error) {
	var (
		account          entity.Account
		phone            sql.NullString
		refreshTokenHash sql.NullString
		role             string
	)

	err := row.Scan(
		&account.ID,
		&account.Username,
		&account.Email,
		&phone,
		&role,
		&account.PasswordHash,
		&refreshTokenHash,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, outbound.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to %s: %w", operation, err)
	}

	account.Role = entity.Role(role)
	if phone.Valid {
		account.Phone = &phone.String
	}
	if refreshTokenHash.Valid {
		account.RefreshTokenHash = &refreshTokenHash.String
	}

	return &account, nil
}
