package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/schedulo/schedulo/application/port/inbound"
	"github.com/schedulo/schedulo/application/port/outbound"
	"github.com/schedulo/schedulo/domain/entity"
	apperr "github.com/schedulo/schedulo/domain/error"
	"github.com/schedulo/schedulo/infrastructure/service/logger"
)

type SessionUseCase struct {
	accounts        outbound.AccountRepository
	tokenService    outbound.TokenService
	passwordService outbound.PasswordService
	logger          logger.Logger
}

func NewSessionUseCase(
	accounts outbound.AccountRepository,
	tokenService outbound.TokenService,
	passwordService outbound.PasswordService,
	logger logger.Logger,
) inbound.SessionService {
	return &SessionUseCase{
		accounts:        accounts,
		tokenService:    tokenService,
		passwordService: passwordService,
		logger:          logger,
	}
}

func (uc *SessionUseCase) Login(ctx context.Context, req inbound.LoginRequest) (*inbound.SessionResult, error) {
	if req.Email == "" || req.Password == "" {
		return nil, apperr.ErrValidation("email and password are required")
	}

	account, err := uc.accounts.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, outbound.ErrAccountNotFound) {
			// Burn a hash comparison so this branch takes comparable time to
			// the wrong-password branch.
			uc.passwordService.VerifyDummy(req.Password)
			logger.LogAuthEvent(ctx, uc.logger, "login_failed", "", false, map[string]interface{}{
				"email": req.Email,
			})
			return nil, apperr.ErrInvalidCredentials()
		}
		uc.logger.Error(ctx, "Failed to find account", err, map[string]interface{}{
			"email": req.Email,
		})
		return nil, apperr.ErrInternalFailure("login", err)
	}

	match, err := uc.passwordService.Verify(req.Password, account.PasswordHash)
	if err != nil {
		uc.logger.Error(ctx, "Password verification error", err, map[string]interface{}{
			"account_id": account.ID,
		})
		return nil, apperr.ErrInternalFailure("login", err)
	}
	if !match {
		logger.LogAuthEvent(ctx, uc.logger, "login_failed", account.ID, false, map[string]interface{}{
			"email": req.Email,
		})
		return nil, apperr.ErrInvalidCredentials()
	}

	pair, err := uc.openSession(ctx, account)
	if err != nil {
		return nil, err
	}

	logger.LogAuthEvent(ctx, uc.logger, "login_successful", account.ID, true, map[string]interface{}{
		"email": req.Email,
	})

	return &inbound.SessionResult{
		Identity:     identityOf(account),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

func (uc *SessionUseCase) Register(ctx context.Context, req inbound.RegisterRequest) (*inbound.SessionResult, error) {
	if err := validateRegisterRequest(req); err != nil {
		return nil, err
	}

	role := entity.Role(strings.ToUpper(req.Role))
	if req.Role == "" {
		role = entity.RoleCustomer
	}
	if !role.Valid() {
		return nil, apperr.ErrValidation("unknown role")
	}

	// Check-then-insert: acceptable to race under low contention, the unique
	// constraint on email remains the authoritative guard.
	exists, err := uc.accounts.ExistsByEmail(ctx, req.Email)
	if err != nil {
		uc.logger.Error(ctx, "Failed to check email existence", err, map[string]interface{}{
			"email": req.Email,
		})
		return nil, apperr.ErrInternalFailure("register", err)
	}
	if exists {
		return nil, apperr.ErrDuplicateAccount()
	}

	passwordHash, err := uc.passwordService.Hash(req.Password)
	if err != nil {
		uc.logger.Error(ctx, "Failed to hash password", err, map[string]interface{}{
			"email": req.Email,
		})
		return nil, apperr.ErrInternalFailure("register", err)
	}

	account := entity.NewAccount(uuid.New().String(), req.Username, req.Email, passwordHash, role, req.Phone)
	if err := uc.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, outbound.ErrDuplicateEmail) {
			return nil, apperr.ErrDuplicateAccount()
		}
		uc.logger.Error(ctx, "Failed to create account", err, map[string]interface{}{
			"email": req.Email,
		})
		return nil, apperr.ErrInternalFailure("register", err)
	}

	pair, err := uc.openSession(ctx, account)
	if err != nil {
		return nil, err
	}

	logger.LogAuthEvent(ctx, uc.logger, "register_successful", account.ID, true, map[string]interface{}{
		"email": req.Email,
		"role":  role.String(),
	})

	return &inbound.SessionResult{
		Identity:     identityOf(account),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

func (uc *SessionUseCase) Logout(ctx context.Context, accountID string) (bool, error) {
	if accountID == "" {
		return false, apperr.ErrValidation("account ID is required")
	}

	// Idempotent: clearing an already-null slot is not an error.
	if err := uc.accounts.ClearRefreshTokenHash(ctx, accountID); err != nil {
		uc.logger.Error(ctx, "Failed to clear refresh token hash", err, map[string]interface{}{
			"account_id": accountID,
		})
		return false, apperr.ErrInternalFailure("logout", err)
	}

	logger.LogAuthEvent(ctx, uc.logger, "logout_successful", accountID, true, nil)
	return true, nil
}

func (uc *SessionUseCase) Refresh(ctx context.Context, accountID, refreshToken string) (*outbound.TokenPair, error) {
	if accountID == "" || refreshToken == "" {
		return nil, apperr.ErrAccessDenied()
	}

	account, err := uc.accounts.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, outbound.ErrAccountNotFound) {
			return nil, apperr.ErrAccessDenied()
		}
		uc.logger.Error(ctx, "Failed to find account", err, map[string]interface{}{
			"account_id": accountID,
		})
		return nil, apperr.ErrInternalFailure("refresh", err)
	}

	// "Never logged in" and "already rotated out" are indistinguishable here.
	if !account.HasActiveSession() {
		logger.LogAuthEvent(ctx, uc.logger, "refresh_denied_no_session", accountID, false, nil)
		return nil, apperr.ErrAccessDenied()
	}

	match, err := uc.passwordService.Verify(refreshToken, *account.RefreshTokenHash)
	if err != nil {
		uc.logger.Error(ctx, "Refresh token verification error", err, map[string]interface{}{
			"account_id": accountID,
		})
		return nil, apperr.ErrInternalFailure("refresh", err)
	}
	if !match {
		logger.LogAuthEvent(ctx, uc.logger, "refresh_denied_hash_mismatch", accountID, false, nil)
		return nil, apperr.ErrAccessDenied()
	}

	pair, err := uc.tokenService.GenerateTokenPair(claimsOf(account))
	if err != nil {
		uc.logger.Error(ctx, "Failed to generate token pair", err, map[string]interface{}{
			"account_id": accountID,
		})
		return nil, apperr.ErrInternalFailure("refresh", err)
	}

	newHash, err := uc.passwordService.Hash(pair.RefreshToken)
	if err != nil {
		uc.logger.Error(ctx, "Failed to hash refresh token", err, map[string]interface{}{
			"account_id": accountID,
		})
		return nil, apperr.ErrInternalFailure("refresh", err)
	}

	// Rotation is a compare-and-swap on the previously stored hash. Of two
	// concurrent refreshes holding the same stale token, only the one that
	// still observes the old hash completes; the other lands here with zero
	// rows updated.
	rotated, err := uc.accounts.RotateRefreshTokenHash(ctx, accountID, *account.RefreshTokenHash, newHash)
	if err != nil {
		uc.logger.Error(ctx, "Failed to rotate refresh token hash", err, map[string]interface{}{
			"account_id": accountID,
		})
		return nil, apperr.ErrInternalFailure("refresh", err)
	}
	if !rotated {
		logger.LogAuthEvent(ctx, uc.logger, "refresh_denied_concurrent_rotation", accountID, false, nil)
		return nil, apperr.ErrAccessDenied()
	}

	logger.LogAuthEvent(ctx, uc.logger, "token_refresh_successful", accountID, true, nil)
	return pair, nil
}

func (uc *SessionUseCase) Me(ctx context.Context, accountID string) (*inbound.Identity, error) {
	if accountID == "" {
		return nil, apperr.ErrValidation("account ID is required")
	}

	account, err := uc.accounts.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, outbound.ErrAccountNotFound) {
			return nil, apperr.ErrAccountNotFound(accountID)
		}
		uc.logger.Error(ctx, "Failed to find account", err, map[string]interface{}{
			"account_id": accountID,
		})
		return nil, apperr.ErrInternalFailure("me", err)
	}

	identity := identityOf(account)
	return &identity, nil
}

// openSession issues a fresh token pair and overwrites the stored refresh
// hash, invalidating any previously issued refresh token for the account.
func (uc *SessionUseCase) openSession(ctx context.Context, account *entity.Account) (*outbound.TokenPair, error) {
	pair, err := uc.tokenService.GenerateTokenPair(claimsOf(account))
	if err != nil {
		uc.logger.Error(ctx, "Failed to generate token pair", err, map[string]interface{}{
			"account_id": account.ID,
		})
		return nil, apperr.ErrInternalFailure("issue_token_pair", err)
	}

	hash, err := uc.passwordService.Hash(pair.RefreshToken)
	if err != nil {
		uc.logger.Error(ctx, "Failed to hash refresh token", err, map[string]interface{}{
			"account_id": account.ID,
		})
		return nil, apperr.ErrInternalFailure("issue_token_pair", err)
	}

	if err := uc.accounts.UpdateRefreshTokenHash(ctx, account.ID, hash); err != nil {
		uc.logger.Error(ctx, "Failed to store refresh token hash", err, map[string]interface{}{
			"account_id": account.ID,
		})
		return nil, apperr.ErrInternalFailure("issue_token_pair", err)
	}

	return pair, nil
}

func validateRegisterRequest(req inbound.RegisterRequest) error {
	if req.Username == "" {
		return apperr.ErrValidation("username is required")
	}
	if req.Email == "" {
		return apperr.ErrValidation("email is required")
	}
	if len(req.Password) < 6 {
		return apperr.ErrValidation("password must be at least 6 characters")
	}
	return nil
}

func claimsOf(account *entity.Account) outbound.TokenClaims {
	return outbound.TokenClaims{
		AccountID: account.ID,
		Username:  account.Username,
		Email:     account.Email,
		Role:      account.Role,
	}
}

func identityOf(account *entity.Account) inbound.Identity {
	return inbound.Identity{
		ID:       account.ID,
		Username: account.Username,
		Email:    account.Email,
		Role:     account.Role,
		Phone:    account.Phone,
	}
}
