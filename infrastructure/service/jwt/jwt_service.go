package jwt

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/schedulo/schedulo/application/port/outbound"
	"github.com/schedulo/schedulo/domain/entity"
	"github.com/schedulo/schedulo/infrastructure/config"
)

const (
	tokenUseAccess  = "access"
	tokenUseRefresh = "refresh"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// JWTService signs and verifies the two token classes under independent HS256
// secrets. An access token presented to the refresh verifier (or vice versa)
// fails the signature check outright.
type JWTService struct {
	accessSecret    []byte
	refreshSecret   []byte
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
}

func NewJWTService(cfg *config.Config) (*JWTService, error) {
	if cfg.JWTAccessSecret == "" || cfg.JWTRefreshSecret == "" {
		return nil, errors.New("both signing secrets are required")
	}
	if cfg.JWTAccessSecret == cfg.JWTRefreshSecret {
		return nil, errors.New("signing secrets must be distinct")
	}
	return &JWTService{
		accessSecret:    []byte(cfg.JWTAccessSecret),
		refreshSecret:   []byte(cfg.JWTRefreshSecret),
		accessTokenTTL:  cfg.AccessTokenTTL,
		refreshTokenTTL: cfg.RefreshTokenTTL,
	}, nil
}

// GenerateTokenPair signs the payload twice, concurrently: once with the
// access secret and short TTL, once with the refresh secret and long TTL. The
// two signings are independent and their ordering is irrelevant.
func (s *JWTService) GenerateTokenPair(claims outbound.TokenClaims) (*outbound.TokenPair, error) {
	var (
		wg                        sync.WaitGroup
		accessToken, refreshToken string
		accessErr, refreshErr     error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		accessToken, accessErr = s.sign(claims, tokenUseAccess, s.accessSecret, s.accessTokenTTL)
	}()
	go func() {
		defer wg.Done()
		refreshToken, refreshErr = s.sign(claims, tokenUseRefresh, s.refreshSecret, s.refreshTokenTTL)
	}()
	wg.Wait()

	if accessErr != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", accessErr)
	}
	if refreshErr != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", refreshErr)
	}

	return &outbound.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *JWTService) ValidateAccessToken(token string) (*outbound.TokenClaims, error) {
	return s.validate(token, tokenUseAccess, s.accessSecret)
}

func (s *JWTService) ValidateRefreshToken(token string) (*outbound.TokenClaims, error) {
	return s.validate(token, tokenUseRefresh, s.refreshSecret)
}

func (s *JWTService) sign(claims outbound.TokenClaims, tokenUse string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	// jti keeps two tokens minted within the same second distinct; rotation
	// reuse detection relies on every issued refresh token being unique.
	tokenClaims := jwt.MapClaims{
		"jti":       uuid.NewString(),
		"sub":       claims.AccountID,
		"username":  claims.Username,
		"email":     claims.Email,
		"role":      claims.Role.String(),
		"token_use": tokenUse,
		"iat":       now.Unix(),
		"exp":       now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims)
	return token.SignedString(secret)
}

func (s *JWTService) validate(tokenString, tokenUse string, secret []byte) (*outbound.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, handleValidationError(err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	accountID, ok := claims["sub"].(string)
	if !ok || accountID == "" {
		return nil, ErrInvalidToken
	}

	// token_use is a second fence on top of the disjoint secrets.
	use, ok := claims["token_use"].(string)
	if !ok || use != tokenUse {
		return nil, ErrInvalidToken
	}

	username, _ := claims["username"].(string)
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)

	return &outbound.TokenClaims{
		AccountID: accountID,
		Username:  username,
		Email:     email,
		Role:      entity.Role(role),
	}, nil
}

func handleValidationError(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return ErrTokenExpired
	}
	return ErrInvalidToken
}
