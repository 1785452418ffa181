package outbound

import "github.com/schedulo/schedulo/domain/entity"

// TokenClaims is the signed payload carried by both token classes.
type TokenClaims struct {
	AccountID string      `json:"sub"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Role      entity.Role `json:"role"`
}

// TokenPair holds one freshly signed access/refresh pair.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// TokenService signs and verifies the two token classes under independent
// secrets so one class can never be replayed as the other.
type TokenService interface {
	GenerateTokenPair(claims TokenClaims) (*TokenPair, error)
	ValidateAccessToken(token string) (*TokenClaims, error)
	ValidateRefreshToken(token string) (*TokenClaims, error)
}
