package jwt

import (
	"testing"
	"time"

	"github.com/schedulo/schedulo/application/port/outbound"
	"github.com/schedulo/schedulo/domain/entity"
	"github.com/schedulo/schedulo/infrastructure/config"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTAccessSecret:  "access-test-secret",
		JWTRefreshSecret: "refresh-test-secret",
		AccessTokenTTL:   15 * time.Minute,
		RefreshTokenTTL:  7 * 24 * time.Hour,
	}
}

func testClaims() outbound.TokenClaims {
	return outbound.TokenClaims{
		AccountID: "acc-1",
		Username:  "jdoe",
		Email:     "j@x.com",
		Role:      entity.RoleCustomer,
	}
}

func TestJWTService(t *testing.T) {
	service, err := NewJWTService(testConfig())
	if err != nil {
		t.Fatalf("Failed to create JWT service: %v", err)
	}

	t.Run("GenerateTokenPair", func(t *testing.T) {
		pair, err := service.GenerateTokenPair(testClaims())
		if err != nil {
			t.Fatalf("Failed to generate token pair: %v", err)
		}
		if pair.AccessToken == "" || pair.RefreshToken == "" {
			t.Error("Tokens should not be empty")
		}
		if pair.AccessToken == pair.RefreshToken {
			t.Error("Access and refresh tokens should differ")
		}
	})

	t.Run("BackToBackPairsDiffer", func(t *testing.T) {
		first, err := service.GenerateTokenPair(testClaims())
		if err != nil {
			t.Fatalf("Failed to generate token pair: %v", err)
		}
		second, err := service.GenerateTokenPair(testClaims())
		if err != nil {
			t.Fatalf("Failed to generate token pair: %v", err)
		}
		if first.RefreshToken == second.RefreshToken {
			t.Error("Every minted refresh token should be unique")
		}
	})

	t.Run("ValidateAccessToken", func(t *testing.T) {
		pair, err := service.GenerateTokenPair(testClaims())
		if err != nil {
			t.Fatalf("Failed to generate token pair: %v", err)
		}

		claims, err := service.ValidateAccessToken(pair.AccessToken)
		if err != nil {
			t.Fatalf("Failed to validate access token: %v", err)
		}
		if claims.AccountID != "acc-1" || claims.Username != "jdoe" || claims.Email != "j@x.com" || claims.Role != entity.RoleCustomer {
			t.Errorf("Unexpected claims: %+v", claims)
		}
	})

	t.Run("ValidateRefreshToken", func(t *testing.T) {
		pair, err := service.GenerateTokenPair(testClaims())
		if err != nil {
			t.Fatalf("Failed to generate token pair: %v", err)
		}

		claims, err := service.ValidateRefreshToken(pair.RefreshToken)
		if err != nil {
			t.Fatalf("Failed to validate refresh token: %v", err)
		}
		if claims.AccountID != "acc-1" {
			t.Errorf("Expected account acc-1, got %s", claims.AccountID)
		}
	})

	t.Run("AccessTokenRejectedByRefreshVerifier", func(t *testing.T) {
		pair, err := service.GenerateTokenPair(testClaims())
		if err != nil {
			t.Fatalf("Failed to generate token pair: %v", err)
		}

		if _, err := service.ValidateRefreshToken(pair.AccessToken); err == nil {
			t.Error("Access token must never verify against the refresh secret")
		}
	})

	t.Run("RefreshTokenRejectedByAccessVerifier", func(t *testing.T) {
		pair, err := service.GenerateTokenPair(testClaims())
		if err != nil {
			t.Fatalf("Failed to generate token pair: %v", err)
		}

		if _, err := service.ValidateAccessToken(pair.RefreshToken); err == nil {
			t.Error("Refresh token must never verify against the access secret")
		}
	})

	t.Run("ValidateGarbageToken", func(t *testing.T) {
		if _, err := service.ValidateAccessToken("not-a-jwt"); err == nil {
			t.Error("Should fail to validate a malformed token")
		}
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		cfg := testConfig()
		cfg.AccessTokenTTL = -time.Minute
		expiredService, err := NewJWTService(cfg)
		if err != nil {
			t.Fatalf("Failed to create JWT service: %v", err)
		}

		pair, err := expiredService.GenerateTokenPair(testClaims())
		if err != nil {
			t.Fatalf("Failed to generate token pair: %v", err)
		}

		if _, err := service.ValidateAccessToken(pair.AccessToken); err != ErrTokenExpired {
			t.Errorf("Expected ErrTokenExpired, got %v", err)
		}
	})
}

func TestNewJWTServiceRejectsBadSecrets(t *testing.T) {
	t.Run("MissingSecret", func(t *testing.T) {
		cfg := testConfig()
		cfg.JWTRefreshSecret = ""
		if _, err := NewJWTService(cfg); err == nil {
			t.Error("Should reject a missing refresh secret")
		}
	})

	t.Run("EqualSecrets", func(t *testing.T) {
		cfg := testConfig()
		cfg.JWTRefreshSecret = cfg.JWTAccessSecret
		if _, err := NewJWTService(cfg); err == nil {
			t.Error("Should reject identical secrets")
		}
	})
}
