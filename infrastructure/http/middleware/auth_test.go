package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schedulo/schedulo/application/port/outbound"
	"github.com/schedulo/schedulo/domain/entity"
)

type stubTokenService struct{}

func (s *stubTokenService) GenerateTokenPair(claims outbound.TokenClaims) (*outbound.TokenPair, error) {
	return nil, errors.New("not used")
}

func (s *stubTokenService) ValidateAccessToken(token string) (*outbound.TokenClaims, error) {
	if token == "valid-access" {
		return &outbound.TokenClaims{AccountID: "acc-1", Username: "jdoe", Email: "j@x.com", Role: entity.RoleCustomer}, nil
	}
	return nil, errors.New("invalid token")
}

func (s *stubTokenService) ValidateRefreshToken(token string) (*outbound.TokenClaims, error) {
	if token == "valid-refresh" {
		return &outbound.TokenClaims{AccountID: "acc-1", Username: "jdoe", Email: "j@x.com", Role: entity.RoleCustomer}, nil
	}
	return nil, errors.New("invalid token")
}

func newTestRouter() (*mux.Router, *AuthGate) {
	gate := NewAuthGate(&stubTokenService{})
	router := mux.NewRouter()

	captured := func(w http.ResponseWriter, r *http.Request) {
		identity := GetIdentity(r.Context())
		if identity != nil && identity.RefreshToken != "" {
			w.Header().Set("X-Captured-Refresh", identity.RefreshToken)
		}
		if identity != nil {
			w.Header().Set("X-Account-ID", identity.AccountID)
		}
		w.WriteHeader(http.StatusOK)
	}

	router.HandleFunc("/public", captured).Name("public")
	router.HandleFunc("/protected", captured).Name("protected")
	router.HandleFunc("/refresh", captured).Name("refresh")
	// Deliberately no policy declaration: a freshly added route.
	router.HandleFunc("/unmarked", captured).Name("unmarked")
	// A route nobody bothered to name at all.
	router.HandleFunc("/anonymous", captured)

	gate.SetPolicy("public", PolicyPublic)
	gate.SetPolicy("refresh", PolicyRefresh)

	router.Use(gate.Middleware)
	return router, gate
}

func do(router *mux.Router, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuthGateExemptRoute(t *testing.T) {
	router, _ := newTestRouter()

	rec := do(router, "/public", "")
	assert.Equal(t, http.StatusOK, rec.Code, "public route must not require a bearer token")
}

func TestAuthGateProtectedRoute(t *testing.T) {
	router, _ := newTestRouter()

	t.Run("MissingHeader", func(t *testing.T) {
		rec := do(router, "/protected", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("MalformedHeader", func(t *testing.T) {
		rec := do(router, "/protected", "NotBearer valid-access")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("InvalidToken", func(t *testing.T) {
		rec := do(router, "/protected", "Bearer garbage")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("RefreshTokenRejected", func(t *testing.T) {
		rec := do(router, "/protected", "Bearer valid-refresh")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "refresh-signed token must not pass the access policy")
	})

	t.Run("ValidToken", func(t *testing.T) {
		rec := do(router, "/protected", "Bearer valid-access")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "acc-1", rec.Header().Get("X-Account-ID"))
		assert.Empty(t, rec.Header().Get("X-Captured-Refresh"), "access policy must not capture a raw token")
	})
}

func TestAuthGateFailClosedDefault(t *testing.T) {
	router, _ := newTestRouter()

	t.Run("NamedRouteWithoutPolicy", func(t *testing.T) {
		rec := do(router, "/unmarked", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "routes without a declared policy are protected")
	})

	t.Run("UnnamedRoute", func(t *testing.T) {
		rec := do(router, "/anonymous", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "unnamed routes are protected")
	})

	t.Run("StillAcceptsValidToken", func(t *testing.T) {
		rec := do(router, "/unmarked", "Bearer valid-access")
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestAuthGateRefreshRoute(t *testing.T) {
	router, _ := newTestRouter()

	t.Run("MissingHeader", func(t *testing.T) {
		rec := do(router, "/refresh", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("HeaderPresentButNoToken", func(t *testing.T) {
		rec := do(router, "/refresh", "Bearer ")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("AccessTokenRejected", func(t *testing.T) {
		rec := do(router, "/refresh", "Bearer valid-access")
		assert.Equal(t, http.StatusForbidden, rec.Code, "access-signed token must not pass the refresh policy")
	})

	t.Run("InvalidToken", func(t *testing.T) {
		rec := do(router, "/refresh", "Bearer garbage")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("ValidTokenCapturesRawValue", func(t *testing.T) {
		rec := do(router, "/refresh", "Bearer valid-refresh")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "valid-refresh", rec.Header().Get("X-Captured-Refresh"), "refresh policy must expose the raw presented token")
	})
}

func TestAuthGateRejectionShapes(t *testing.T) {
	router, _ := newTestRouter()

	decode := func(t *testing.T, rec *httptest.ResponseRecorder) (bool, string) {
		t.Helper()
		var envelope struct {
			Status  bool   `json:"status"`
			Message string `json:"message"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
		return envelope.Status, envelope.Message
	}

	cases := []struct {
		name    string
		path    string
		header  string
		status  int
		message string
	}{
		{"AccessMissingToken", "/protected", "", http.StatusUnauthorized, "Authentication required"},
		{"AccessInvalidToken", "/protected", "Bearer garbage", http.StatusUnauthorized, "Invalid or expired token"},
		{"RefreshMissingHeader", "/refresh", "", http.StatusUnauthorized, "Authentication required"},
		{"RefreshMalformedHeader", "/refresh", "Bearer ", http.StatusUnauthorized, "Refresh token malformed"},
		{"RefreshInvalidToken", "/refresh", "Bearer garbage", http.StatusForbidden, "Access denied"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(router, tc.path, tc.header)
			require.Equal(t, tc.status, rec.Code)

			ok, message := decode(t, rec)
			assert.False(t, ok)
			assert.Equal(t, tc.message, message, "rejection message comes from the error catalog")
		})
	}
}

func TestExtractBearer(t *testing.T) {
	cases := []struct {
		name   string
		header string
		token  string
		ok     bool
	}{
		{"Plain", "Bearer abc.def.ghi", "abc.def.ghi", true},
		{"LowercaseScheme", "bearer abc", "abc", true},
		{"Empty", "", "", false},
		{"NoScheme", "abc.def.ghi", "", false},
		{"WrongScheme", "Basic abc", "", false},
		{"SchemeOnly", "Bearer", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			token, ok := extractBearer(req)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.token, token)
		})
	}
}
