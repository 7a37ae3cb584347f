package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"streamhub/proj/internal/config"
	"streamhub/proj/internal/domain/models"
	"streamhub/proj/internal/domain/rbac"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestRequireAuthenticatedUser(t *testing.T) {
	app := NewTestApplication(nil, t)
	t.Run("authenticated", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request = request.WithContext(contextWithPrincipal(request.Context(), &models.Principal{
			AccountID: "1",
			Email:     "test@gmail.com",
			Role:      rbac.Member,
		}))
		app.requireAuthenticatedUser(http.HandlerFunc(okHandler)).ServeHTTP(recorder, request)
		assert.Equal(t, http.StatusOK, recorder.Code)
	})
	t.Run("anonymous", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		app.requireAuthenticatedUser(http.HandlerFunc(okHandler)).ServeHTTP(recorder, request)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}

func TestAuthenticate(t *testing.T) {
	app := NewTestApplication(nil, t)
	h := app.routes()
	id := signup(t, h, testOwnerEmail)
	token := login(t, h, testOwnerEmail)

	var got *models.Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = principalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	serve := func(header string) int {
		got = nil
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			request.Header.Set("Authorization", header)
		}
		app.Authenticate(next).ServeHTTP(recorder, request)
		return recorder.Code
	}

	t.Run("no header", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, serve(""))
		assert.Nil(t, got)
	})
	t.Run("valid token", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, serve("Bearer "+token))
		require.NotNil(t, got)
		assert.Equal(t, id, got.AccountID)
		assert.Equal(t, rbac.Owner, got.Role)
		assert.True(t, got.Protected)
	})
	t.Run("malformed header", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, serve("Token "+token))
		assert.Equal(t, http.StatusUnauthorized, serve("Bearer "))
	})
	t.Run("invalid token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, serve("Bearer not-a-jwt"))
	})
	t.Run("unknown subject", func(t *testing.T) {
		orphan, err := app.Services.Tokens.Issue("3f1c5a8e-0000-4000-8000-000000000000")
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, serve("Bearer "+orphan))
	})
}

func TestRecoverer(t *testing.T) {
	app := NewTestApplication(nil, t)
	for name, value := range map[string]any{
		"error":  assert.AnError,
		"string": "boom",
	} {
		t.Run(name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			app.Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				panic(value)
			})).ServeHTTP(recorder, request)
			assert.Equal(t, http.StatusInternalServerError, recorder.Code)
		})
	}
}

func TestRateLimiter(t *testing.T) {
	t.Run("enabled", func(t *testing.T) {
		cfg := testConfig()
		cfg.Limiter = config.Limiter{Enabled: true, Rps: 1, Burst: 2}
		app := NewTestApplication(cfg, t)
		h := app.RateLimiter(http.HandlerFunc(okHandler))
		codes := make([]int, 0, 3)
		for range 3 {
			recorder := httptest.NewRecorder()
			h.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
			codes = append(codes, recorder.Code)
		}
		assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	})
	t.Run("disabled", func(t *testing.T) {
		app := NewTestApplication(nil, t)
		h := app.RateLimiter(http.HandlerFunc(okHandler))
		for range 10 {
			recorder := httptest.NewRecorder()
			h.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
			require.Equal(t, http.StatusOK, recorder.Code)
		}
	})
}
