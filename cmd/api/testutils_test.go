package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"streamhub/proj/internal/api/tasks"
	"streamhub/proj/internal/config"
	"streamhub/proj/internal/events"
	"streamhub/proj/internal/lib/logger"
	"streamhub/proj/internal/services"
	"streamhub/proj/internal/storage/memory"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testOwnerEmail = "owner@example.com"

func testConfig() *config.Config {
	return &config.Config{
		Limiter: config.Limiter{Rps: 20, Burst: 5},
		Auth: config.Auth{
			Secret:     "test-secret",
			Issuer:     "streamhub",
			TokenTTL:   time.Hour,
			OwnerEmail: testOwnerEmail,
			BcryptCost: bcrypt.MinCost,
		},
		Server: config.Server{ShutdownTimeout: time.Second},
		Tasks:  config.Tasks{MaxWorkers: 1, QueueSize: 10},
	}
}

// NewTestApplication wires the application on top of the in-memory store.
// A nil cfg means testConfig().
func NewTestApplication(cfg *config.Config, t *testing.T) *Application {
	t.Helper()
	if cfg == nil {
		cfg = testConfig()
	}
	log := logger.Discard()
	bgTasks := tasks.New(log, cfg.Tasks.MaxWorkers, cfg.Tasks.QueueSize)
	bgTasks.Run()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		bgTasks.Shutdown(ctx)
	})
	return NewApplication(cfg, log, services.FromMemory(memory.New()), bgTasks, events.Noop{})
}

type testResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

func doRequest(t *testing.T, h http.Handler, method, path, token string, body any, headers ...string) (*httptest.ResponseRecorder, testResponse) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body == nil {
		req.ContentLength = 0
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var resp testResponse
	if rec.Body.Len() > 0 {
		json.Unmarshal(rec.Body.Bytes(), &resp)
	}
	return rec, resp
}

func signup(t *testing.T, h http.Handler, email string) string {
	t.Helper()
	rec, resp := doRequest(t, h, http.MethodPost, "/api/v1/accounts/signup", "", map[string]any{
		"email":    email,
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	account := resp.Data["account"].(map[string]any)
	return account["id"].(string)
}

func login(t *testing.T, h http.Handler, email string) string {
	t.Helper()
	rec, resp := doRequest(t, h, http.MethodPost, "/api/v1/accounts/login", "", map[string]any{
		"email":    email,
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return resp.Data["token"].(string)
}
