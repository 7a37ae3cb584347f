package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"streamhub/proj/internal/domain/models"
	"streamhub/proj/internal/services/accounts"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/tomasen/realip"
	"golang.org/x/time/rate"
)

func (app *Application) Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				err, ok := rec.(error)
				if !ok {
					err = fmt.Errorf("panic: %v", rec)
				}
				w.Header().Set("Connection", "close")
				app.Http.ServerError(w, r, err, "")
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func (app *Application) RateLimiter(next http.Handler) http.Handler {
	const op = "middlewares.RateLimiter"
	log := app.log.With("op", op)
	type client struct {
		limiter  *rate.Limiter
		lastSeen time.Time
	}
	clients := make(map[string]*client)
	var mu sync.Mutex
	if app.cfg.Limiter.Enabled {
		go func() {
			for {
				time.Sleep(time.Minute)
				mu.Lock()
				for ip, client := range clients {
					if time.Since(client.lastSeen) > 3*time.Minute {
						delete(clients, ip)
					}
				}
				mu.Unlock()
			}
		}()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !app.cfg.Limiter.Enabled {
			next.ServeHTTP(w, r)
			return
		}
		ip := realip.FromRequest(r)
		mu.Lock()
		c, ok := clients[ip]
		if !ok {
			c = &client{limiter: rate.NewLimiter(rate.Limit(app.cfg.Limiter.Rps), app.cfg.Limiter.Burst)}
			clients[ip] = c
		}
		c.lastSeen = time.Now()
		allowed := c.limiter.Allow()
		mu.Unlock()
		if !allowed {
			log.Warn("rate limit exceeded", "ip", ip)
			app.Http.Response(
				w, r,
				envelop{"error": "rate limit exceeded"},
				"Can't process request see an error below.",
				http.StatusTooManyRequests,
			)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type CtxKey string

const CtxKeyPrincipal CtxKey = "principal"

func principalFromContext(ctx context.Context) *models.Principal {
	principal, _ := ctx.Value(CtxKeyPrincipal).(*models.Principal)
	return principal
}

func contextWithPrincipal(ctx context.Context, principal *models.Principal) context.Context {
	return context.WithValue(ctx, CtxKeyPrincipal, principal)
}

// Authenticate resolves the bearer token into a principal. Requests without
// the header go through anonymously; a bad or stale token is rejected.
func (app *Application) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Authorization")
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			next.ServeHTTP(w, r)
			return
		}
		token, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || token == "" {
			app.log.Debug("invalid auth header")
			app.Http.Unauthorized(w, r, "Invalid Authorization header, should be 'Bearer <token>'")
			return
		}
		accountID, ok := app.Services.Tokens.Verify(token)
		if !ok {
			app.Http.Unauthorized(w, r, "Invalid or expired token")
			return
		}
		principal, err := app.Services.Accounts.Principal(r.Context(), accountID)
		if err != nil {
			if errors.Is(err, accounts.ErrAccountNotFound) {
				app.log.Info("token subject no longer exists", "account_id", accountID)
				app.Http.Unauthorized(w, r, "Invalid or expired token")
				return
			}
			app.Http.Error(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(contextWithPrincipal(r.Context(), principal)))
	})
}

func (app *Application) requireAuthenticatedUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if principalFromContext(r.Context()) == nil {
			app.Http.Unauthorized(w, r, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Metrics records request count and latency labelled by the matched route.
func (app *Application) Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			path = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		labels := []string{r.Method, path, strconv.Itoa(status)}
		app.metrics.HTTPRequestTotal.WithLabelValues(labels...).Inc()
		app.metrics.HTTPRequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
	})
}
