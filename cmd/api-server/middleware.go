package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/cors"
	"github.com/tomasen/realip"
	"github.com/zeetms/fleet-admin/internal/auth"
	"github.com/zeetms/fleet-admin/internal/ctxstore"
	"github.com/zeetms/fleet-admin/internal/response"
)

const (
	_traceIDKey = ctxstore.Key("traceId")
	_claimsKey  = ctxstore.Key("claims")

	_adminRole = "Admin"
)

func (app *application) traceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tid := genTraceID()
		ctx := ctxstore.With(r.Context(), _traceIDKey, tid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			err := recover()
			if err != nil {
				app.serverError(w, r, fmt.Errorf("%s", err))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func (app *application) logAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mw := response.NewMetricsResponseWriter(w)
		next.ServeHTTP(mw, r)

		var (
			ip     = realip.FromRequest(r)
			method = r.Method
			url    = r.URL.String()
			proto  = r.Proto
			tid    = ctxstore.MustFrom[string](r.Context(), _traceIDKey)
		)

		userAttrs := slog.Group("user", "ip", ip)
		requestAttrs := slog.Group("request", "method", method, "url", url, "proto", proto, _traceIDKey.String(), tid)
		responseAttrs := slog.Group("response", "status", mw.StatusCode, "size", mw.BytesCount)

		app.serverLogger().Info("access", userAttrs, requestAttrs, responseAttrs)
	})
}

func (app *application) CORS(next http.Handler) http.Handler {
	return cors.AllowAll().Handler(next)
}

// authenticate verifies the bearer token and stores the verified claims in the
// request context.
func (app *application) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Authorization")

		token, err := auth.ExtractBearer(r.Header.Get("Authorization"))
		if err != nil {
			app.unauthorized(w, r, "missing or malformed bearer token")
			return
		}

		claims, err := app.auth.ValidateToken(token)
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				app.unauthorized(w, r, "token expired")
				return
			}

			app.unauthorized(w, r, "invalid token")
			return
		}

		ctx := ctxstore.With(r.Context(), _claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAdmin must sit behind authenticate.
func (app *application) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ctxstore.From[auth.Claims](r.Context(), _claimsKey)
		if !ok || claims.Role != _adminRole {
			app.forbidden(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (app *application) requestLogger(r *http.Request) *slog.Logger {
	tid, _ := ctxstore.From[string](r.Context(), _traceIDKey)
	return app.logger.With(_traceIDKey.String(), tid)
}

func genTraceID() string {
	id, _ := uuid.NewRandom()
	return id.String()
}
