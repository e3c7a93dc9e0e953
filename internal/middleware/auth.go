package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/taskhub/taskhub/internal/auth"
	"github.com/taskhub/taskhub/internal/metrics"
	"github.com/taskhub/taskhub/internal/session"
)

// SessionAuthConfig holds configuration for the session gate.
type SessionAuthConfig struct {
	Logger   *slog.Logger
	Sessions session.Store
	Secret   string
	Metrics  metrics.Recorder
}

// RequireSession returns a middleware that gates requests on a valid
// session. It reads the session cookie, verifies its signature,
// resolves the session and injects the identity into the request
// context. Requests without a resolvable session are halted with 401.
func RequireSession(cfg SessionAuthConfig) func(http.Handler) http.Handler {
	recorder := cfg.Metrics
	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(auth.SessionCookieName)
			if err != nil {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "missing_cookie"),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				recorder.IncAuthRequired()
				writeAuthError(w)
				return
			}

			id, err := auth.ParseSessionToken(cfg.Secret, cookie.Value)
			if err != nil {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "invalid_token"),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				recorder.IncAuthRequired()
				writeAuthError(w)
				return
			}

			identity, err := cfg.Sessions.Resolve(r.Context(), id)
			if err != nil {
				if errors.Is(err, session.ErrSessionNotFound) {
					cfg.Logger.Warn("authentication failed",
						slog.String("reason", "session_expired"),
						slog.String("ip", r.RemoteAddr),
						slog.String("endpoint", r.Method+" "+r.URL.Path),
						slog.String("request_id", GetRequestID(r.Context())),
					)
				} else {
					cfg.Logger.Error("session store error during auth",
						slog.String("error", err.Error()),
						slog.String("request_id", GetRequestID(r.Context())),
					)
				}
				recorder.IncAuthRequired()
				writeAuthError(w)
				return
			}

			cfg.Logger.Info("authentication successful",
				slog.String("user_id", identity.UserID),
				slog.String("ip", r.RemoteAddr),
				slog.String("endpoint", r.Method+" "+r.URL.Path),
				slog.String("request_id", GetRequestID(r.Context())),
			)

			ctx := auth.ContextWithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// writeAuthError writes a 401 response.
// Uses the same message for all auth failures to prevent enumeration.
func writeAuthError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Authentication required"}`))
}
