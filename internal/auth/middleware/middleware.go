// Package middleware gates protected routes behind the session cookie.
package middleware

import (
	"net/http"

	"github.com/vetstock/vetstock-backend/internal/auth/service"
	"github.com/vetstock/vetstock-backend/pkg/config"
	"github.com/vetstock/vetstock-backend/pkg/errors"
	"github.com/vetstock/vetstock-backend/pkg/httputil"
)

// RequireSession rejects requests without a valid session cookie.
// The session id is placed on the request context for handlers and logs.
func RequireSession(auth *service.AuthService, cfg *config.AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cfg.CookieName)
			if err != nil {
				httputil.Error(w, errors.Unauthorized("authentication required"))
				return
			}

			session, err := auth.Validate(r.Context(), cookie.Value)
			if err != nil {
				httputil.Error(w, err)
				return
			}

			ctx := httputil.WithSessionID(r.Context(), session.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
