package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"worklog/internal/models"
	"worklog/internal/security"
	"worklog/internal/service"
)

// Authenticator resolves a session id to its user.
type Authenticator interface {
	CurrentUser(ctx context.Context, sessionID string) (*models.User, error)
}

// RequireAuth lets the request through only with a live session, storing
// the caller's Identity on the request context. Anonymous callers are sent
// to loginPath.
func RequireAuth(auth Authenticator, cookies *security.CookieStore, loginPath string, log logrus.FieldLogger) func(http.Handler) http.Handler {
	if auth == nil || cookies == nil {
		panic("RequireAuth needs an authenticator and a cookie store")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid := cookies.SessionID(r)

			user, err := auth.CurrentUser(r.Context(), sid)
			if err != nil {
				if errors.Is(err, service.ErrUnauthenticated) {
					if sid != "" {
						_ = cookies.Clear(w, r)
					}
					http.Redirect(w, r, loginPath, http.StatusFound)
					return
				}
				log.WithError(err).Error("auth middleware: resolve session")
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}

			ctx := WithIdentity(r.Context(), &Identity{SessionID: sid, User: user})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
