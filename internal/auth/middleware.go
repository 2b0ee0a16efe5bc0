package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/evcharger-search/evcharger-search/internal/platform/httpx"
	"github.com/evcharger-search/evcharger-search/internal/shared"
)

const basicRealm = `Basic realm="Admin Panel"`

// errAuthFailure is the user-facing text when the account store fails.
var errAuthFailure = errors.New("authentication error")

// Authenticator verifies admin credentials.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*User, error)
}

// BasicAuth guards admin routes with HTTP Basic authentication and stores the
// admin in the request context.
func BasicAuth(authn Authenticator, translator *shared.Translator, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := translator.Printer(r)
			username, password, ok := r.BasicAuth()
			if !ok {
				w.Header().Set("WWW-Authenticate", basicRealm)
				httpx.Fail(w, http.StatusUnauthorized, p.Sprintf(shared.ErrAuthRequired.Error()))
				return
			}
			user, err := authn.Authenticate(r.Context(), username, password)
			if err != nil {
				if errors.Is(err, shared.ErrInvalidCredentials) {
					w.Header().Set("WWW-Authenticate", basicRealm)
					httpx.Fail(w, http.StatusUnauthorized, p.Sprintf(shared.ErrInvalidCredentials.Error()))
					return
				}
				logger.Error("admin authentication", slog.String("username", username), slog.Any("error", err))
				httpx.Fail(w, http.StatusInternalServerError, p.Sprintf(errAuthFailure.Error()))
				return
			}
			admin := &shared.Admin{ID: user.ID, Username: user.Username, Role: RoleAdmin}
			next.ServeHTTP(w, r.WithContext(shared.ContextWithAdmin(r.Context(), admin)))
		})
	}
}
