package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hongminglow/notes-be/internal/auth"
	"github.com/hongminglow/notes-be/internal/http/respond"
	"github.com/hongminglow/notes-be/internal/logging"
	"github.com/hongminglow/notes-be/internal/storage"
)

// TokenVerifier resolves a bearer token to its subject id.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Authenticator gates handlers behind a valid bearer token whose subject
// still exists in the user store.
type Authenticator struct {
	tokens TokenVerifier
	users  storage.UserStore
	logger *slog.Logger
}

// NewAuthenticator constructs the middleware.
func NewAuthenticator(tokens TokenVerifier, users storage.UserStore, logger *slog.Logger) *Authenticator {
	return &Authenticator{tokens: tokens, users: users, logger: logger}
}

// Require rejects requests without a valid token and attaches the resolved
// user to the request context otherwise.
func (a *Authenticator) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "no token provided")
			return
		}

		subject, err := a.tokens.Verify(token)
		if err != nil {
			msg := "not authorized to access this route"
			if errors.Is(err, auth.ErrTokenExpired) {
				msg = "token expired"
			}
			respond.Error(w, http.StatusUnauthorized, msg)
			return
		}

		user, err := a.users.FindByID(r.Context(), subject)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				respond.Error(w, http.StatusUnauthorized, "not authorized to access this route")
				return
			}
			logging.FromContext(r.Context(), a.logger).ErrorContext(r.Context(), "resolve token subject",
				slog.String("user_id", subject), slog.Any("error", err))
			respond.Error(w, http.StatusInternalServerError, "failed to fetch user")
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), user)))
	})
}

// bearerToken extracts the credentials of a "Bearer <token>" header. The
// scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
