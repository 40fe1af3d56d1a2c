package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/goaltracker/api/internal/ctxkeys"
	"github.com/goaltracker/api/internal/model"
	"github.com/goaltracker/api/internal/render"
)

// TokenVerifier resolves a bearer token to the id of the user it was issued to.
type TokenVerifier interface {
	VerifyJWT(token string) (string, error)
}

// UserLookup loads the user a verified token belongs to.
type UserLookup interface {
	ByID(ctx context.Context, id string) (*model.User, error)
}

// AuthMiddleware resolves the bearer token, if any, and adds the user to the
// context. Requests without a valid token continue anonymously; RequireAuth
// decides whether a route needs a user.
func AuthMiddleware(tokens TokenVerifier, users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := tokens.VerifyJWT(token)
			if err != nil {
				slog.Debug("rejected bearer token", "error", err, "path", r.URL.Path)
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.ByID(r.Context(), userID)
			if err != nil {
				slog.Debug("token user not found", "error", err, "user_id", userID)
				next.ServeHTTP(w, r)
				return
			}

			user.HashedPassword = ""

			ctx := ctxkeys.WithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth answers 401 unless AuthMiddleware attached a user.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.User(r.Context()) == nil {
			w.Header().Set("WWW-Authenticate", `Bearer realm="goals"`)
			render.Error(w, http.StatusUnauthorized, render.KindUnauthorized, "Invalid authorization token.")
			return
		}
		next.ServeHTTP(w, r)
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
