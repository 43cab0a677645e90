package middleware

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/todo-api/services/todo-service/internal/model"
	"github.com/vasapolrittideah/todo-api/shared/logger"
	"github.com/vasapolrittideah/todo-api/shared/utilities"
)

// AuthHeader carries the bearer token on requests and responses.
const AuthHeader = "x-auth"

// TokenResolver resolves a token to the user holding it.
type TokenResolver interface {
	FindByToken(ctx context.Context, token string) (*model.User, error)
}

// Identity is the authenticated caller of a request.
type Identity struct {
	User  *model.User
	Token string
}

type contextKey struct{}

var identityKey = contextKey{}

// Authenticate rejects requests without an active token with 401 and an
// empty body. Every kind of token failure produces the same response.
func Authenticate(resolver TokenResolver, fallback *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(AuthHeader)
			if token == "" {
				utilities.WriteStatus(w, http.StatusUnauthorized)
				return
			}

			user, err := resolver.FindByToken(r.Context(), token)
			if err != nil {
				logger.FromContext(r.Context(), fallback).Debug().Err(err).Msg("rejected auth token")
				utilities.WriteStatus(w, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, Identity{User: user, Token: token})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext returns the identity attached by Authenticate.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey).(Identity)
	return identity, ok
}
