package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/bombtris-server/internal/config"
)

type CtxKey int

const (
	CtxPlayerClaims CtxKey = iota
)

// ClaimsParser reads player claims off a request. *config.Cookies is one.
type ClaimsParser interface {
	ParsePlayerClaims(r *http.Request) (*config.PlayerClaims, error)
}

// Auth puts the claims of a logged in player in the request context under
// CtxPlayerClaims. Requests without valid cookies pass through anonymously.
func Auth(log logrus.FieldLogger, parser ClaimsParser) Middleware {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := parser.ParsePlayerClaims(r)
			if err != nil {
				if !errors.Is(err, http.ErrNoCookie) {
					log.WithError(err).Debug("rejected auth cookies")
				}
				h.ServeHTTP(w, r)
				return
			}
			ctx := WithPlayerClaims(r.Context(), claims)
			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func PlayerClaims(ctx context.Context) (*config.PlayerClaims, bool) {
	claims, ok := ctx.Value(CtxPlayerClaims).(*config.PlayerClaims)
	return claims, ok
}

func WithPlayerClaims(ctx context.Context, claims *config.PlayerClaims) context.Context {
	return context.WithValue(ctx, CtxPlayerClaims, claims)
}
