package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/tacoeljunior/ordering-backend/api/responses"
	pkgerrors "github.com/tacoeljunior/ordering-backend/pkg/errors"
	"github.com/tacoeljunior/ordering-backend/pkg/logger"
)

const cartSessionHeader = "X-Cart-Session"

type cartSessionKey struct{}

// CartSession requires the client's cart session header and stores it on the
// request context. The mobile client generates the id once per install.
func CartSession(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := strings.TrimSpace(r.Header.Get(cartSessionHeader))
			if sessionID == "" {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "cart session header required"))
				return
			}

			ctx := WithCartSessionID(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithCartSession(ctx, sessionID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithCartSessionID stores a session id on the context directly.
func WithCartSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, cartSessionKey{}, sessionID)
}

// CartSessionFromContext returns the session id stored by CartSession.
func CartSessionFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(cartSessionKey{}).(string); ok {
		return v
	}
	return ""
}
