package authapi

import (
	"context"
	"net/http"
	"time"

	"relay/cmd/identity"
)

type contextKey struct{ name string }

var userContextKey = contextKey{"authapi.user"}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, u identity.User) context.Context {
	return context.WithValue(ctx, userContextKey, u)
}

// UserFromContext returns the authenticated user placed by RequireAuth.
func UserFromContext(ctx context.Context) (identity.User, bool) {
	u, ok := ctx.Value(userContextKey).(identity.User)
	return u, ok
}

// RequireAuth guards a route: it verifies the session cookie, loads the user
// fresh from the store, and passes it on via the request context.
//
// Every failure mode is the same 401 to the client. A deleted user with a
// live token is also a 401, not a 404: the account no longer authenticates.
func (h *Handler) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := h.sessionTokenFromCookie(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}

		claims, err := h.tokens.Verify(token, time.Now().UTC())
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}

		u, err := h.store.GetUserByID(r.Context(), claims.UserID)
		if err != nil {
			if identity.IsNotFound(err) {
				writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
				return
			}
			h.log.Error("auth.require.load_user.fail", "err", err)
			writeError(w, http.StatusInternalServerError, "server_error", "internal error")
			return
		}

		next(w, r.WithContext(WithUser(r.Context(), u)))
	}
}

// userFromRequest returns the identity placed in context by RequireAuth.
// A missing identity on a guarded route is a wiring defect in this server,
// so the caller reports 500, never 401.
func userFromRequest(r *http.Request) (identity.User, bool) {
	return UserFromContext(r.Context())
}
