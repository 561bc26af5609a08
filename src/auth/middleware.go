package auth

import (
	"net/http"
	"strconv"

	"tradejournal/src/model"
)

// Middleware resolves the authenticated identity for the request. The
// session layer in front of this service forwards the verified user ID
// in X-User-ID; here it is only attached to the context for ownership
// scoping, never interpreted further.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		idParam := r.Header.Get("X-User-ID")
		if idParam == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		id, err := strconv.ParseUint(idParam, 10, 64)
		if err != nil || id == 0 {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := WithUser(r.Context(), &model.User{ID: uint(id)})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
