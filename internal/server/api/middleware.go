package api

import (
	"net/http"
	"strings"

	"github.com/progitman/progitman/internal/server/auth"
)

// authenticate rejects requests without a valid bearer token. The verified
// operator name is not threaded further; the vault has a single operator.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}

		if _, err := auth.GetUsernameFromToken(token, []byte(h.cfg.SecretKey)); err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}
