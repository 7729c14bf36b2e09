package middleware

import (
	"net/http"

	"github.com/gorilla/mux"
)

// SecretHeader carries the shared-secret credential on the unauthenticated
// transport.
const SecretHeader = "X-Proxy-Secret"

// SecretAuthMiddleware validates the shared-secret header. Rejected calls
// never reach the quota transaction.
func SecretAuthMiddleware(secret string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get(SecretHeader)
			if secret == "" || provided == "" || provided != secret {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
