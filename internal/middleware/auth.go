package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ShinaSIT/Helix-Telebot/internal/services"
	"github.com/gorilla/mux"
)

// CallableAuthMiddleware requires an established caller identity on the
// authenticated callable transport.
func CallableAuthMiddleware(authService services.AuthService) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := extractTokenFromHeader(r)
			if tokenString == "" {
				writeUnauthenticated(w)
				return
			}

			caller, err := authService.VerifyToken(tokenString)
			if err != nil {
				writeUnauthenticated(w)
				return
			}

			ctx := services.WithCallerContext(r.Context(), caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractTokenFromHeader(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

func writeUnauthenticated(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"message": "caller identity is required",
			"status":  "UNAUTHENTICATED",
		},
	})
}
