package middleware

import (
	"context"
	"net/http"
	"os"
	"strings"

	"finpay-bridge/internal/utils"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const (
	UserIDKey      contextKey = "userID"
	TokenClaimsKey contextKey = "jwtClaims"
)

var jwtKey = []byte(os.Getenv("SECRET_KEY"))

// RequireAuth guards the storefront-facing routes. The shop issues the
// bearer token; this service only validates it and extracts the user id.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			utils.WriteJSONError(w, "missing bearer token", http.StatusUnauthorized)
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			return jwtKey, nil
		})
		if err != nil || !token.Valid {
			utils.WriteJSONError(w, "invalid token", http.StatusUnauthorized)
			return
		}

		ctx := r.Context()
		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			ctx = context.WithValue(ctx, TokenClaimsKey, claims)
			if uid, ok := claims["user_id"].(float64); ok {
				ctx = context.WithValue(ctx, UserIDKey, uint(uid))
			}
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserIDFromContext returns the authenticated user id, if any.
func UserIDFromContext(ctx context.Context) (uint, bool) {
	uid, ok := ctx.Value(UserIDKey).(uint)
	return uid, ok
}
