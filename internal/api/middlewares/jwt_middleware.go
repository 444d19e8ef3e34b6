package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"homeledger/pkg/utils"
)

// NewJWTMiddleware is the identity boundary: it verifies the bearer
// token and puts the caller's user id and email into the request
// context. Issuing tokens is somebody else's job.
func NewJWTMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				utils.WriteError(w, "Unauthorized: Missing Bearer token", http.StatusUnauthorized)
				return
			}

			parsedToken, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
				return []byte(secret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil {
				if errors.Is(err, jwt.ErrTokenExpired) {
					utils.WriteError(w, "token expired", http.StatusUnauthorized)
					return
				}
				utils.WriteError(w, "invalid login token", http.StatusUnauthorized)
				return
			}

			claims, ok := parsedToken.Claims.(jwt.MapClaims)
			if !ok || !parsedToken.Valid {
				utils.WriteError(w, "invalid login token", http.StatusUnauthorized)
				return
			}

			userID, _ := claims["uid"].(string)
			email, _ := claims["email"].(string)
			if userID == "" {
				utils.WriteError(w, "invalid login token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), utils.UserIDKey, userID)
			ctx = context.WithValue(ctx, utils.EmailKey, email)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken pulls the token from the Authorization header, falling
// back to the legacy Bearer cookie.
func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		return strings.TrimPrefix(h, "Bearer ")
	}
	cookie, err := r.Cookie("Bearer")
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(cookie.Value, "Bearer ")
}
