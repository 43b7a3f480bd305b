package session

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the console session token payload.
type Claims struct {
	PatientID  string `json:"patientId"`
	ProviderID string `json:"providerId,omitempty"`
	Name       string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Middleware validates the HMAC session JWT and puts the resulting Session
// in the request context. Requests without a valid token are rejected.
func Middleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				http.Error(w, "session auth disabled", http.StatusUnauthorized)
				return
			}
			auth := r.Header.Get("Authorization")
			if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}
			tokenString := strings.TrimPrefix(auth, "Bearer ")
			claims := &Claims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			if claims.PatientID == "" {
				http.Error(w, "token missing patient id", http.StatusUnauthorized)
				return
			}
			ctx := WithSession(r.Context(), Session{
				PatientID:  claims.PatientID,
				ProviderID: claims.ProviderID,
				Name:       claims.Name,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
