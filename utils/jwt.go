package utils

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const (
	UserIDKey    = contextKey("userID")
	UserRoleKey  = contextKey("userRole")
	RequestIDKey = contextKey("requestID")
)

// GenerateAccessToken issues an HS256 access token for a user. Expiry
// defaults to 24 hours via JWT_TTL_HOURS.
func GenerateAccessToken(userID, role string) (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", errors.New("JWT_SECRET is not set")
	}

	ttl := 24 * time.Hour
	if s := os.Getenv("JWT_TTL_HOURS"); s != "" {
		if d, err := time.ParseDuration(s + "h"); err == nil && d > 0 {
			ttl = d
		}
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"id":   userID,
		"role": role,
		"exp":  now.Add(ttl).Unix(),
		"iat":  now.Unix(),
		"nbf":  now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateAccessToken parses a token, requiring exactly HS256 to avoid
// algorithm confusion, and returns its claims.
func ValidateAccessToken(tokenStr string) (jwt.MapClaims, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}
	token, err := jwt.ParseWithClaims(tokenStr, jwt.MapClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method == nil || t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	return claims, nil
}

// AuthMiddleware rejects requests without a valid Bearer token and injects
// the user id and role into the request context.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz := r.Header.Get("Authorization")
		if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
			WriteError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		claims, err := ValidateAccessToken(strings.TrimSpace(strings.TrimPrefix(authz, "Bearer ")))
		if err != nil {
			WriteError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		ctx := r.Context()
		if id, ok := claims["id"].(string); ok {
			ctx = context.WithValue(ctx, UserIDKey, id)
		}
		if role, ok := claims["role"].(string); ok {
			ctx = context.WithValue(ctx, UserRoleKey, role)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID returns the authenticated user id from the request context.
func GetUserID(r *http.Request) (string, bool) {
	id, ok := r.Context().Value(UserIDKey).(string)
	return id, ok
}
