package auth

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const callerKey contextKey = "caller"

const (
	RoleAdmin  = "admin"
	RoleClient = "client"
)

// Caller is the authenticated identity resolved from the bearer token.
type Caller struct {
	ID    int
	Email string
	Role  string
}

// CallerFromContext returns the authenticated caller, or nil when the request
// went through an unauthenticated route.
func CallerFromContext(ctx context.Context) *Caller {
	c, _ := ctx.Value(callerKey).(*Caller)
	return c
}

func parseToken(r *http.Request) (*Caller, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, false
	}
	tokenStr := strings.TrimPrefix(header, "Bearer ")

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, false
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, false
	}
	id, ok := claims["sub"].(float64)
	if !ok {
		return nil, false
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)

	return &Caller{ID: int(id), Email: email, Role: role}, true
}

// Middleware rejects requests without a valid bearer token and stores the
// caller in the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, ok := parseToken(r)
		if !ok {
			http.Error(w, "Not authenticated", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), callerKey, caller)))
	})
}

// AdminMiddleware additionally requires the admin role. Schedule mutators and
// analytics are admin-only.
func AdminMiddleware(next http.Handler) http.Handler {
	return Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller := CallerFromContext(r.Context())
		if caller == nil || caller.Role != RoleAdmin {
			http.Error(w, "Access denied", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	}))
}
