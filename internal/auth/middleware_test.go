package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func TestMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	var gotCaller *Caller
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCaller = CallerFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("valid token", func(t *testing.T) {
		gotCaller = nil
		token := signToken(t, jwt.MapClaims{
			"sub":   float64(42),
			"email": "jess@example.com",
			"role":  RoleClient,
			"exp":   time.Now().Add(time.Hour).Unix(),
		})
		req := httptest.NewRequest("GET", "/api/appointments", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, gotCaller)
		assert.Equal(t, 42, gotCaller.ID)
		assert.Equal(t, "jess@example.com", gotCaller.Email)
		assert.Equal(t, RoleClient, gotCaller.Role)
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/appointments", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"sub": float64(42),
			"exp": time.Now().Add(-time.Hour).Unix(),
		})
		req := httptest.NewRequest("GET", "/api/appointments", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": float64(1)})
		signed, err := token.SignedString([]byte("other-secret"))
		require.NoError(t, err)
		req := httptest.NewRequest("GET", "/api/appointments", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAdminMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	handler := AdminMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("admin allowed", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"sub":  float64(1),
			"role": RoleAdmin,
			"exp":  time.Now().Add(time.Hour).Unix(),
		})
		req := httptest.NewRequest("GET", "/admin/analytics/monthly", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("client rejected", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"sub":  float64(42),
			"role": RoleClient,
			"exp":  time.Now().Add(time.Hour).Unix(),
		})
		req := httptest.NewRequest("GET", "/admin/analytics/monthly", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unauthenticated rejected first", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/admin/analytics/monthly", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
