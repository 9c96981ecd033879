package service

import (
	"testing"

	"detailing/internal/auth"
	"detailing/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type mockAdminRepo struct {
	admins  map[string]*repository.Admin
	created []string
}

func (m *mockAdminRepo) GetByEmail(email string) (*repository.Admin, error) {
	return m.admins[email], nil
}

func (m *mockAdminRepo) CreateAdmin(email, password string) error {
	m.created = append(m.created, email)
	return nil
}

func TestAdminLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &mockAdminRepo{admins: map[string]*repository.Admin{
		"owner@shineworks.test": {ID: 1, Email: "owner@shineworks.test", PasswordHash: string(hash)},
	}}
	svc := NewAdminAuthService(repo)

	t.Run("valid credentials", func(t *testing.T) {
		tokenStr, err := svc.Login("owner@shineworks.test", "hunter2")
		require.NoError(t, err)

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			return []byte("test-secret"), nil
		})
		require.NoError(t, err)
		claims := token.Claims.(jwt.MapClaims)
		assert.Equal(t, "owner@shineworks.test", claims["email"])
		assert.Equal(t, auth.RoleAdmin, claims["role"])
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login("owner@shineworks.test", "wrong")
		assert.Error(t, err)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login("nobody@shineworks.test", "hunter2")
		assert.Error(t, err)
	})
}

func TestCreateAdmin(t *testing.T) {
	repo := &mockAdminRepo{admins: map[string]*repository.Admin{}}
	svc := NewAdminAuthService(repo)

	assert.Error(t, svc.CreateAdmin("", "hunter2"))
	assert.Error(t, svc.CreateAdmin("owner@shineworks.test", ""))
	assert.Empty(t, repo.created)

	require.NoError(t, svc.CreateAdmin("owner@shineworks.test", "hunter2"))
	assert.Equal(t, []string{"owner@shineworks.test"}, repo.created)
}
