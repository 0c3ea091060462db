package permissions

import (
	"net/http"
	"testing"

	"yamdb/internal/microservices/http-api/models"

	"github.com/stretchr/testify/assert"
)

func users() (plain, moder, admin, staff *models.User) {
	plain = &models.User{ID: "u1", Username: "plain", Role: models.RoleUser}
	moder = &models.User{ID: "u2", Username: "moder", Role: models.RoleModerator}
	admin = &models.User{ID: "u3", Username: "admin", Role: models.RoleAdmin}
	staff = &models.User{ID: "u4", Username: "staff", Role: models.RoleUser, IsStaff: true}
	return
}

func TestIsAdminOrReadOnly(t *testing.T) {
	plain, moder, admin, staff := users()

	assert.True(t, IsAdminOrReadOnly(http.MethodGet, nil))
	assert.True(t, IsAdminOrReadOnly(http.MethodHead, nil))
	assert.True(t, IsAdminOrReadOnly(http.MethodOptions, plain))
	assert.False(t, IsAdminOrReadOnly(http.MethodPost, nil))
	assert.False(t, IsAdminOrReadOnly(http.MethodPost, plain))
	assert.False(t, IsAdminOrReadOnly(http.MethodDelete, moder))
	assert.True(t, IsAdminOrReadOnly(http.MethodPatch, admin))
	assert.True(t, IsAdminOrReadOnly(http.MethodPost, staff))
}

func TestIsAdminOnly(t *testing.T) {
	plain, moder, admin, _ := users()
	superuser := &models.User{ID: "u5", IsSuperuser: true}

	assert.False(t, IsAdminOnly(http.MethodGet, nil))
	assert.False(t, IsAdminOnly(http.MethodGet, plain))
	assert.False(t, IsAdminOnly(http.MethodGet, moder))
	assert.True(t, IsAdminOnly(http.MethodGet, admin))
	assert.True(t, IsAdminOnly(http.MethodDelete, superuser))
}

func TestIsAuthenticated(t *testing.T) {
	plain, _, _, _ := users()
	assert.False(t, IsAuthenticated(http.MethodGet, nil))
	assert.True(t, IsAuthenticated(http.MethodPatch, plain))
}

func TestIsAuthenticatedOrReadOnly(t *testing.T) {
	plain, _, _, _ := users()
	assert.True(t, IsAuthenticatedOrReadOnly(http.MethodGet, nil))
	assert.False(t, IsAuthenticatedOrReadOnly(http.MethodPost, nil))
	assert.True(t, IsAuthenticatedOrReadOnly(http.MethodPost, plain))
}

func TestCanModifyObject(t *testing.T) {
	plain, moder, admin, _ := users()
	other := &models.User{ID: "u9", Role: models.RoleUser}

	tests := []struct {
		name   string
		method string
		user   *models.User
		want   bool
	}{
		{"anonymous read", http.MethodGet, nil, true},
		{"anonymous write", http.MethodDelete, nil, false},
		{"author", http.MethodPatch, plain, true},
		{"other user", http.MethodDelete, other, false},
		{"moderator", http.MethodDelete, moder, true},
		{"admin", http.MethodPatch, admin, true},
		{"other user read", http.MethodGet, other, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanModifyObject(tt.method, tt.user, plain.ID))
		})
	}
}
