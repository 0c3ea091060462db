package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/middleware"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	admin = &models.User{ID: "u-admin", Username: "root", Email: "root@example.com", Role: models.RoleAdmin}
	alice = &models.User{ID: "u-alice", Username: "alice", Email: "alice@example.com", Role: models.RoleUser}
	bob   = &models.User{ID: "u-bob", Username: "bob", Email: "bob@example.com", Role: models.RoleUser}

	testPaging = Paging{Default: 10, Max: 100}
)

// newAuthService resolves the bearer tokens "admin", "alice" and "bob".
func newAuthService() *MockAuthService {
	m := new(MockAuthService)
	for token, user := range map[string]*models.User{"admin": admin, "alice": alice, "bob": bob} {
		m.On("Authenticate", mock.Anything, token).Return(user, nil).Maybe()
	}
	return m
}

func setupRouter(authService service.AuthService) (*gin.Engine, *gin.RouterGroup) {
	gin.SetMode(gin.TestMode)
	dto.RegisterValidators()

	r := gin.New()
	r.HandleMethodNotAllowed = true
	api := r.Group("/api/v1", middleware.Authenticate(authService))
	return r, api
}

func perform(r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
