package handler

import (
	"net/http"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRoutes mounts the sign-up flow. Extra middleware (rate limiting)
// runs in front of both endpoints.
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup, mw ...gin.HandlerFunc) {
	rg.POST("/signup/", with(mw, h.SignUp)...)
	rg.POST("/token/", with(mw, h.Token)...)
}

// SignUp creates or re-confirms a user and mails a confirmation code.
// POST /auth/signup/
func (h *AuthHandler) SignUp(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	var req dto.SignUpRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.authService.SignUp(ctx, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Token exchanges a confirmation code for an access token.
// POST /auth/token/
func (h *AuthHandler) Token(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	var req dto.TokenRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.authService.IssueToken(ctx, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
