package handler

import (
	"net/http"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/middleware"
	"yamdb/internal/microservices/http-api/permissions"
	"yamdb/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService service.UserService
	paging      Paging
}

func NewUserHandler(userService service.UserService, paging Paging) *UserHandler {
	return &UserHandler{userService: userService, paging: paging}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	// self-service, any authenticated user
	me := middleware.Require(permissions.IsAuthenticated)
	rg.GET("/me/", me, h.GetMe)
	rg.PATCH("/me/", me, h.UpdateMe)

	admin := middleware.Require(permissions.IsAdminOnly)
	rg.GET("/", admin, h.List)
	rg.POST("/", admin, h.Create)
	rg.GET("/:username/", admin, h.Get)
	rg.PATCH("/:username/", admin, h.Update)
	rg.DELETE("/:username/", admin, h.Delete)
}

func (h *UserHandler) List(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	page, err := h.userService.List(ctx, c.Query("search"), h.paging.parse(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *UserHandler) Create(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	var req dto.CreateUserDTO
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.Create(ctx, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) Get(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.userService.Get(ctx, c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Update(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	var req dto.UpdateUserDTO
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.Update(ctx, c.Param("username"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Delete(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.userService.Delete(ctx, c.Param("username")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetMe returns the authenticated user's own profile.
// GET /users/me/
func (h *UserHandler) GetMe(c *gin.Context) {
	c.JSON(http.StatusOK, dto.UserFromModel(*middleware.CurrentUser(c)))
}

// UpdateMe edits the caller's profile. A role in the payload is ignored.
// PATCH /users/me/
func (h *UserHandler) UpdateMe(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	var req dto.UpdateMeDTO
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateMe(ctx, middleware.CurrentUser(c), req.ToUpdate())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
