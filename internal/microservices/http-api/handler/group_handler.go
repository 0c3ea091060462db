package handler

import (
	"net/http"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/middleware"
	"yamdb/internal/microservices/http-api/permissions"
	"yamdb/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

// GroupHandler serves the category and genre collections, which share a
// shape: public listing, admin create and delete by slug.
type GroupHandler[R any] struct {
	svc    service.GroupService[R]
	paging Paging
}

func NewCategoryHandler(svc service.CategoryService, paging Paging) *GroupHandler[dto.CategoryResponse] {
	return &GroupHandler[dto.CategoryResponse]{svc: svc, paging: paging}
}

func NewGenreHandler(svc service.GenreService, paging Paging) *GroupHandler[dto.GenreResponse] {
	return &GroupHandler[dto.GenreResponse]{svc: svc, paging: paging}
}

func (h *GroupHandler[R]) RegisterRoutes(rg *gin.RouterGroup) {
	rg.Use(middleware.Require(permissions.IsAdminOrReadOnly))
	rg.GET("/", h.List)
	rg.POST("/", h.Create)
	rg.DELETE("/:slug/", h.Delete)
}

// List returns a page of groups, optionally filtered by ?search= on name.
func (h *GroupHandler[R]) List(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	page, err := h.svc.List(ctx, c.Query("search"), h.paging.parse(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *GroupHandler[R]) Create(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	var req dto.CreateGroupDTO
	if !bindJSON(c, &req) {
		return
	}

	created, err := h.svc.Create(ctx, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *GroupHandler[R]) Delete(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.svc.Delete(ctx, c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
