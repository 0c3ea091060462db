package handler

import (
	"net/http"
	"strconv"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/middleware"
	"yamdb/internal/microservices/http-api/permissions"
	"yamdb/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type TitleHandler struct {
	svc    service.TitleService
	paging Paging
}

func NewTitleHandler(svc service.TitleService, paging Paging) *TitleHandler {
	return &TitleHandler{svc: svc, paging: paging}
}

func (h *TitleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	gate := middleware.Require(permissions.IsAdminOrReadOnly)
	rg.GET("/", gate, h.List)
	rg.POST("/", gate, h.Create)
	rg.GET("/:title_id/", gate, h.Get)
	rg.PATCH("/:title_id/", gate, h.Update)
	rg.DELETE("/:title_id/", gate, h.Delete)
}

// List returns titles with their computed rating.
// GET /titles/?category=&genre=&name=&rating=&ordering=&page=&page_size=
func (h *TitleHandler) List(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	filter := dto.TitleFilter{
		Category: c.Query("category"),
		Genre:    c.Query("genre"),
		Name:     c.Query("name"),
		Ordering: c.Query("ordering"),
	}
	if v := c.Query("rating"); v != "" {
		rating, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"rating": []string{"Enter a whole number."}})
			return
		}
		filter.Rating = &rating
	}

	page, err := h.svc.List(ctx, filter, h.paging.parse(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *TitleHandler) Get(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	id, ok := parseID(c, "title_id")
	if !ok {
		return
	}

	title, err := h.svc.Get(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, title)
}

func (h *TitleHandler) Create(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	var req dto.CreateTitleDTO
	if !bindJSON(c, &req) {
		return
	}

	title, err := h.svc.Create(ctx, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, title)
}

func (h *TitleHandler) Update(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	id, ok := parseID(c, "title_id")
	if !ok {
		return
	}

	var req dto.UpdateTitleDTO
	if !bindJSON(c, &req) {
		return
	}

	title, err := h.svc.Update(ctx, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, title)
}

func (h *TitleHandler) Delete(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	id, ok := parseID(c, "title_id")
	if !ok {
		return
	}

	if err := h.svc.Delete(ctx, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
