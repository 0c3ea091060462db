package handler

import (
	"net/http"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/middleware"
	"yamdb/internal/microservices/http-api/permissions"
	"yamdb/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	svc    service.ReviewService
	paging Paging
}

func NewReviewHandler(svc service.ReviewService, paging Paging) *ReviewHandler {
	return &ReviewHandler{svc: svc, paging: paging}
}

// RegisterRoutes mounts reviews under a /titles/:title_id group. Author,
// moderator and admin checks happen in the service once the review is loaded.
func (h *ReviewHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.Use(middleware.Require(permissions.IsAuthenticatedOrReadOnly))
	rg.GET("/", h.List)
	rg.POST("/", h.Create)
	rg.GET("/:review_id/", h.Get)
	rg.PATCH("/:review_id/", h.Update)
	rg.DELETE("/:review_id/", h.Delete)
}

func (h *ReviewHandler) List(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	titleID, ok := parseID(c, "title_id")
	if !ok {
		return
	}

	page, err := h.svc.List(ctx, titleID, h.paging.parse(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *ReviewHandler) Get(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	titleID, ok := parseID(c, "title_id")
	if !ok {
		return
	}
	reviewID, ok := parseID(c, "review_id")
	if !ok {
		return
	}

	review, err := h.svc.Get(ctx, titleID, reviewID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

// Create posts a review authored by the caller.
// POST /titles/:title_id/reviews/
func (h *ReviewHandler) Create(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	titleID, ok := parseID(c, "title_id")
	if !ok {
		return
	}

	var req dto.CreateReviewDTO
	if !bindJSON(c, &req) {
		return
	}

	review, err := h.svc.Create(ctx, middleware.CurrentUser(c), titleID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

func (h *ReviewHandler) Update(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	titleID, ok := parseID(c, "title_id")
	if !ok {
		return
	}
	reviewID, ok := parseID(c, "review_id")
	if !ok {
		return
	}

	var req dto.UpdateReviewDTO
	if !bindJSON(c, &req) {
		return
	}

	review, err := h.svc.Update(ctx, middleware.CurrentUser(c), titleID, reviewID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	titleID, ok := parseID(c, "title_id")
	if !ok {
		return
	}
	reviewID, ok := parseID(c, "review_id")
	if !ok {
		return
	}

	if err := h.svc.Delete(ctx, middleware.CurrentUser(c), titleID, reviewID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
