package handler

import (
	"net/http"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/middleware"
	"yamdb/internal/microservices/http-api/permissions"
	"yamdb/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService service.CommentService
	paging         Paging
}

func NewCommentHandler(commentService service.CommentService, paging Paging) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		paging:         paging,
	}
}

// RegisterRoutes registers comment routes under /titles/:title_id/reviews/:review_id
func (h *CommentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.Use(middleware.Require(permissions.IsAuthenticatedOrReadOnly))
	rg.GET("/", h.List)
	rg.POST("/", h.Create)
	rg.GET("/:comment_id/", h.Get)
	rg.PATCH("/:comment_id/", h.Update)
	rg.DELETE("/:comment_id/", h.Delete)
}

// path resolves title, review and (when withComment) comment ids.
func (h *CommentHandler) path(c *gin.Context, withComment bool) (titleID, reviewID, commentID int64, ok bool) {
	if titleID, ok = parseID(c, "title_id"); !ok {
		return
	}
	if reviewID, ok = parseID(c, "review_id"); !ok {
		return
	}
	if withComment {
		commentID, ok = parseID(c, "comment_id")
	}
	return
}

// List retrieves the comments of a review
// GET /titles/:title_id/reviews/:review_id/comments/
func (h *CommentHandler) List(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	titleID, reviewID, _, ok := h.path(c, false)
	if !ok {
		return
	}

	page, err := h.commentService.List(ctx, titleID, reviewID, h.paging.parse(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Create adds a comment authored by the caller
// POST /titles/:title_id/reviews/:review_id/comments/
func (h *CommentHandler) Create(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	titleID, reviewID, _, ok := h.path(c, false)
	if !ok {
		return
	}

	var req dto.CreateCommentDTO
	if !bindJSON(c, &req) {
		return
	}

	comment, err := h.commentService.Create(ctx, middleware.CurrentUser(c), titleID, reviewID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h *CommentHandler) Get(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	titleID, reviewID, commentID, ok := h.path(c, true)
	if !ok {
		return
	}

	comment, err := h.commentService.Get(ctx, titleID, reviewID, commentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// Update edits a comment (author, moderator or admin)
// PATCH /titles/:title_id/reviews/:review_id/comments/:comment_id/
func (h *CommentHandler) Update(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	titleID, reviewID, commentID, ok := h.path(c, true)
	if !ok {
		return
	}

	var req dto.UpdateCommentDTO
	if !bindJSON(c, &req) {
		return
	}

	comment, err := h.commentService.Update(ctx, middleware.CurrentUser(c), titleID, reviewID, commentID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

func (h *CommentHandler) Delete(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	titleID, reviewID, commentID, ok := h.path(c, true)
	if !ok {
		return
	}

	if err := h.commentService.Delete(ctx, middleware.CurrentUser(c), titleID, reviewID, commentID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
