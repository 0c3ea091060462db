package service

import (
	"context"
	"testing"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCreateComment_ReviewOfOtherTitle(t *testing.T) {
	comments := new(MockCommentRepository)
	reviews := new(MockReviewRepository)
	svc := NewCommentService(comments, reviews)
	ctx := context.Background()

	reviews.On("GetByID", ctx, int64(2), int64(7)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Create(ctx, author, 2, 7, dto.CreateCommentDTO{Text: "hi"})
	assert.ErrorIs(t, err, ErrReviewNotFound)
	comments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateComment(t *testing.T) {
	comments := new(MockCommentRepository)
	reviews := new(MockReviewRepository)
	svc := NewCommentService(comments, reviews)
	ctx := context.Background()

	reviews.On("GetByID", ctx, int64(1), int64(7)).Return(&models.Review{ID: 7, TitleID: 1}, nil)
	comments.On("Create", ctx, mock.MatchedBy(func(c *models.Comment) bool {
		return c.ReviewID == 7 && c.AuthorID == author.ID
	})).Return(nil)

	resp, err := svc.Create(ctx, author, 1, 7, dto.CreateCommentDTO{Text: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.Author)
	assert.Equal(t, "hi", resp.Text)
}

func TestUpdateComment_NonAuthorForbidden(t *testing.T) {
	comments := new(MockCommentRepository)
	reviews := new(MockReviewRepository)
	svc := NewCommentService(comments, reviews)
	ctx := context.Background()
	text := "edited"

	reviews.On("GetByID", ctx, int64(1), int64(7)).Return(&models.Review{ID: 7, TitleID: 1}, nil)
	comments.On("GetByID", ctx, int64(7), int64(3)).Return(&models.Comment{ID: 3, ReviewID: 7, AuthorID: author.ID}, nil)

	_, err := svc.Update(ctx, stranger, 1, 7, 3, dto.UpdateCommentDTO{Text: &text})
	assert.ErrorIs(t, err, ErrForbidden)
	comments.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDeleteComment_Admin(t *testing.T) {
	comments := new(MockCommentRepository)
	reviews := new(MockReviewRepository)
	svc := NewCommentService(comments, reviews)
	ctx := context.Background()
	admin := &models.User{ID: "admin-1", Role: models.RoleAdmin}

	reviews.On("GetByID", ctx, int64(1), int64(7)).Return(&models.Review{ID: 7, TitleID: 1}, nil)
	comments.On("GetByID", ctx, int64(7), int64(3)).Return(&models.Comment{ID: 3, ReviewID: 7, AuthorID: author.ID}, nil)
	comments.On("Delete", ctx, int64(3)).Return(nil)

	assert.NoError(t, svc.Delete(ctx, admin, 1, 7, 3))
	comments.AssertExpectations(t)
}
