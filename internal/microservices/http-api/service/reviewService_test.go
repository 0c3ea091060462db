package service

import (
	"context"
	"testing"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	author    = &models.User{ID: "author-1", Username: "alice", Role: models.RoleUser}
	stranger  = &models.User{ID: "user-9", Username: "mallory", Role: models.RoleUser}
	moderator = &models.User{ID: "mod-1", Username: "mod", Role: models.RoleModerator}
)

func newReviewFixture() (*MockReviewRepository, *MockTitleRepository, ReviewService) {
	reviews := new(MockReviewRepository)
	titles := new(MockTitleRepository)
	return reviews, titles, NewReviewService(reviews, titles)
}

func TestCreateReview_SetsAuthor(t *testing.T) {
	reviews, titles, svc := newReviewFixture()
	ctx := context.Background()

	titles.On("Exists", ctx, int64(1)).Return(true, nil)
	reviews.On("Create", ctx, mock.MatchedBy(func(r *models.Review) bool {
		return r.AuthorID == author.ID && r.TitleID == 1 && r.Score == 8
	})).Return(nil)

	resp, err := svc.Create(ctx, author, 1, dto.CreateReviewDTO{Text: "great", Score: 8})
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.Author)
	reviews.AssertExpectations(t)
}

func TestCreateReview_SecondReviewRejected(t *testing.T) {
	reviews, titles, svc := newReviewFixture()
	ctx := context.Background()

	titles.On("Exists", ctx, int64(1)).Return(true, nil)
	reviews.On("Create", ctx, mock.Anything).
		Return(&repository.UniqueViolationError{Constraint: repository.ConstraintUniqueReview})

	_, err := svc.Create(ctx, author, 1, dto.CreateReviewDTO{Text: "again", Score: 3})

	var verr *dto.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{msgReviewExists}, verr.Fields[dto.NonFieldErrors])
}

func TestCreateReview_MissingTitle(t *testing.T) {
	reviews, titles, svc := newReviewFixture()
	ctx := context.Background()

	titles.On("Exists", ctx, int64(42)).Return(false, nil)

	_, err := svc.Create(ctx, author, 42, dto.CreateReviewDTO{Text: "x", Score: 5})
	assert.ErrorIs(t, err, ErrTitleNotFound)
	reviews.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestDeleteReview_NonAuthorForbidden(t *testing.T) {
	reviews, _, svc := newReviewFixture()
	ctx := context.Background()

	reviews.On("GetByID", ctx, int64(1), int64(7)).Return(&models.Review{ID: 7, TitleID: 1, AuthorID: author.ID}, nil)

	err := svc.Delete(ctx, stranger, 1, 7)
	assert.ErrorIs(t, err, ErrForbidden)
	reviews.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteReview_ModeratorAllowed(t *testing.T) {
	reviews, _, svc := newReviewFixture()
	ctx := context.Background()

	reviews.On("GetByID", ctx, int64(1), int64(7)).Return(&models.Review{ID: 7, TitleID: 1, AuthorID: author.ID}, nil)
	reviews.On("Delete", ctx, int64(7)).Return(nil)

	assert.NoError(t, svc.Delete(ctx, moderator, 1, 7))
	reviews.AssertExpectations(t)
}

func TestUpdateReview_AuthorPartialUpdate(t *testing.T) {
	reviews, _, svc := newReviewFixture()
	ctx := context.Background()
	score := 9

	reviews.On("GetByID", ctx, int64(1), int64(7)).
		Return(&models.Review{ID: 7, TitleID: 1, AuthorID: author.ID, Text: "ok", Score: 6, Author: *author}, nil)
	reviews.On("Update", ctx, mock.MatchedBy(func(r *models.Review) bool {
		return r.Score == 9 && r.Text == "ok"
	})).Return(nil)

	resp, err := svc.Update(ctx, author, 1, 7, dto.UpdateReviewDTO{Score: &score})
	require.NoError(t, err)
	assert.Equal(t, 9, resp.Score)
	assert.Equal(t, "ok", resp.Text)
}

func TestGetReview_WrongTitle(t *testing.T) {
	reviews, _, svc := newReviewFixture()
	ctx := context.Background()

	reviews.On("GetByID", ctx, int64(2), int64(7)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Get(ctx, 2, 7)
	assert.ErrorIs(t, err, ErrReviewNotFound)
}
