package service

import (
	"context"
	"errors"
	"net/http"

	"yamdb/internal/metrics"
	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/permissions"
	"yamdb/internal/microservices/http-api/repository"

	"gorm.io/gorm"
)

const msgReviewExists = "You have already reviewed this title."

type ReviewService interface {
	List(ctx context.Context, titleID int64, p dto.PageParams) (*dto.Paginated[dto.ReviewResponse], error)
	Get(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error)
	Create(ctx context.Context, author *models.User, titleID int64, req dto.CreateReviewDTO) (*dto.ReviewResponse, error)
	Update(ctx context.Context, user *models.User, titleID, reviewID int64, req dto.UpdateReviewDTO) (*dto.ReviewResponse, error)
	Delete(ctx context.Context, user *models.User, titleID, reviewID int64) error
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	titleRepo  repository.TitleRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, titleRepo repository.TitleRepository) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		titleRepo:  titleRepo,
	}
}

func (s *reviewService) List(ctx context.Context, titleID int64, p dto.PageParams) (*dto.Paginated[dto.ReviewResponse], error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}
	reviews, total, err := s.reviewRepo.ListByTitle(ctx, titleID, p.Page, p.PageSize)
	if err != nil {
		return nil, err
	}
	return dto.MapPaginated(reviews, total, p, dto.ReviewFromModel), nil
}

func (s *reviewService) Get(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error) {
	review, err := s.find(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	resp := dto.ReviewFromModel(*review)
	return &resp, nil
}

// Create stores a review authored by the requester. The unique_review
// constraint rejects a second review of the same title.
func (s *reviewService) Create(ctx context.Context, author *models.User, titleID int64, req dto.CreateReviewDTO) (*dto.ReviewResponse, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}

	review := &models.Review{
		TitleID:  titleID,
		AuthorID: author.ID,
		Text:     req.Text,
		Score:    req.Score,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		switch {
		case repository.IsUniqueViolation(err, repository.ConstraintUniqueReview):
			return nil, dto.NewFieldError(dto.NonFieldErrors, msgReviewExists)
		case errors.Is(err, repository.ErrForeignKey):
			return nil, ErrTitleNotFound
		}
		return nil, err
	}
	metrics.RecordReviewCreated()

	review.Author = *author
	resp := dto.ReviewFromModel(*review)
	return &resp, nil
}

func (s *reviewService) Update(ctx context.Context, user *models.User, titleID, reviewID int64, req dto.UpdateReviewDTO) (*dto.ReviewResponse, error) {
	review, err := s.find(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if !permissions.CanModifyObject(http.MethodPatch, user, review.AuthorID) {
		return nil, ErrForbidden
	}

	req.ApplyTo(review)
	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}
	resp := dto.ReviewFromModel(*review)
	return &resp, nil
}

func (s *reviewService) Delete(ctx context.Context, user *models.User, titleID, reviewID int64) error {
	review, err := s.find(ctx, titleID, reviewID)
	if err != nil {
		return err
	}
	if !permissions.CanModifyObject(http.MethodDelete, user, review.AuthorID) {
		return ErrForbidden
	}
	if err := s.reviewRepo.Delete(ctx, review.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	return nil
}

func (s *reviewService) requireTitle(ctx context.Context, titleID int64) error {
	ok, err := s.titleRepo.Exists(ctx, titleID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrTitleNotFound
	}
	return nil
}

// find looks the review up within its title, so a review id under the wrong
// title is reported as missing.
func (s *reviewService) find(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, titleID, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return review, nil
}
