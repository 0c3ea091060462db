package service

import (
	"context"
	"errors"
	"fmt"

	"yamdb/internal/config"
	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"

	"gorm.io/gorm"
)

type TitleService interface {
	List(ctx context.Context, f dto.TitleFilter, p dto.PageParams) (*dto.Paginated[dto.TitleResponse], error)
	Get(ctx context.Context, id int64) (*dto.TitleResponse, error)
	Create(ctx context.Context, req dto.CreateTitleDTO) (*dto.TitleWriteResponse, error)
	Update(ctx context.Context, id int64, req dto.UpdateTitleDTO) (*dto.TitleWriteResponse, error)
	Delete(ctx context.Context, id int64) error
}

type titleService struct {
	titleRepo    repository.TitleRepository
	categoryRepo repository.CategoryRepository
	genreRepo    repository.GenreRepository
	limits       config.Limits
}

func NewTitleService(
	titleRepo repository.TitleRepository,
	categoryRepo repository.CategoryRepository,
	genreRepo repository.GenreRepository,
	limits config.Limits,
) TitleService {
	return &titleService{
		titleRepo:    titleRepo,
		categoryRepo: categoryRepo,
		genreRepo:    genreRepo,
		limits:       limits,
	}
}

func (s *titleService) List(ctx context.Context, f dto.TitleFilter, p dto.PageParams) (*dto.Paginated[dto.TitleResponse], error) {
	titles, total, err := s.titleRepo.List(ctx, repository.TitleFilter{
		CategorySlug: f.Category,
		GenreSlug:    f.Genre,
		Name:         f.Name,
		Rating:       f.Rating,
		Ordering:     f.Ordering,
	}, p.Page, p.PageSize)
	if err != nil {
		return nil, err
	}
	return dto.MapPaginated(titles, total, p, dto.TitleFromModel), nil
}

func (s *titleService) Get(ctx context.Context, id int64) (*dto.TitleResponse, error) {
	title, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTitleNotFound
		}
		return nil, err
	}
	resp := dto.TitleFromModel(*title)
	return &resp, nil
}

func (s *titleService) Create(ctx context.Context, req dto.CreateTitleDTO) (*dto.TitleWriteResponse, error) {
	if err := req.Validate(s.limits); err != nil {
		return nil, err
	}

	category, err := s.resolveCategory(ctx, req.Category)
	if err != nil {
		return nil, err
	}
	genres, err := s.resolveGenres(ctx, req.Genre)
	if err != nil {
		return nil, err
	}

	title := req.ToModel()
	title.CategoryID = &category.ID
	if err := s.titleRepo.Create(ctx, &title, genreIDs(genres)); err != nil {
		return nil, err
	}

	title.Category = category
	title.Genres = genres
	resp := dto.TitleWriteFromModel(title)
	return &resp, nil
}

func (s *titleService) Update(ctx context.Context, id int64, req dto.UpdateTitleDTO) (*dto.TitleWriteResponse, error) {
	if err := req.Validate(s.limits); err != nil {
		return nil, err
	}

	title, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTitleNotFound
		}
		return nil, err
	}

	req.ApplyTo(title)
	if req.Category != nil {
		category, err := s.resolveCategory(ctx, *req.Category)
		if err != nil {
			return nil, err
		}
		title.CategoryID = &category.ID
		title.Category = category
	}

	var ids []int64
	if req.Genre != nil {
		genres, err := s.resolveGenres(ctx, req.Genre)
		if err != nil {
			return nil, err
		}
		title.Genres = genres
		ids = genreIDs(genres)
	}

	if err := s.titleRepo.Update(ctx, title, ids); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTitleNotFound
		}
		return nil, err
	}
	resp := dto.TitleWriteFromModel(*title)
	return &resp, nil
}

func (s *titleService) Delete(ctx context.Context, id int64) error {
	if err := s.titleRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTitleNotFound
		}
		return err
	}
	return nil
}

func (s *titleService) resolveCategory(ctx context.Context, slug string) (*models.Category, error) {
	category, err := s.categoryRepo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, dto.NewFieldError("category", missingSlug(slug))
		}
		return nil, err
	}
	return category, nil
}

// resolveGenres maps slugs to genres in request order and reports every
// unknown slug on the genre field.
func (s *titleService) resolveGenres(ctx context.Context, slugs []string) ([]models.Genre, error) {
	if len(slugs) == 0 {
		return []models.Genre{}, nil
	}
	found, err := s.genreRepo.FindBySlugs(ctx, slugs)
	if err != nil {
		return nil, err
	}
	bySlug := make(map[string]models.Genre, len(found))
	for _, g := range found {
		bySlug[g.Slug] = g
	}

	verr := &dto.ValidationError{}
	genres := make([]models.Genre, 0, len(slugs))
	seen := make(map[string]bool, len(slugs))
	for _, slug := range slugs {
		g, ok := bySlug[slug]
		if !ok {
			verr.Add("genre", missingSlug(slug))
			continue
		}
		if !seen[slug] {
			seen[slug] = true
			genres = append(genres, g)
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return genres, nil
}

func genreIDs(genres []models.Genre) []int64 {
	ids := make([]int64, 0, len(genres))
	for _, g := range genres {
		ids = append(ids, g.ID)
	}
	return ids
}

func missingSlug(slug string) string {
	return fmt.Sprintf("Object with slug=%s does not exist.", slug)
}
