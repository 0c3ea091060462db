package service

import (
	"context"
	"errors"

	"yamdb/internal/config"
	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"

	"gorm.io/gorm"
)

// GroupService manages categories and genres. R is the response shape.
type GroupService[R any] interface {
	List(ctx context.Context, search string, p dto.PageParams) (*dto.Paginated[R], error)
	Create(ctx context.Context, req dto.CreateGroupDTO) (*R, error)
	Delete(ctx context.Context, slug string) error
}

type CategoryService = GroupService[dto.CategoryResponse]
type GenreService = GroupService[dto.GenreResponse]

type groupService[T repository.Group, R any] struct {
	repo     repository.GroupRepository[T]
	limits   config.Limits
	build    func(name, slug string) T
	toResp   func(T) R
	slugKey  string
	notFound error
}

func NewCategoryService(repo repository.CategoryRepository, limits config.Limits) CategoryService {
	return &groupService[models.Category, dto.CategoryResponse]{
		repo:     repo,
		limits:   limits,
		build:    func(name, slug string) models.Category { return models.Category{Name: name, Slug: slug} },
		toResp:   dto.CategoryFromModel,
		slugKey:  repository.ConstraintCategorySlugKey,
		notFound: ErrCategoryNotFound,
	}
}

func NewGenreService(repo repository.GenreRepository, limits config.Limits) GenreService {
	return &groupService[models.Genre, dto.GenreResponse]{
		repo:     repo,
		limits:   limits,
		build:    func(name, slug string) models.Genre { return models.Genre{Name: name, Slug: slug} },
		toResp:   dto.GenreFromModel,
		slugKey:  repository.ConstraintGenreSlugKey,
		notFound: ErrGenreNotFound,
	}
}

func (s *groupService[T, R]) List(ctx context.Context, search string, p dto.PageParams) (*dto.Paginated[R], error) {
	list, total, err := s.repo.List(ctx, search, p.Page, p.PageSize)
	if err != nil {
		return nil, err
	}
	return dto.MapPaginated(list, total, p, s.toResp), nil
}

func (s *groupService[T, R]) Create(ctx context.Context, req dto.CreateGroupDTO) (*R, error) {
	if err := req.Validate(s.limits); err != nil {
		return nil, err
	}
	g := s.build(req.Name, req.Slug)
	if err := s.repo.Create(ctx, &g); err != nil {
		if repository.IsUniqueViolation(err, s.slugKey) {
			return nil, dto.NewFieldError("slug", "An object with this slug already exists.")
		}
		return nil, err
	}
	resp := s.toResp(g)
	return &resp, nil
}

func (s *groupService[T, R]) Delete(ctx context.Context, slug string) error {
	if err := s.repo.DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.notFound
		}
		return err
	}
	return nil
}
