package repository

import (
	"context"

	"yamdb/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

// Group is a slug-addressed classifier: a category or a genre.
type Group interface {
	models.Category | models.Genre
}

// GroupRepository serves the categories and genres tables.
type GroupRepository[T Group] interface {
	List(ctx context.Context, search string, page, pageSize int) ([]T, int64, error)
	Create(ctx context.Context, g *T) error
	FindBySlug(ctx context.Context, slug string) (*T, error)
	FindBySlugs(ctx context.Context, slugs []string) ([]T, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

type CategoryRepository = GroupRepository[models.Category]
type GenreRepository = GroupRepository[models.Genre]

type groupRepository[T Group] struct {
	db   *gorm.DB
	kind string
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &groupRepository[models.Category]{db: db, kind: "category"}
}

func NewGenreRepository(db *gorm.DB) GenreRepository {
	return &groupRepository[models.Genre]{db: db, kind: "genre"}
}

// List filters by a case-insensitive name substring when search is set.
func (r *groupRepository[T]) List(ctx context.Context, search string, page, pageSize int) ([]T, int64, error) {
	var list []T
	var total int64

	q := r.db.WithContext(ctx).Model(new(T))
	if search != "" {
		q = q.Where("name ILIKE ?", containsPattern(search))
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translateError("count "+r.kind, err)
	}

	offset := (page - 1) * pageSize
	if err := q.Order("name asc, id asc").Limit(pageSize).Offset(offset).Find(&list).Error; err != nil {
		return nil, 0, translateError("list "+r.kind, err)
	}
	return list, total, nil
}

func (r *groupRepository[T]) Create(ctx context.Context, g *T) error {
	return translateError("create "+r.kind, r.db.WithContext(ctx).Create(g).Error)
}

func (r *groupRepository[T]) FindBySlug(ctx context.Context, slug string) (*T, error) {
	var g T
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&g).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

// FindBySlugs returns the rows matching slugs; missing slugs are simply
// absent from the result.
func (r *groupRepository[T]) FindBySlugs(ctx context.Context, slugs []string) ([]T, error) {
	var list []T
	if len(slugs) == 0 {
		return list, nil
	}
	if err := r.db.WithContext(ctx).Where("slug IN ?", slugs).Find(&list).Error; err != nil {
		return nil, translateError("find "+r.kind+" by slugs", err)
	}
	return list, nil
}

func (r *groupRepository[T]) DeleteBySlug(ctx context.Context, slug string) error {
	result := r.db.WithContext(ctx).Where("slug = ?", slug).Delete(new(T))
	if result.Error != nil {
		return translateError("delete "+r.kind, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
