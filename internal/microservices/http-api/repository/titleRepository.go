package repository

import (
	"context"

	"yamdb/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

// TitleFilter narrows the title list. Empty fields do not filter.
type TitleFilter struct {
	CategorySlug string
	GenreSlug    string
	Name         string
	Rating       *int
	Ordering     string
}

// titleOrderings whitelists ?ordering= values. Anything else falls back to id.
var titleOrderings = map[string]string{
	"rating":    "rating ASC NULLS LAST",
	"-rating":   "rating DESC NULLS LAST",
	"name":      "titles.name ASC",
	"-name":     "titles.name DESC",
	"year":      "titles.year ASC",
	"-year":     "titles.year DESC",
	"category":  "(SELECT c.slug FROM categories c WHERE c.id = titles.category_id) ASC NULLS LAST",
	"-category": "(SELECT c.slug FROM categories c WHERE c.id = titles.category_id) DESC NULLS LAST",
	"genre":     "(SELECT MIN(g.slug) FROM genre_titles gt JOIN genres g ON g.id = gt.genre_id WHERE gt.title_id = titles.id) ASC NULLS LAST",
	"-genre":    "(SELECT MIN(g.slug) FROM genre_titles gt JOIN genres g ON g.id = gt.genre_id WHERE gt.title_id = titles.id) DESC NULLS LAST",
}

type TitleRepository interface {
	List(ctx context.Context, f TitleFilter, page, pageSize int) ([]models.Title, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Title, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, t *models.Title, genreIDs []int64) error
	Update(ctx context.Context, t *models.Title, genreIDs []int64) error
	Delete(ctx context.Context, id int64) error
}

type titleRepository struct {
	db *gorm.DB
}

func NewTitleRepository(db *gorm.DB) TitleRepository {
	return &titleRepository{db: db}
}

// withRating selects titles together with the mean score of their reviews.
// The mean is NULL when a title has no reviews.
func withRating(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Title{}).
		Select("titles.*, AVG(reviews.score) AS rating").
		Joins("LEFT JOIN reviews ON reviews.title_id = titles.id").
		Group("titles.id")
}

func applyTitleFilter(q *gorm.DB, f TitleFilter) *gorm.DB {
	if f.CategorySlug != "" {
		q = q.Where("titles.category_id IN (SELECT id FROM categories WHERE slug = ?)", f.CategorySlug)
	}
	if f.GenreSlug != "" {
		q = q.Where("titles.id IN (SELECT gt.title_id FROM genre_titles gt JOIN genres g ON g.id = gt.genre_id WHERE g.slug = ?)", f.GenreSlug)
	}
	if f.Name != "" {
		q = q.Where("titles.name ILIKE ?", containsPattern(f.Name))
	}
	if f.Rating != nil {
		q = q.Having("ROUND(AVG(reviews.score)) = ?", *f.Rating)
	}
	return q
}

func (r *titleRepository) List(ctx context.Context, f TitleFilter, page, pageSize int) ([]models.Title, int64, error) {
	var list []models.Title
	var total int64

	db := r.db.WithContext(ctx)

	// grouped query, so count over it as a subquery
	counted := applyTitleFilter(withRating(db), f)
	if err := db.Table("(?) AS filtered", counted).Count(&total).Error; err != nil {
		return nil, 0, translateError("count titles", err)
	}

	q := applyTitleFilter(withRating(db), f)
	if order, ok := titleOrderings[f.Ordering]; ok {
		q = q.Order(order)
	}
	offset := (page - 1) * pageSize
	if err := q.Order("titles.id ASC").
		Preload("Category").
		Preload("Genres", func(db *gorm.DB) *gorm.DB { return db.Order("genres.slug ASC") }).
		Limit(pageSize).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, translateError("list titles", err)
	}
	return list, total, nil
}

func (r *titleRepository) GetByID(ctx context.Context, id int64) (*models.Title, error) {
	var t models.Title
	err := withRating(r.db.WithContext(ctx)).
		Where("titles.id = ?", id).
		Preload("Category").
		Preload("Genres", func(db *gorm.DB) *gorm.DB { return db.Order("genres.slug ASC") }).
		Take(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *titleRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Title{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, translateError("check title", err)
	}
	return count > 0, nil
}

// Create inserts the title and its genre links in one transaction.
func (r *titleRepository) Create(ctx context.Context, t *models.Title, genreIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Category", "Genres", "Rating").Create(t).Error; err != nil {
			return translateError("create title", err)
		}
		return linkGenres(tx, t.ID, genreIDs)
	})
}

// Update writes the scalar columns and, when genreIDs is non-nil, replaces
// the genre set.
func (r *titleRepository) Update(ctx context.Context, t *models.Title, genreIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Title{}).
			Where("id = ?", t.ID).
			Select("name", "year", "description", "category_id").
			Updates(map[string]any{
				"name":        t.Name,
				"year":        t.Year,
				"description": t.Description,
				"category_id": t.CategoryID,
			})
		if result.Error != nil {
			return translateError("update title", result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if genreIDs == nil {
			return nil
		}
		if err := tx.Where("title_id = ?", t.ID).Delete(&models.GenreTitle{}).Error; err != nil {
			return translateError("clear title genres", err)
		}
		return linkGenres(tx, t.ID, genreIDs)
	})
}

func (r *titleRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Title{}, id)
	if result.Error != nil {
		return translateError("delete title", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func linkGenres(tx *gorm.DB, titleID int64, genreIDs []int64) error {
	if len(genreIDs) == 0 {
		return nil
	}
	links := make([]models.GenreTitle, 0, len(genreIDs))
	seen := make(map[int64]struct{}, len(genreIDs))
	for _, id := range genreIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		links = append(links, models.GenreTitle{TitleID: titleID, GenreID: id})
	}
	return translateError("link genres", tx.Create(&links).Error)
}
