package dto

import (
	"yamdb/internal/config"
	"yamdb/internal/microservices/http-api/models"
)

// CreateTitleDTO used for POST /titles/. Category and genres are referenced
// by slug.
type CreateTitleDTO struct {
	Name        string   `json:"name" binding:"required"`
	Year        int      `json:"year" binding:"required,not_future_year"`
	Description *string  `json:"description"`
	Genre       []string `json:"genre" binding:"required,dive,required"`
	Category    string   `json:"category" binding:"required"`
}

func (d CreateTitleDTO) Validate(limits config.Limits) error {
	verr := &ValidationError{}
	checkLength(verr, "name", d.Name, limits.MaxNameLength)
	return verr.OrNil()
}

func (d CreateTitleDTO) ToModel() models.Title {
	return models.Title{
		Name:        d.Name,
		Year:        d.Year,
		Description: d.Description,
	}
}

// UpdateTitleDTO used for PATCH /titles/:title_id (partial updates allowed).
// A nil Genre keeps the genre set, an empty one clears it.
type UpdateTitleDTO struct {
	Name        *string  `json:"name" binding:"omitempty,min=1"`
	Year        *int     `json:"year" binding:"omitempty,not_future_year"`
	Description *string  `json:"description"`
	Genre       []string `json:"genre" binding:"omitempty,dive,required"`
	Category    *string  `json:"category" binding:"omitempty,min=1"`
}

func (d UpdateTitleDTO) Validate(limits config.Limits) error {
	verr := &ValidationError{}
	if d.Name != nil {
		checkLength(verr, "name", *d.Name, limits.MaxNameLength)
	}
	return verr.OrNil()
}

func (d UpdateTitleDTO) ApplyTo(t *models.Title) {
	if d.Name != nil {
		t.Name = *d.Name
	}
	if d.Year != nil {
		t.Year = *d.Year
	}
	if d.Description != nil {
		t.Description = d.Description
	}
}

// TitleFilter carries the list query: ?category=&genre=&name=&rating=&ordering=
type TitleFilter struct {
	Category string
	Genre    string
	Name     string
	Rating   *int
	Ordering string
}

// TitleResponse is the read representation with nested objects and rating.
type TitleResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Year        int               `json:"year"`
	Rating      *float64          `json:"rating"`
	Description *string           `json:"description"`
	Genre       []GenreResponse   `json:"genre"`
	Category    *CategoryResponse `json:"category"`
}

// TitleWriteResponse echoes slug references, mirroring the write body.
type TitleWriteResponse struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Year        int      `json:"year"`
	Description *string  `json:"description"`
	Genre       []string `json:"genre"`
	Category    *string  `json:"category"`
}

func TitleFromModel(t models.Title) TitleResponse {
	resp := TitleResponse{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Rating:      t.Rating,
		Description: t.Description,
		Genre:       make([]GenreResponse, 0, len(t.Genres)),
	}
	for _, g := range t.Genres {
		resp.Genre = append(resp.Genre, GenreFromModel(g))
	}
	if t.Category != nil {
		c := CategoryFromModel(*t.Category)
		resp.Category = &c
	}
	return resp
}

func TitleWriteFromModel(t models.Title) TitleWriteResponse {
	resp := TitleWriteResponse{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Description: t.Description,
		Genre:       make([]string, 0, len(t.Genres)),
	}
	for _, g := range t.Genres {
		resp.Genre = append(resp.Genre, g.Slug)
	}
	if t.Category != nil {
		slug := t.Category.Slug
		resp.Category = &slug
	}
	return resp
}
