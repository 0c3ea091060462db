package dto

import (
	"yamdb/internal/config"
	"yamdb/internal/microservices/http-api/models"
)

// CreateGroupDTO is the body of POST /categories/ and POST /genres/.
type CreateGroupDTO struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug" binding:"required,slug"`
}

func (d CreateGroupDTO) Validate(limits config.Limits) error {
	verr := &ValidationError{}
	checkLength(verr, "name", d.Name, limits.MaxNameLength)
	checkLength(verr, "slug", d.Slug, limits.MaxSlugLength)
	return verr.OrNil()
}

type GenreResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func GenreFromModel(g models.Genre) GenreResponse {
	return GenreResponse{
		Name: g.Name,
		Slug: g.Slug,
	}
}

type CategoryResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func CategoryFromModel(c models.Category) CategoryResponse {
	return CategoryResponse{
		Name: c.Name,
		Slug: c.Slug,
	}
}
