package dto

import (
	"encoding/json"

	"yamdb/internal/config"
	"yamdb/internal/microservices/http-api/models"
)

// CreateUserDTO is the admin payload for POST /users/.
type CreateUserDTO struct {
	Username  string  `json:"username" binding:"required,username_not_me,username_chars"`
	Email     string  `json:"email" binding:"required,email"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Bio       string  `json:"bio"`
	Role      *string `json:"role" binding:"omitempty,oneof=user moderator admin"`
}

func (d CreateUserDTO) Validate(limits config.Limits) error {
	verr := &ValidationError{}
	checkLength(verr, "username", d.Username, limits.MaxUsernameLength)
	checkLength(verr, "email", d.Email, limits.MaxEmailLength)
	checkLength(verr, "first_name", d.FirstName, limits.MaxUserNameLength)
	checkLength(verr, "last_name", d.LastName, limits.MaxUserNameLength)
	return verr.OrNil()
}

func (d CreateUserDTO) ToModel() models.User {
	u := models.User{
		Username:  d.Username,
		Email:     d.Email,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Bio:       d.Bio,
		Role:      models.RoleUser,
	}
	if d.Role != nil {
		if r, err := models.ParseRole(*d.Role); err == nil {
			u.Role = r
		}
	}
	return u
}

// UpdateUserDTO is used by PATCH /users/:username/ and PATCH /users/me/.
// The self-service endpoint drops Role before applying.
type UpdateUserDTO struct {
	Username  *string `json:"username" binding:"omitempty,username_not_me,username_chars"`
	Email     *string `json:"email" binding:"omitempty,email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
	Role      *string `json:"role" binding:"omitempty,oneof=user moderator admin"`
}

func (d UpdateUserDTO) Validate(limits config.Limits) error {
	verr := &ValidationError{}
	if d.Username != nil {
		checkLength(verr, "username", *d.Username, limits.MaxUsernameLength)
	}
	if d.Email != nil {
		checkLength(verr, "email", *d.Email, limits.MaxEmailLength)
	}
	if d.FirstName != nil {
		checkLength(verr, "first_name", *d.FirstName, limits.MaxUserNameLength)
	}
	if d.LastName != nil {
		checkLength(verr, "last_name", *d.LastName, limits.MaxUserNameLength)
	}
	return verr.OrNil()
}

func (d UpdateUserDTO) ApplyTo(u *models.User) {
	if d.Username != nil {
		u.Username = *d.Username
	}
	if d.Email != nil {
		u.Email = *d.Email
	}
	if d.FirstName != nil {
		u.FirstName = *d.FirstName
	}
	if d.LastName != nil {
		u.LastName = *d.LastName
	}
	if d.Bio != nil {
		u.Bio = *d.Bio
	}
	if d.Role != nil {
		if r, err := models.ParseRole(*d.Role); err == nil {
			u.Role = r
		}
	}
}

// UpdateMeDTO is the body of PATCH /users/me/. Role is read-only there, so
// any value is accepted and dropped.
type UpdateMeDTO struct {
	Username  *string         `json:"username" binding:"omitempty,username_not_me,username_chars"`
	Email     *string         `json:"email" binding:"omitempty,email"`
	FirstName *string         `json:"first_name"`
	LastName  *string         `json:"last_name"`
	Bio       *string         `json:"bio"`
	Role      json.RawMessage `json:"role"`
}

func (d UpdateMeDTO) ToUpdate() UpdateUserDTO {
	return UpdateUserDTO{
		Username:  d.Username,
		Email:     d.Email,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Bio:       d.Bio,
	}
}

type UserResponse struct {
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Bio       string      `json:"bio"`
	Role      models.Role `json:"role"`
}

func UserFromModel(u models.User) UserResponse {
	return UserResponse{
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Bio:       u.Bio,
		Role:      u.Role,
	}
}
