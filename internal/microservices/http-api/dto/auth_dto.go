package dto

import "yamdb/internal/config"

// Data Transfer Objects for the confirmation-code sign-up flow

// SignUpRequest: payload for POST /auth/signup/
type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required,username_not_me,username_chars"`
}

func (r SignUpRequest) Validate(limits config.Limits) error {
	verr := &ValidationError{}
	checkLength(verr, "email", r.Email, limits.MaxEmailLength)
	checkLength(verr, "username", r.Username, limits.MaxUsernameLength)
	return verr.OrNil()
}

// SignUpResponse echoes the accepted identity
type SignUpResponse struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

// TokenRequest: payload for POST /auth/token/
type TokenRequest struct {
	Username         string `json:"username" binding:"required,username_not_me,username_chars"`
	ConfirmationCode string `json:"confirmation_code" binding:"required"`
}

// TokenResponse carries the bearer token
type TokenResponse struct {
	Token string `json:"token"`
}
