package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is the parent of every "no such object" error.
	ErrNotFound = errors.New("not found")

	ErrUserNotFound     = fmt.Errorf("user %w", ErrNotFound)
	ErrTitleNotFound    = fmt.Errorf("title %w", ErrNotFound)
	ErrReviewNotFound   = fmt.Errorf("review %w", ErrNotFound)
	ErrCommentNotFound  = fmt.Errorf("comment %w", ErrNotFound)
	ErrCategoryNotFound = fmt.Errorf("category %w", ErrNotFound)
	ErrGenreNotFound    = fmt.Errorf("genre %w", ErrNotFound)

	ErrForbidden       = errors.New("you do not have permission to perform this action")
	ErrUnauthenticated = errors.New("authentication credentials were not provided")
	ErrInvalidToken    = errors.New("invalid token")

	// ErrInvalidConfirmationCode covers both a wrong and an expired code.
	ErrInvalidConfirmationCode = errors.New("invalid confirmation code")
)
