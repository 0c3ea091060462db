// Package validators holds the field rules shared by request binding and the
// import tool. Every function is pure and returns an error instead of panicking.
package validators

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// ReservedUsername is the path alias for the current user's profile.
const ReservedUsername = "me"

var (
	ErrReservedUsername = errors.New(`username "me" is not allowed`)
	ErrUsernameChars    = errors.New("username may contain only letters, digits and @/./+/-/_ characters")
	ErrFutureYear       = errors.New("year cannot be greater than the current year")
	ErrSlugChars        = errors.New("slug may contain only latin letters, digits, hyphens and underscores")
)

var (
	usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)
	slugPattern     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

// ValidateUsername rejects the reserved "me" alias.
func ValidateUsername(v string) error {
	if v == ReservedUsername {
		return ErrReservedUsername
	}
	return nil
}

// ValidateUsernameChars applies the unicode username charset.
func ValidateUsernameChars(v string) error {
	if !usernamePattern.MatchString(v) {
		return ErrUsernameChars
	}
	return nil
}

// ValidateYear passes v through unchanged unless it lies after the current
// calendar year.
func ValidateYear(v int) (int, error) {
	return validateYearAt(v, time.Now())
}

func validateYearAt(v int, now time.Time) (int, error) {
	if v > now.Year() {
		return 0, fmt.Errorf("%w: %d > %d", ErrFutureYear, v, now.Year())
	}
	return v, nil
}

func ValidateSlug(v string) error {
	if !slugPattern.MatchString(v) {
		return ErrSlugChars
	}
	return nil
}
