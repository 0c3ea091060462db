package validators

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	assert.ErrorIs(t, ValidateUsername("me"), ErrReservedUsername)

	for _, name := range []string{"bob", "Me", "me2", "admin", "mee"} {
		assert.NoError(t, ValidateUsername(name), name)
	}
}

func TestValidateUsernameChars(t *testing.T) {
	for _, name := range []string{"bob", "bob.smith", "bob@x", "b+b", "b-b", "b_b", "Пётр"} {
		assert.NoError(t, ValidateUsernameChars(name), name)
	}
	for _, name := range []string{"", "bob smith", "bob!", "a/b"} {
		assert.ErrorIs(t, ValidateUsernameChars(name), ErrUsernameChars, name)
	}
}

func TestValidateYear(t *testing.T) {
	current := time.Now().Year()

	got, err := ValidateYear(current)
	assert.NoError(t, err)
	assert.Equal(t, current, got)

	got, err = ValidateYear(1869)
	assert.NoError(t, err)
	assert.Equal(t, 1869, got)

	_, err = ValidateYear(current + 1)
	assert.True(t, errors.Is(err, ErrFutureYear))
}

func TestValidateYearAt_FixedClock(t *testing.T) {
	now := time.Date(2024, time.December, 31, 23, 59, 0, 0, time.UTC)

	_, err := validateYearAt(2024, now)
	assert.NoError(t, err)

	_, err = validateYearAt(2025, now)
	assert.ErrorIs(t, err, ErrFutureYear)
}

func TestValidateSlug(t *testing.T) {
	assert.NoError(t, ValidateSlug("sci-fi_2"))
	assert.ErrorIs(t, ValidateSlug("sci fi"), ErrSlugChars)
	assert.ErrorIs(t, ValidateSlug(""), ErrSlugChars)
}
