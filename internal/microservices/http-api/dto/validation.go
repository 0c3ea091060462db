package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"
	"unicode/utf8"

	"yamdb/internal/validators"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators installs the custom binding tags on gin's validator
// engine and makes validation errors report json field names.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		_ = v.RegisterValidation("username_not_me", func(fl validator.FieldLevel) bool {
			return validators.ValidateUsername(fl.Field().String()) == nil
		})
		_ = v.RegisterValidation("username_chars", func(fl validator.FieldLevel) bool {
			return validators.ValidateUsernameChars(fl.Field().String()) == nil
		})
		_ = v.RegisterValidation("not_future_year", func(fl validator.FieldLevel) bool {
			_, err := validators.ValidateYear(int(fl.Field().Int()))
			return err == nil
		})
		_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return validators.ValidateSlug(fl.Field().String()) == nil
		})
	})
}

// FromBindingError turns the error returned by c.ShouldBindJSON into a
// field-scoped ValidationError.
func FromBindingError(err error) *ValidationError {
	out := &ValidationError{}

	var verrs validator.ValidationErrors
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.As(err, &verrs):
		for _, fe := range verrs {
			out.Add(fieldPath(fe), messageFor(fe))
		}
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = NonFieldErrors
		}
		out.Add(field, fmt.Sprintf("Expected a value of type %s.", typeErr.Type.String()))
	case errors.As(err, &syntaxErr), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		out.Add(NonFieldErrors, "Malformed JSON body.")
	default:
		out.Add(NonFieldErrors, err.Error())
	}
	return out
}

func fieldPath(fe validator.FieldError) string {
	// Namespace is "CreateTitleDTO.genre[0]"; drop the struct name.
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		ns = ns[i+1:]
	}
	if i := strings.IndexByte(ns, '['); i >= 0 {
		ns = ns[:i]
	}
	if ns == "" {
		return fe.Field()
	}
	return ns
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		if fe.Kind() == reflect.String {
			return "This field may not be blank."
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("Ensure this field has at least %s elements.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "max":
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s.", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "username_not_me":
		return validators.ErrReservedUsername.Error()
	case "username_chars":
		return validators.ErrUsernameChars.Error()
	case "not_future_year":
		return validators.ErrFutureYear.Error()
	case "slug":
		return validators.ErrSlugChars.Error()
	default:
		return fmt.Sprintf("Failed on the %q rule.", fe.Tag())
	}
}

// checkLength records a field error when v is longer than max runes.
func checkLength(verr *ValidationError, field, v string, max int) {
	if max > 0 && utf8.RuneCountInString(v) > max {
		verr.Add(field, fmt.Sprintf("Ensure this field has no more than %d characters.", max))
	}
}
