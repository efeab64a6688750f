// Package validation wraps go-playground/validator with the project's custom rules.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"ambulance/internal/wire"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("validation failed")

var phonePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return phonePattern.MatchString(NormalizePhone(fl.Field().String()))
		})
	})
	return validate
}

// NormalizePhone strips spaces, dashes and parentheses.
func NormalizePhone(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '.':
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}

// NormalizeContact trims free-text fields, lowercases the relationship and
// strips phone punctuation. Contact requests are normalized before Struct on
// both sides of the API.
func NormalizeContact(req wire.ContactRequest) wire.ContactRequest {
	req.Name = strings.TrimSpace(req.Name)
	req.Phone = NormalizePhone(req.Phone)
	req.Relationship = strings.ToLower(strings.TrimSpace(req.Relationship))
	req.Notes = strings.TrimSpace(req.Notes)
	return req
}

// Struct validates v against its `validate` tags.
// The returned error wraps ErrInvalid and names every failing field.
func Struct(v any) error {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "phone":
		return field + " must be 7-15 digits with an optional leading +"
	case "oneof":
		return field + " must be one of: " + fe.Param()
	case "max":
		return field + " must be at most " + fe.Param() + " characters"
	case "min":
		return field + " must be at least " + fe.Param()
	default:
		return field + " failed " + fe.Tag()
	}
}
