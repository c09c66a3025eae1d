// Package validation checks request input structs against their `validate`
// tags and turns failures into apperror validation errors.
//
// Tags are interpreted by github.com/go-playground/validator/v10. Three rules
// are added on top of the built-ins:
//
//	password   at least one upper-case letter, lower-case letter, digit and
//	           special character (length is checked with min/max)
//	bcryptmax  at most 72 bytes, bcrypt's input limit; min/max count runes
//	para       one of the P.A.R.A. categories
//
// Field names in issues come from the struct's json tags, so a client sees
// the same name it sent.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/sakif/second-brain/internal/apperror"
	"github.com/sakif/second-brain/internal/model"
)

// MaxPasswordBytes is the longest input bcrypt hashes without truncating.
const MaxPasswordBytes = 72

// Validator is safe for concurrent use; build one and share it.
type Validator struct {
	v *validator.Validate
}

// New creates a Validator with the custom rules registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("password", validPassword)
	_ = v.RegisterValidation("bcryptmax", validPasswordBytes)
	_ = v.RegisterValidation("para", validCategory)

	return &Validator{v: v}
}

// Struct validates s. It returns nil, or an *apperror.AppError wrapping
// apperror.ErrValidation with one Issue per failing field.
func (v *Validator) Struct(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validation: %w", err)
	}

	issues := make([]apperror.Issue, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, apperror.Issue{
			Field:   fe.Field(),
			Message: message(fe),
		})
	}
	return apperror.Invalid(issues)
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "url":
		return field + " must be a valid URL"
	case "password":
		return field + " must contain an uppercase letter, a lowercase letter, a digit and a special character"
	case "bcryptmax":
		return fmt.Sprintf("%s must be at most %d bytes", field, MaxPasswordBytes)
	case "para":
		return field + " must be one of projects, areas, resources, archives"
	}
	return fmt.Sprintf("%s failed the %q rule", field, fe.Tag())
}

func validPassword(fl validator.FieldLevel) bool {
	var upper, lower, digit, special bool
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}
	return upper && lower && digit && special
}

func validPasswordBytes(fl validator.FieldLevel) bool {
	return len(fl.Field().String()) <= MaxPasswordBytes
}

func validCategory(fl validator.FieldLevel) bool {
	return model.Category(fl.Field().String()).Valid()
}
