// Package validation wraps go-playground/validator with the account name
// policy and turns failures into apperror validation errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sakif/skill-log/internal/apperror"
)

// DefaultAlphabet is the character class account names are drawn from.
const DefaultAlphabet = "а-яА-ЯёЁ"

// Messages maps "field.tag" (json field name) to the user-facing text shown
// when that rule fails.
type Messages map[string]string

// Validator checks input structs tagged with `validate:"..."`.
// Besides the built-in rules it knows "wizardname": letters of the configured
// alphabet and spaces, nothing else.
type Validator struct {
	v *validator.Validate
}

// New compiles the name policy for alphabet (a regexp character-class body,
// e.g. "a-zA-Z"). An empty alphabet means DefaultAlphabet.
func New(alphabet string) (*Validator, error) {
	if alphabet == "" {
		alphabet = DefaultAlphabet
	}
	namePattern, err := regexp.Compile(`^[` + alphabet + ` ]+$`)
	if err != nil {
		return nil, fmt.Errorf("validation: compiling name alphabet %q: %w", alphabet, err)
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	if err := v.RegisterValidation("wizardname", func(fl validator.FieldLevel) bool {
		return namePattern.MatchString(fl.Field().String())
	}); err != nil {
		return nil, fmt.Errorf("validation: registering wizardname: %w", err)
	}

	return &Validator{v: v}, nil
}

// Struct validates s and reports the first failing field as an
// apperror.ValidationFailed, using messages for its text when present.
func (v *Validator) Struct(s any, messages Messages) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validation: %w", err)
	}

	fe := fieldErrs[0]
	if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return apperror.ValidationFailed(fe.Field(), msg)
	}
	return apperror.ValidationFailed(fe.Field(), defaultMessage(fe))
}

func defaultMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
