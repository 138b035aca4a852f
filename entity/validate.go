package entity

import (
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report fields by column name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("db"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// a NULL string is checked as absent, so rules combined with omitempty
	// only apply to present values
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if s, ok := field.Interface().(sql.NullString); ok && s.Valid {
			return s.String
		}
		return nil
	}, sql.NullString{})

	return v
}

// ValidateStruct checks the validate struct tags of changeset, for example
// `validate:"min=1,max=80"`. Failures are returned as ValidationErrors keyed
// by the db tag of each field.
func ValidateStruct(changeset any) error {
	err := validate.Struct(changeset)
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	var errs ValidationErrors
	for _, fe := range fieldErrs {
		errs.Check(fe.Field(), fieldError(fe))
	}
	return errs.Err()
}

// ValidateValue checks a single value against a validate tag.
func ValidateValue(value any, tag string) error {
	err := validate.Var(value, tag)
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return fieldError(fieldErrs[0])
	}
	return err
}

func fieldError(fe validator.FieldError) error {
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters long"
	}
	switch fe.Tag() {
	case "min":
		return fmt.Errorf("must be at least %s%s", fe.Param(), unit)
	case "max":
		return fmt.Errorf("must be at most %s%s", fe.Param(), unit)
	case "required":
		return errors.New("is required")
	default:
		if fe.Param() != "" {
			return fmt.Errorf("failed the %s=%s check", fe.Tag(), fe.Param())
		}
		return fmt.Errorf("failed the %s check", fe.Tag())
	}
}
