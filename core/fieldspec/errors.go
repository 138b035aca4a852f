package fieldspec

import (
	"errors"
	"fmt"
)

// Parse error kinds. Match them with errors.Is.
var (
	ErrMissingColumnName       = errors.New("missing column name")
	ErrMissingTypeSpec         = errors.New("missing type spec")
	ErrInvalidForeignKeyFormat = errors.New("invalid foreign key format, expected references=table(column)")
	ErrInvalidType             = errors.New("invalid type")
)

// ParseError reports which field spec failed to parse and why.
type ParseError struct {
	// Spec is the raw field spec as given
	Spec string
	// Err is one of the Err* kinds above
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("field %q: %v", e.Spec, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
