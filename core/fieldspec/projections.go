package fieldspec

import (
	"fmt"
	"strconv"

	"github.com/jrey8343/shipwright/entity"
)

const (
	importSQL     = "database/sql"
	importTime    = "time"
	importJSON    = "encoding/json"
	importUUID    = "github.com/google/uuid"
	importDecimal = "github.com/shopspring/decimal"
	importFaker   = "github.com/brianvoe/gofakeit/v7"
)

// TypeName is a Go type as written in generated code, plus the import path
// it needs (empty for builtin types).
type TypeName struct {
	Name   string `json:"name" yaml:"name"`
	Import string `json:"import,omitempty" yaml:"import,omitempty"`
}

func (t TypeName) String() string {
	return t.Name
}

// ForeignKeyType is the Go type of foreign key fields, matching their
// integer NOT NULL column.
var ForeignKeyType = TypeName{Name: "int64"}

// ForeignKeyFakeData is the fake data expression of foreign key fields.
func ForeignKeyFakeData() *FakeExpr {
	return fake("int64(gofakeit.IntRange(1, 100))", importFaker)
}

// FakeExpr is a Go expression that produces a random value of a field's
// native type, with the imports it needs.
type FakeExpr struct {
	Code    string   `json:"code" yaml:"code"`
	Imports []string `json:"imports" yaml:"imports"`
}

func fake(code string, imports ...string) *FakeExpr {
	return &FakeExpr{Code: code, Imports: imports}
}

func (e *FakeExpr) String() string {
	return e.Code
}

// Rule is a length rule on string values. Lengths count characters, not
// bytes.
type Rule struct {
	Min    uint32 `json:"min" yaml:"min"`
	Max    uint32 `json:"max,omitempty" yaml:"max,omitempty"`
	HasMax bool   `json:"has_max,omitempty" yaml:"has_max,omitempty"`
}

// String renders the rule as "length(min=1, max=256)" or "length(min=1)".
func (r *Rule) String() string {
	if r.HasMax {
		return fmt.Sprintf("length(min=%d, max=%d)", r.Min, r.Max)
	}
	return fmt.Sprintf("length(min=%d)", r.Min)
}

// Tag renders the rule as a validator struct tag value, e.g. "min=1,max=256".
func (r *Rule) Tag() string {
	tag := "min=" + strconv.FormatUint(uint64(r.Min), 10)
	if r.HasMax {
		tag += ",max=" + strconv.FormatUint(uint64(r.Max), 10)
	}
	return tag
}

// Check returns an error when s violates the rule, using the same validator
// as generated changesets.
func (r *Rule) Check(s string) error {
	return entity.ValidateValue(s, r.Tag())
}
