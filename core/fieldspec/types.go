package fieldspec

import (
	"strconv"

	"github.com/jrey8343/shipwright/core/ast"
)

// FieldType is the closed set of column types a field spec can name. Every
// variant implements all projections, so a new variant cannot be added
// without deciding its column, Go type, validation and fake data.
type FieldType interface {
	// Keyword returns the canonical type keyword ("string", "bigint", "jsonb")
	Keyword() string
	// Modifiers returns the canonical modifier suffix ("256!^")
	Modifiers() string
	// ColumnDefinition returns the column node for a column called name
	ColumnDefinition(name string) *ast.ColumnNode
	// NativeType returns the Go type used to store the value
	NativeType() TypeName
	// ValidationRule returns the rule applied to changeset values, or nil
	ValidationRule() *Rule
	// FakeData returns a Go expression producing test data, or nil
	FakeData() *FakeExpr

	isFieldType()
}

// IntegerSize selects the storage size of an Integer column.
type IntegerSize int

const (
	SizeRegular IntegerSize = iota
	SizeSmall
	SizeBig
	SizeUnsigned
)

func (s IntegerSize) String() string {
	switch s {
	case SizeSmall:
		return "smallint"
	case SizeBig:
		return "bigint"
	case SizeUnsigned:
		return "unsigned"
	default:
		return "int"
	}
}

func modifiers(nullable, unique bool) string {
	s := ""
	if !nullable {
		s += "!"
	}
	if unique {
		s += "^"
	}
	return s
}

func column(name string, dataType ast.DataType, nullable, unique bool) *ast.ColumnNode {
	col := ast.NewColumn(name, dataType)
	if !nullable {
		col.SetNotNull()
	}
	if unique {
		col.SetUnique()
	}
	return col
}

// UUID is a universally unique identifier column.
type UUID struct {
	Nullable bool
	Unique   bool
}

func (UUID) isFieldType()        {}
func (UUID) Keyword() string     { return "uuid" }
func (t UUID) Modifiers() string { return modifiers(t.Nullable, t.Unique) }

func (t UUID) ColumnDefinition(name string) *ast.ColumnNode {
	return column(name, ast.NewDataType(ast.TypeUUID), t.Nullable, t.Unique)
}

func (t UUID) NativeType() TypeName {
	if t.Nullable {
		return TypeName{Name: "uuid.NullUUID", Import: importUUID}
	}
	return TypeName{Name: "uuid.UUID", Import: importUUID}
}

func (UUID) ValidationRule() *Rule { return nil }

func (t UUID) FakeData() *FakeExpr {
	if t.Nullable {
		return fake("uuid.NullUUID{UUID: uuid.New(), Valid: true}", importUUID)
	}
	return fake("uuid.New()", importUUID)
}

// String is a varchar column, or an unbounded text column when Text is set.
// Length is only kept for varchar columns. A zero length is kept in the
// canonical form but otherwise treated as no bound.
type String struct {
	Nullable bool
	Unique   bool
	Text     bool
	Length   *uint32
}

func (String) isFieldType() {}

func (t String) Keyword() string {
	if t.Text {
		return "text"
	}
	return "string"
}

func (t String) Modifiers() string {
	s := ""
	if t.Length != nil && !t.Text {
		s = strconv.FormatUint(uint64(*t.Length), 10)
	}
	return s + modifiers(t.Nullable, t.Unique)
}

// bound returns the maximum length of a varchar column.
func (t String) bound() (uint32, bool) {
	if t.Text || t.Length == nil || *t.Length == 0 {
		return 0, false
	}
	return *t.Length, true
}

func (t String) ColumnDefinition(name string) *ast.ColumnNode {
	dataType := ast.NewDataType(ast.TypeVarchar)
	if t.Text {
		dataType = ast.NewDataType(ast.TypeText)
	} else if n, ok := t.bound(); ok {
		dataType = dataType.WithLength(n)
	}
	return column(name, dataType, t.Nullable, t.Unique)
}

func (t String) NativeType() TypeName {
	if t.Nullable {
		return TypeName{Name: "sql.NullString", Import: importSQL}
	}
	return TypeName{Name: "string"}
}

// ValidationRule requires at least one character and, for bounded varchar
// columns, at most Length characters.
func (t String) ValidationRule() *Rule {
	rule := &Rule{Min: 1}
	if n, ok := t.bound(); ok {
		rule.Max = n
		rule.HasMax = true
	}
	return rule
}

// fakeLetterLimit bounds the columns that get random letters instead of a
// name, so short columns receive values within their length.
const fakeLetterLimit = 64

func (t String) FakeData() *FakeExpr {
	expr := "gofakeit.Name()"
	if n, ok := t.bound(); ok && n < fakeLetterLimit {
		expr = "gofakeit.LetterN(" + strconv.FormatUint(uint64(n), 10) + ")"
	}
	if t.Nullable {
		return fake("sql.NullString{String: "+expr+", Valid: true}", importFaker, importSQL)
	}
	return fake(expr, importFaker)
}

// Integer is a whole number column. Every size is stored as int64 in Go.
type Integer struct {
	Nullable bool
	Unique   bool
	Size     IntegerSize
}

func (Integer) isFieldType()        {}
func (t Integer) Keyword() string   { return t.Size.String() }
func (t Integer) Modifiers() string { return modifiers(t.Nullable, t.Unique) }

func (t Integer) ColumnDefinition(name string) *ast.ColumnNode {
	kind := ast.TypeInteger
	switch t.Size {
	case SizeSmall:
		kind = ast.TypeSmallInt
	case SizeBig:
		kind = ast.TypeBigInt
	case SizeUnsigned:
		kind = ast.TypeUnsigned
	}
	return column(name, ast.NewDataType(kind), t.Nullable, t.Unique)
}

func (t Integer) NativeType() TypeName {
	if t.Nullable {
		return TypeName{Name: "sql.NullInt64", Import: importSQL}
	}
	return TypeName{Name: "int64"}
}

func (Integer) ValidationRule() *Rule { return nil }

func (t Integer) FakeData() *FakeExpr {
	const expr = "int64(gofakeit.IntRange(1, 100))"
	if t.Nullable {
		return fake("sql.NullInt64{Int64: "+expr+", Valid: true}", importFaker, importSQL)
	}
	return fake(expr, importFaker)
}

// Float is a single precision floating point column.
type Float struct {
	Nullable bool
	Unique   bool
}

func (Float) isFieldType()        {}
func (Float) Keyword() string     { return "float" }
func (t Float) Modifiers() string { return modifiers(t.Nullable, t.Unique) }

func (t Float) ColumnDefinition(name string) *ast.ColumnNode {
	return column(name, ast.NewDataType(ast.TypeFloat), t.Nullable, t.Unique)
}

func (t Float) NativeType() TypeName {
	if t.Nullable {
		return TypeName{Name: "sql.NullFloat64", Import: importSQL}
	}
	return TypeName{Name: "float32"}
}

func (Float) ValidationRule() *Rule { return nil }

func (t Float) FakeData() *FakeExpr {
	const expr = "gofakeit.Float32Range(1, 100)"
	if t.Nullable {
		return fake("sql.NullFloat64{Float64: float64("+expr+"), Valid: true}", importFaker, importSQL)
	}
	return fake(expr, importFaker)
}

// Double is a double precision floating point column.
type Double struct {
	Nullable bool
	Unique   bool
}

func (Double) isFieldType()        {}
func (Double) Keyword() string     { return "double" }
func (t Double) Modifiers() string { return modifiers(t.Nullable, t.Unique) }

func (t Double) ColumnDefinition(name string) *ast.ColumnNode {
	return column(name, ast.NewDataType(ast.TypeDouble), t.Nullable, t.Unique)
}

func (t Double) NativeType() TypeName {
	if t.Nullable {
		return TypeName{Name: "sql.NullFloat64", Import: importSQL}
	}
	return TypeName{Name: "float64"}
}

func (Double) ValidationRule() *Rule { return nil }

func (t Double) FakeData() *FakeExpr {
	const expr = "gofakeit.Float64Range(1, 100)"
	if t.Nullable {
		return fake("sql.NullFloat64{Float64: "+expr+", Valid: true}", importFaker, importSQL)
	}
	return fake(expr, importFaker)
}

// Decimal is an exact numeric column. It has no fake data generator.
type Decimal struct {
	Nullable bool
	Unique   bool
}

func (Decimal) isFieldType()        {}
func (Decimal) Keyword() string     { return "decimal" }
func (t Decimal) Modifiers() string { return modifiers(t.Nullable, t.Unique) }

func (t Decimal) ColumnDefinition(name string) *ast.ColumnNode {
	return column(name, ast.NewDataType(ast.TypeDecimal), t.Nullable, t.Unique)
}

func (t Decimal) NativeType() TypeName {
	if t.Nullable {
		return TypeName{Name: "decimal.NullDecimal", Import: importDecimal}
	}
	return TypeName{Name: "decimal.Decimal", Import: importDecimal}
}

func (Decimal) ValidationRule() *Rule { return nil }
func (Decimal) FakeData() *FakeExpr   { return nil }

// Boolean is a true/false column. It cannot be unique.
type Boolean struct {
	Nullable bool
}

func (Boolean) isFieldType()        {}
func (Boolean) Keyword() string     { return "bool" }
func (t Boolean) Modifiers() string { return modifiers(t.Nullable, false) }

func (t Boolean) ColumnDefinition(name string) *ast.ColumnNode {
	return column(name, ast.NewDataType(ast.TypeBoolean), t.Nullable, false)
}

func (t Boolean) NativeType() TypeName {
	if t.Nullable {
		return TypeName{Name: "sql.NullBool", Import: importSQL}
	}
	return TypeName{Name: "bool"}
}

func (Boolean) ValidationRule() *Rule { return nil }

func (t Boolean) FakeData() *FakeExpr {
	if t.Nullable {
		return fake("sql.NullBool{Bool: gofakeit.Bool(), Valid: true}", importFaker, importSQL)
	}
	return fake("gofakeit.Bool()", importFaker)
}

// Date is a calendar date column. It is always NOT NULL.
type Date struct{}

func (Date) isFieldType()      {}
func (Date) Keyword() string   { return "date" }
func (Date) Modifiers() string { return "" }

func (Date) ColumnDefinition(name string) *ast.ColumnNode {
	return ast.NewColumn(name, ast.NewDataType(ast.TypeDate)).SetNotNull()
}

func (Date) NativeType() TypeName  { return TypeName{Name: "time.Time", Import: importTime} }
func (Date) ValidationRule() *Rule { return nil }
func (Date) FakeData() *FakeExpr   { return fake("gofakeit.Date()", importFaker) }

// DateTime is a timestamp column. It is always NOT NULL and defaults to the
// current time.
type DateTime struct{}

func (DateTime) isFieldType()      {}
func (DateTime) Keyword() string   { return "datetime" }
func (DateTime) Modifiers() string { return "" }

func (DateTime) ColumnDefinition(name string) *ast.ColumnNode {
	return ast.NewColumn(name, ast.NewDataType(ast.TypeDateTime)).
		SetNotNull().
		SetDefaultExpression("CURRENT_TIMESTAMP")
}

func (DateTime) NativeType() TypeName  { return TypeName{Name: "time.Time", Import: importTime} }
func (DateTime) ValidationRule() *Rule { return nil }
func (DateTime) FakeData() *FakeExpr   { return fake("gofakeit.Date()", importFaker) }

// JSON is a JSON document column, stored as binary JSON when Binary is set.
// It is always NOT NULL and has no fake data generator.
type JSON struct {
	Binary bool
	Unique bool
}

func (JSON) isFieldType() {}

func (t JSON) Keyword() string {
	if t.Binary {
		return "jsonb"
	}
	return "json"
}

func (t JSON) Modifiers() string { return modifiers(true, t.Unique) }

func (t JSON) ColumnDefinition(name string) *ast.ColumnNode {
	kind := ast.TypeJSON
	if t.Binary {
		kind = ast.TypeJSONB
	}
	return column(name, ast.NewDataType(kind), false, t.Unique)
}

func (JSON) NativeType() TypeName  { return TypeName{Name: "json.RawMessage", Import: importJSON} }
func (JSON) ValidationRule() *Rule { return nil }
func (JSON) FakeData() *FakeExpr   { return nil }
