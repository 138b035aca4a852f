package ast

import (
	"strconv"
)

// ConstraintType identifies the kind of a table-level constraint.
type ConstraintType int

const (
	PrimaryKeyConstraint ConstraintType = iota
	UniqueConstraint
	ForeignKeyConstraint
)

// String returns the SQL keyword for the constraint type.
func (c ConstraintType) String() string {
	switch c {
	case PrimaryKeyConstraint:
		return "PRIMARY KEY"
	case UniqueConstraint:
		return "UNIQUE"
	case ForeignKeyConstraint:
		return "FOREIGN KEY"
	default:
		return "UNKNOWN"
	}
}

// Referential actions for ForeignKeyRef.OnDelete and ForeignKeyRef.OnUpdate.
const (
	Cascade    = "CASCADE"
	SetNull    = "SET NULL"
	Restrict   = "RESTRICT"
	NoAction   = "NO ACTION"
	SetDefault = "SET DEFAULT"
)

// ForeignKeyRef describes the target of a foreign key.
type ForeignKeyRef struct {
	// Table is the referenced table
	Table string
	// Column is the referenced column
	Column string
	// OnDelete is the referential action on delete (empty means the database default)
	OnDelete string
	// OnUpdate is the referential action on update (empty means the database default)
	OnUpdate string
	// Name is the constraint name
	Name string
}

// DefaultValue holds a column default, either a literal value or an expression.
type DefaultValue struct {
	// Value is a literal, already quoted if it is a string
	Value string
	// Expression is a function or keyword such as CURRENT_TIMESTAMP
	Expression string
}

// TypeKind is a dialect independent column type.
type TypeKind int

const (
	TypeUUID TypeKind = iota + 1
	TypeVarchar
	TypeText
	TypeSmallInt
	TypeInteger
	TypeBigInt
	TypeUnsigned
	TypeFloat
	TypeDouble
	TypeDecimal
	TypeBoolean
	TypeDate
	TypeDateTime
	TypeJSON
	TypeJSONB
)

var typeKindNames = map[TypeKind]string{
	TypeUUID:     "uuid",
	TypeVarchar:  "varchar",
	TypeText:     "text",
	TypeSmallInt: "smallint",
	TypeInteger:  "integer",
	TypeBigInt:   "bigint",
	TypeUnsigned: "unsigned",
	TypeFloat:    "float",
	TypeDouble:   "double",
	TypeDecimal:  "decimal",
	TypeBoolean:  "boolean",
	TypeDate:     "date",
	TypeDateTime: "datetime",
	TypeJSON:     "json",
	TypeJSONB:    "jsonb",
}

func (k TypeKind) String() string {
	if name, ok := typeKindNames[k]; ok {
		return name
	}
	return "TypeKind(" + strconv.Itoa(int(k)) + ")"
}

// DataType is the logical type of a column. Length only applies to
// TypeVarchar; a varchar without a length is unbounded.
type DataType struct {
	Kind      TypeKind
	Length    uint32
	HasLength bool
}

// NewDataType returns a DataType of the given kind without a length.
func NewDataType(kind TypeKind) DataType {
	return DataType{Kind: kind}
}

// WithLength returns a copy of the type with the given length.
func (t DataType) WithLength(n uint32) DataType {
	t.Length = n
	t.HasLength = true
	return t
}

// String renders the logical type, e.g. "varchar(255)".
func (t DataType) String() string {
	if t.HasLength {
		return t.Kind.String() + "(" + strconv.FormatUint(uint64(t.Length), 10) + ")"
	}
	return t.Kind.String()
}
