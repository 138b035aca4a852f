package fieldspec

import (
	"math"
	"strings"

	"github.com/jrey8343/shipwright/core/naming"
)

const (
	referencesKeyword = "references"
	foreignKeySuffix  = "_id"
	defaultRefColumn  = "id"
)

// Parse compiles raw field specs in order. The first invalid spec aborts
// parsing and is reported as a *ParseError; no fields are returned then.
func Parse(raw []string) ([]Field, error) {
	fields := make([]Field, 0, len(raw))
	for _, spec := range raw {
		field, err := ParseOne(spec)
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	return fields, nil
}

// ParseOne compiles a single field spec.
func ParseOne(spec string) (Field, error) {
	name, typeSpec, found := strings.Cut(spec, ":")
	if name == "" {
		return nil, &ParseError{Spec: spec, Err: ErrMissingColumnName}
	}
	if !found {
		return nil, &ParseError{Spec: spec, Err: ErrMissingTypeSpec}
	}

	if typeSpec == referencesKeyword {
		return ForeignKey{
			LocalKey:         name + foreignKeySuffix,
			ReferencesTable:  naming.Plural(name),
			ReferencesColumn: defaultRefColumn,
		}, nil
	}
	if target, ok := strings.CutPrefix(typeSpec, referencesKeyword+"="); ok {
		table, col, ok := parseReference(target)
		if !ok {
			return nil, &ParseError{Spec: spec, Err: ErrInvalidForeignKeyFormat}
		}
		return ForeignKey{
			LocalKey:         name + foreignKeySuffix,
			ReferencesTable:  table,
			ReferencesColumn: col,
		}, nil
	}

	fieldType, ok := parseType(typeSpec)
	if !ok {
		return nil, &ParseError{Spec: spec, Err: ErrInvalidType}
	}
	return Column{Name: name, Type: fieldType}, nil
}

// parseReference splits "table(column)". Both parts must be non-empty and
// free of parentheses.
func parseReference(s string) (table, col string, ok bool) {
	table, rest, found := strings.Cut(s, "(")
	if !found || table == "" {
		return "", "", false
	}
	col, found = strings.CutSuffix(rest, ")")
	if !found || col == "" || strings.ContainsAny(col, "()") || strings.ContainsAny(table, ")") {
		return "", "", false
	}
	return table, col, true
}

type modifierSet struct {
	nullable bool
	unique   bool
	length   *uint32
}

// parseModifiers scans the characters after the type keyword. Digits are
// collected into the length wherever they appear; a length that does not fit
// in 32 bits is dropped.
func parseModifiers(s string) modifierSet {
	m := modifierSet{nullable: true}
	var (
		length    uint64
		hasDigits bool
		overflow  bool
	)
	for i := 0; i < len(s); i++ {
		switch ch := s[i]; {
		case ch >= '0' && ch <= '9':
			hasDigits = true
			length = length*10 + uint64(ch-'0')
			if length > math.MaxUint32 {
				overflow = true
				length = 0
			}
		case ch == '!':
			m.nullable = false
		case ch == '^':
			m.unique = true
		}
	}
	if hasDigits && !overflow {
		n := uint32(length)
		m.length = &n
	}
	return m
}

func isASCIILetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func parseType(typeSpec string) (FieldType, bool) {
	end := 0
	for end < len(typeSpec) && isASCIILetter(typeSpec[end]) {
		end++
	}
	keyword := typeSpec[:end]
	m := parseModifiers(typeSpec[end:])

	switch keyword {
	case "string":
		return String{Nullable: m.nullable, Unique: m.unique, Length: m.length}, true
	case "text":
		return String{Nullable: m.nullable, Unique: m.unique, Text: true}, true
	case "uuid":
		return UUID{Nullable: m.nullable, Unique: m.unique}, true
	case "int":
		return Integer{Nullable: m.nullable, Unique: m.unique, Size: SizeRegular}, true
	case "bigint":
		return Integer{Nullable: m.nullable, Unique: m.unique, Size: SizeBig}, true
	case "smallint":
		return Integer{Nullable: m.nullable, Unique: m.unique, Size: SizeSmall}, true
	case "unsigned":
		return Integer{Nullable: m.nullable, Unique: m.unique, Size: SizeUnsigned}, true
	case "float":
		return Float{Nullable: m.nullable, Unique: m.unique}, true
	case "double":
		return Double{Nullable: m.nullable, Unique: m.unique}, true
	case "decimal":
		return Decimal{Nullable: m.nullable, Unique: m.unique}, true
	case "bool":
		return Boolean{Nullable: m.nullable}, true
	case "date":
		return Date{}, true
	case "datetime":
		return DateTime{}, true
	case "json":
		return JSON{Unique: m.unique}, true
	case "jsonb":
		return JSON{Binary: true, Unique: m.unique}, true
	default:
		return nil, false
	}
}

// Keywords lists the accepted type keywords in the order they are documented.
func Keywords() []string {
	return []string{
		"string", "text", "uuid", "int", "bigint", "smallint", "unsigned",
		"float", "double", "decimal", "bool", "date", "datetime", "json", "jsonb",
	}
}
