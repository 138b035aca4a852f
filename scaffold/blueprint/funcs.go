package blueprint

import (
	"strconv"
	"strings"
	"text/template"

	"github.com/jrey8343/shipwright/core/naming"
)

// Funcs returns the functions available to every blueprint.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"class":     naming.ClassCase,
		"camel":     naming.CamelCase,
		"snake":     naming.SnakeCase,
		"plural":    naming.Plural,
		"singular":  naming.Singular,
		"title":     naming.Title,
		"join":      strings.Join,
		"quote":     strconv.Quote,
		"inputType": inputType,
		"valueOf":   valueOf,
	}
}

var inputTypes = map[string]string{
	"int64":           "number",
	"sql.NullInt64":   "number",
	"float32":         "number",
	"float64":         "number",
	"sql.NullFloat64": "number",
	"bool":            "checkbox",
	"sql.NullBool":    "checkbox",
}

// inputType returns the HTML input type used to edit a value of the Go
// type named typeName.
func inputType(typeName string) string {
	if t, ok := inputTypes[typeName]; ok {
		return t
	}
	return "text"
}

var nullValueFields = map[string]string{
	"sql.NullString":      "String",
	"sql.NullInt64":       "Int64",
	"sql.NullFloat64":     "Float64",
	"sql.NullBool":        "Bool",
	"uuid.NullUUID":       "UUID",
	"decimal.NullDecimal": "Decimal",
}

// valueOf returns the html/template pipeline printing the field goName of
// the dot value, unwrapping nullable types.
func valueOf(goName, typeName string) string {
	switch typeName {
	case "time.Time":
		return `.` + goName + `.Format "2006-01-02T15:04:05Z07:00"`
	case "json.RawMessage":
		return `printf "%s" .` + goName
	}
	if inner, ok := nullValueFields[typeName]; ok {
		return `.` + goName + `.` + inner
	}
	return `.` + goName
}
