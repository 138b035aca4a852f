// Package structs emits the record and changeset field lists of an entity.
//
// The record lists every stored column. The changeset lists the columns a
// caller may set, which is every column except "id". Both lists come from
// the same compiled fields, so a changeset field always has a record
// counterpart with the same name and type.
package structs

import (
	"slices"
	"strings"

	"github.com/jrey8343/shipwright/core/fieldspec"
	"github.com/jrey8343/shipwright/core/naming"
)

// IDColumn is the column excluded from changesets.
const IDColumn = "id"

// StructField is a field of the record struct.
type StructField struct {
	Name string             `json:"name" yaml:"name"`
	Type fieldspec.TypeName `json:"type" yaml:"type"`
}

// GoName returns the exported Go field name ("owner_id" -> "OwnerID").
func (f StructField) GoName() string {
	return naming.ClassCase(f.Name)
}

// ChangesetField is a field of the changeset struct.
type ChangesetField struct {
	Name       string              `json:"name" yaml:"name"`
	Type       fieldspec.TypeName  `json:"type" yaml:"type"`
	Validation *fieldspec.Rule     `json:"validation,omitempty" yaml:"validation,omitempty"`
	Faker      *fieldspec.FakeExpr `json:"faker,omitempty" yaml:"faker,omitempty"`
}

// GoName returns the exported Go field name.
func (f ChangesetField) GoName() string {
	return naming.ClassCase(f.Name)
}

// Tag returns the struct tag of the field, including a validate key when
// the field has a validation rule. Rules on nullable strings only apply to
// present values.
func (f ChangesetField) Tag() string {
	tag := `db:"` + f.Name + `" form:"` + f.Name + `"`
	if f.Validation != nil {
		rule := f.Validation.Tag()
		if f.Type.Name == nullStringType {
			rule = "omitempty," + rule
		}
		tag += ` validate:"` + rule + `"`
	}
	return tag
}

const nullStringType = "sql.NullString"

// EmitFields projects fields onto the record and changeset lists, keeping
// input order. A foreign key contributes its local key with the foreign key
// type to both lists.
func EmitFields(fields []fieldspec.Field) (record []StructField, changeset []ChangesetField) {
	record = make([]StructField, 0, len(fields))
	changeset = make([]ChangesetField, 0, len(fields))

	for _, field := range fields {
		switch f := field.(type) {
		case fieldspec.Column:
			nativeType := f.Type.NativeType()
			record = append(record, StructField{Name: f.Name, Type: nativeType})
			if f.Name == IDColumn {
				continue
			}
			changeset = append(changeset, ChangesetField{
				Name:       f.Name,
				Type:       nativeType,
				Validation: f.Type.ValidationRule(),
				Faker:      f.Type.FakeData(),
			})
		case fieldspec.ForeignKey:
			record = append(record, StructField{Name: f.LocalKey, Type: fieldspec.ForeignKeyType})
			changeset = append(changeset, ChangesetField{
				Name:  f.LocalKey,
				Type:  fieldspec.ForeignKeyType,
				Faker: fieldspec.ForeignKeyFakeData(),
			})
		}
	}

	return record, changeset
}

// RecordNames returns the column names of record, in order.
func RecordNames(record []StructField) []string {
	names := make([]string, len(record))
	for i, f := range record {
		names[i] = f.Name
	}
	return names
}

// ChangesetNames returns the column names of changeset, in order.
func ChangesetNames(changeset []ChangesetField) []string {
	names := make([]string, len(changeset))
	for i, f := range changeset {
		names[i] = f.Name
	}
	return names
}

// HasID reports whether the record has an "id" field.
func HasID(record []StructField) bool {
	return slices.ContainsFunc(record, func(f StructField) bool { return f.Name == IDColumn })
}

// IDType returns the Go type of the record's "id" field.
func IDType(record []StructField) (fieldspec.TypeName, bool) {
	i := slices.IndexFunc(record, func(f StructField) bool { return f.Name == IDColumn })
	if i < 0 {
		return fieldspec.TypeName{}, false
	}
	return record[i].Type, true
}

// Imports returns the sorted, de-duplicated import paths needed by the
// record and changeset types. Faker imports are included when withFakers is
// set.
func Imports(record []StructField, changeset []ChangesetField, withFakers bool) []string {
	var paths []string
	for _, f := range record {
		if f.Type.Import != "" {
			paths = append(paths, f.Type.Import)
		}
	}
	for _, f := range changeset {
		if f.Type.Import != "" {
			paths = append(paths, f.Type.Import)
		}
		if withFakers && f.Faker != nil {
			paths = append(paths, f.Faker.Imports...)
		}
	}
	slices.SortFunc(paths, strings.Compare)
	return slices.Compact(paths)
}
