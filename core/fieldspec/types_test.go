package fieldspec_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/jrey8343/shipwright/core/ast"
	"github.com/jrey8343/shipwright/core/fieldspec"
)

func TestFieldType_ColumnDefinition(t *testing.T) {
	tests := []struct {
		name      string
		fieldType fieldspec.FieldType
		expected  *ast.ColumnNode
	}{
		{
			name:      "nullable varchar with length",
			fieldType: fieldspec.String{Nullable: true, Length: u32(256)},
			expected:  ast.NewColumn("c", ast.NewDataType(ast.TypeVarchar).WithLength(256)),
		},
		{
			name:      "unbounded varchar",
			fieldType: fieldspec.String{Unique: true},
			expected:  ast.NewColumn("c", ast.NewDataType(ast.TypeVarchar)).SetNotNull().SetUnique(),
		},
		{
			name:      "text",
			fieldType: fieldspec.String{Nullable: true, Text: true},
			expected:  ast.NewColumn("c", ast.NewDataType(ast.TypeText)),
		},
		{
			name:      "uuid",
			fieldType: fieldspec.UUID{Unique: true},
			expected:  ast.NewColumn("c", ast.NewDataType(ast.TypeUUID)).SetNotNull().SetUnique(),
		},
		{
			name:      "small integer",
			fieldType: fieldspec.Integer{Nullable: true, Size: fieldspec.SizeSmall},
			expected:  ast.NewColumn("c", ast.NewDataType(ast.TypeSmallInt)),
		},
		{
			name:      "unsigned integer",
			fieldType: fieldspec.Integer{Size: fieldspec.SizeUnsigned},
			expected:  ast.NewColumn("c", ast.NewDataType(ast.TypeUnsigned)).SetNotNull(),
		},
		{
			name:      "decimal",
			fieldType: fieldspec.Decimal{Nullable: true},
			expected:  ast.NewColumn("c", ast.NewDataType(ast.TypeDecimal)),
		},
		{
			name:      "nullable boolean",
			fieldType: fieldspec.Boolean{Nullable: true},
			expected:  ast.NewColumn("c", ast.NewDataType(ast.TypeBoolean)),
		},
		{
			name:      "date is always not null",
			fieldType: fieldspec.Date{},
			expected:  ast.NewColumn("c", ast.NewDataType(ast.TypeDate)).SetNotNull(),
		},
		{
			name:      "datetime is not null with a default",
			fieldType: fieldspec.DateTime{},
			expected:  ast.NewColumn("c", ast.NewDataType(ast.TypeDateTime)).SetNotNull().SetDefaultExpression("CURRENT_TIMESTAMP"),
		},
		{
			name:      "json is always not null",
			fieldType: fieldspec.JSON{},
			expected:  ast.NewColumn("c", ast.NewDataType(ast.TypeJSON)).SetNotNull(),
		},
		{
			name:      "unique jsonb",
			fieldType: fieldspec.JSON{Binary: true, Unique: true},
			expected:  ast.NewColumn("c", ast.NewDataType(ast.TypeJSONB)).SetNotNull().SetUnique(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			c.Assert(tt.fieldType.ColumnDefinition("c"), qt.DeepEquals, tt.expected)
		})
	}
}

func TestFieldType_NativeType(t *testing.T) {
	tests := []struct {
		fieldType fieldspec.FieldType
		expected  fieldspec.TypeName
	}{
		{fieldspec.UUID{}, fieldspec.TypeName{Name: "uuid.UUID", Import: "github.com/google/uuid"}},
		{fieldspec.UUID{Nullable: true}, fieldspec.TypeName{Name: "uuid.NullUUID", Import: "github.com/google/uuid"}},
		{fieldspec.String{}, fieldspec.TypeName{Name: "string"}},
		{fieldspec.String{Nullable: true}, fieldspec.TypeName{Name: "sql.NullString", Import: "database/sql"}},
		{fieldspec.Integer{Size: fieldspec.SizeBig}, fieldspec.TypeName{Name: "int64"}},
		{fieldspec.Integer{Nullable: true, Size: fieldspec.SizeSmall}, fieldspec.TypeName{Name: "sql.NullInt64", Import: "database/sql"}},
		{fieldspec.Float{}, fieldspec.TypeName{Name: "float32"}},
		{fieldspec.Float{Nullable: true}, fieldspec.TypeName{Name: "sql.NullFloat64", Import: "database/sql"}},
		{fieldspec.Double{Nullable: true}, fieldspec.TypeName{Name: "sql.NullFloat64", Import: "database/sql"}},
		{fieldspec.Decimal{}, fieldspec.TypeName{Name: "decimal.Decimal", Import: "github.com/shopspring/decimal"}},
		{fieldspec.Decimal{Nullable: true}, fieldspec.TypeName{Name: "decimal.NullDecimal", Import: "github.com/shopspring/decimal"}},
		{fieldspec.Boolean{}, fieldspec.TypeName{Name: "bool"}},
		{fieldspec.Boolean{Nullable: true}, fieldspec.TypeName{Name: "sql.NullBool", Import: "database/sql"}},
		{fieldspec.Date{}, fieldspec.TypeName{Name: "time.Time", Import: "time"}},
		{fieldspec.DateTime{}, fieldspec.TypeName{Name: "time.Time", Import: "time"}},
		{fieldspec.JSON{Binary: true}, fieldspec.TypeName{Name: "json.RawMessage", Import: "encoding/json"}},
	}

	for _, tt := range tests {
		t.Run(tt.expected.Name, func(t *testing.T) {
			c := qt.New(t)
			c.Assert(tt.fieldType.NativeType(), qt.Equals, tt.expected)
		})
	}
}

func TestFieldType_ValidationRule(t *testing.T) {
	c := qt.New(t)

	rule := fieldspec.String{Length: u32(500)}.ValidationRule()
	c.Assert(rule.String(), qt.Equals, "length(min=1, max=500)")
	c.Assert(rule.Tag(), qt.Equals, "min=1,max=500")

	rule = fieldspec.String{Nullable: true}.ValidationRule()
	c.Assert(rule.String(), qt.Equals, "length(min=1)")
	c.Assert(rule.Tag(), qt.Equals, "min=1")

	rule = fieldspec.String{Text: true, Length: u32(10)}.ValidationRule()
	c.Assert(rule.String(), qt.Equals, "length(min=1)")

	for _, ft := range []fieldspec.FieldType{
		fieldspec.UUID{}, fieldspec.Integer{}, fieldspec.Float{}, fieldspec.Double{},
		fieldspec.Decimal{}, fieldspec.Boolean{}, fieldspec.Date{}, fieldspec.DateTime{}, fieldspec.JSON{},
	} {
		c.Assert(ft.ValidationRule(), qt.IsNil, qt.Commentf("%T", ft))
	}
}

func TestRule_Check(t *testing.T) {
	rule := fieldspec.String{Length: u32(5)}.ValidationRule()

	tests := []struct {
		value string
		err   string
	}{
		{"", "must be at least 1 characters long"},
		{"a", ""},
		{"héllo", ""},
		{"hello!", "must be at most 5 characters long"},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			c := qt.New(t)
			err := rule.Check(tt.value)
			if tt.err == "" {
				c.Assert(err, qt.IsNil)
				return
			}
			c.Assert(err, qt.ErrorMatches, tt.err)
		})
	}
}

func TestFieldType_FakeData(t *testing.T) {
	tests := []struct {
		name      string
		fieldType fieldspec.FieldType
		expected  string
	}{
		{"string", fieldspec.String{}, "gofakeit.Name()"},
		{"short string", fieldspec.String{Length: u32(8)}, "gofakeit.LetterN(8)"},
		{"long string", fieldspec.String{Length: u32(256)}, "gofakeit.Name()"},
		{"nullable string", fieldspec.String{Nullable: true}, "sql.NullString{String: gofakeit.Name(), Valid: true}"},
		{"uuid", fieldspec.UUID{}, "uuid.New()"},
		{"integer", fieldspec.Integer{}, "int64(gofakeit.IntRange(1, 100))"},
		{"float", fieldspec.Float{}, "gofakeit.Float32Range(1, 100)"},
		{"nullable double", fieldspec.Double{Nullable: true}, "sql.NullFloat64{Float64: gofakeit.Float64Range(1, 100), Valid: true}"},
		{"boolean", fieldspec.Boolean{}, "gofakeit.Bool()"},
		{"date", fieldspec.Date{}, "gofakeit.Date()"},
		{"datetime", fieldspec.DateTime{}, "gofakeit.Date()"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			fake := tt.fieldType.FakeData()
			c.Assert(fake, qt.IsNotNil)
			c.Assert(fake.Code, qt.Equals, tt.expected)
		})
	}

	t.Run("decimal and json have no generator", func(t *testing.T) {
		c := qt.New(t)
		c.Assert(fieldspec.Decimal{}.FakeData(), qt.IsNil)
		c.Assert(fieldspec.JSON{}.FakeData(), qt.IsNil)
	})
}

func TestForeignKey_Projections(t *testing.T) {
	c := qt.New(t)

	fk := fieldspec.ForeignKey{LocalKey: "owner_id", ReferencesTable: "users", ReferencesColumn: "id"}

	c.Assert(fk.ColumnDefinition(), qt.DeepEquals, ast.NewColumn("owner_id", ast.NewDataType(ast.TypeInteger)).SetNotNull())
	c.Assert(fk.Constraint("invoices"), qt.DeepEquals, &ast.ConstraintNode{
		Type:    ast.ForeignKeyConstraint,
		Name:    "fk_invoices_owner_id",
		Columns: []string{"owner_id"},
		Reference: &ast.ForeignKeyRef{
			Table:    "users",
			Column:   "id",
			OnDelete: ast.Cascade,
			OnUpdate: ast.Cascade,
			Name:     "fk_invoices_owner_id",
		},
	})

	// the Go type and fake data follow the integer NOT NULL column
	c.Assert(fieldspec.ForeignKeyType, qt.Equals, fieldspec.Integer{}.NativeType())
	c.Assert(fieldspec.ForeignKeyFakeData(), qt.DeepEquals, fieldspec.Integer{}.FakeData())
}

func TestString_ZeroLengthIsUnbounded(t *testing.T) {
	c := qt.New(t)

	fields, err := fieldspec.Parse([]string{"code:string0!"})
	c.Assert(err, qt.IsNil)
	col := fields[0].(fieldspec.Column)

	c.Assert(col.String(), qt.Equals, "code:string0!")
	c.Assert(col.ColumnDefinition(), qt.DeepEquals, ast.NewColumn("code", ast.NewDataType(ast.TypeVarchar)).SetNotNull())

	rule := col.Type.ValidationRule()
	c.Assert(rule.Tag(), qt.Equals, "min=1")
	c.Assert(col.Type.FakeData().Code, qt.Equals, "gofakeit.Name()")
	c.Assert(rule.Check("Ada Lovelace"), qt.IsNil)
}
