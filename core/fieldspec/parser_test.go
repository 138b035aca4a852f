package fieldspec_test

import (
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/jrey8343/shipwright/core/fieldspec"
)

func u32(n uint32) *uint32 {
	return &n
}

func TestParseOne(t *testing.T) {
	tests := []struct {
		name     string
		spec     string
		expected fieldspec.Field
	}{
		{
			name:     "not null unique int",
			spec:     "age:int!^",
			expected: fieldspec.Column{Name: "age", Type: fieldspec.Integer{Nullable: false, Unique: true, Size: fieldspec.SizeRegular}},
		},
		{
			name:     "string with length",
			spec:     "bio:string500",
			expected: fieldspec.Column{Name: "bio", Type: fieldspec.String{Nullable: true, Length: u32(500)}},
		},
		{
			name:     "plain string",
			spec:     "title:string",
			expected: fieldspec.Column{Name: "title", Type: fieldspec.String{Nullable: true}},
		},
		{
			name:     "text ignores length",
			spec:     "body:text2000!",
			expected: fieldspec.Column{Name: "body", Type: fieldspec.String{Text: true}},
		},
		{
			name:     "digits anywhere form the length",
			spec:     "code:string1!2^",
			expected: fieldspec.Column{Name: "code", Type: fieldspec.String{Unique: true, Length: u32(12)}},
		},
		{
			name:     "unknown modifier characters are ignored",
			spec:     "title:string?~!",
			expected: fieldspec.Column{Name: "title", Type: fieldspec.String{}},
		},
		{
			name:     "length overflowing 32 bits is dropped",
			spec:     "title:string99999999999",
			expected: fieldspec.Column{Name: "title", Type: fieldspec.String{Nullable: true}},
		},
		{
			name:     "uuid",
			spec:     "token:uuid!^",
			expected: fieldspec.Column{Name: "token", Type: fieldspec.UUID{Unique: true}},
		},
		{
			name:     "bigint",
			spec:     "views:bigint",
			expected: fieldspec.Column{Name: "views", Type: fieldspec.Integer{Nullable: true, Size: fieldspec.SizeBig}},
		},
		{
			name:     "smallint",
			spec:     "rank:smallint!",
			expected: fieldspec.Column{Name: "rank", Type: fieldspec.Integer{Size: fieldspec.SizeSmall}},
		},
		{
			name:     "unsigned",
			spec:     "port:unsigned",
			expected: fieldspec.Column{Name: "port", Type: fieldspec.Integer{Nullable: true, Size: fieldspec.SizeUnsigned}},
		},
		{
			name:     "float",
			spec:     "ratio:float",
			expected: fieldspec.Column{Name: "ratio", Type: fieldspec.Float{Nullable: true}},
		},
		{
			name:     "double",
			spec:     "lat:double!",
			expected: fieldspec.Column{Name: "lat", Type: fieldspec.Double{}},
		},
		{
			name:     "decimal",
			spec:     "price:decimal^",
			expected: fieldspec.Column{Name: "price", Type: fieldspec.Decimal{Nullable: true, Unique: true}},
		},
		{
			name:     "bool drops unique",
			spec:     "active:bool!^",
			expected: fieldspec.Column{Name: "active", Type: fieldspec.Boolean{}},
		},
		{
			name:     "date",
			spec:     "due:date",
			expected: fieldspec.Column{Name: "due", Type: fieldspec.Date{}},
		},
		{
			name:     "datetime",
			spec:     "published_at:datetime^",
			expected: fieldspec.Column{Name: "published_at", Type: fieldspec.DateTime{}},
		},
		{
			name:     "json",
			spec:     "meta:json^",
			expected: fieldspec.Column{Name: "meta", Type: fieldspec.JSON{Unique: true}},
		},
		{
			name:     "jsonb",
			spec:     "payload:jsonb",
			expected: fieldspec.Column{Name: "payload", Type: fieldspec.JSON{Binary: true}},
		},
		{
			name: "explicit foreign key",
			spec: "owner:references=users(id)",
			expected: fieldspec.ForeignKey{
				LocalKey:         "owner_id",
				ReferencesTable:  "users",
				ReferencesColumn: "id",
			},
		},
		{
			name: "default foreign key pluralizes the name",
			spec: "owner:references",
			expected: fieldspec.ForeignKey{
				LocalKey:         "owner_id",
				ReferencesTable:  "owners",
				ReferencesColumn: "id",
			},
		},
		{
			name: "default foreign key with irregular plural",
			spec: "category:references",
			expected: fieldspec.ForeignKey{
				LocalKey:         "category_id",
				ReferencesTable:  "categories",
				ReferencesColumn: "id",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)

			field, err := fieldspec.ParseOne(tt.spec)
			c.Assert(err, qt.IsNil)
			c.Assert(field, qt.DeepEquals, tt.expected)
		})
	}
}

func TestParseOne_Errors(t *testing.T) {
	tests := []struct {
		spec     string
		expected error
	}{
		{"", fieldspec.ErrMissingColumnName},
		{":string", fieldspec.ErrMissingColumnName},
		{"title", fieldspec.ErrMissingTypeSpec},
		{"foo:frobnicate", fieldspec.ErrInvalidType},
		{"foo:", fieldspec.ErrInvalidType},
		{"foo:String", fieldspec.ErrInvalidType},
		{"foo:!string", fieldspec.ErrInvalidType},
		{"owner:referencesX", fieldspec.ErrInvalidType},
		{"owner:references=users", fieldspec.ErrInvalidForeignKeyFormat},
		{"owner:references=users(id", fieldspec.ErrInvalidForeignKeyFormat},
		{"owner:references=(id)", fieldspec.ErrInvalidForeignKeyFormat},
		{"owner:references=users()", fieldspec.ErrInvalidForeignKeyFormat},
		{"owner:references=users(id)x", fieldspec.ErrInvalidForeignKeyFormat},
		{"owner:references=", fieldspec.ErrInvalidForeignKeyFormat},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			c := qt.New(t)

			field, err := fieldspec.ParseOne(tt.spec)
			c.Assert(field, qt.IsNil)
			c.Assert(err, qt.ErrorIs, tt.expected)

			var parseErr *fieldspec.ParseError
			c.Assert(errors.As(err, &parseErr), qt.IsTrue)
			c.Assert(parseErr.Spec, qt.Equals, tt.spec)
		})
	}
}

func TestParse(t *testing.T) {
	t.Run("preserves input order", func(t *testing.T) {
		c := qt.New(t)

		fields, err := fieldspec.Parse([]string{"title:string!", "owner:references", "due:date"})
		c.Assert(err, qt.IsNil)
		c.Assert(fields, qt.HasLen, 3)
		c.Assert(fields[0].ColumnName(), qt.Equals, "title")
		c.Assert(fields[1].ColumnName(), qt.Equals, "owner_id")
		c.Assert(fields[2].ColumnName(), qt.Equals, "due")
	})

	t.Run("empty input", func(t *testing.T) {
		c := qt.New(t)

		fields, err := fieldspec.Parse(nil)
		c.Assert(err, qt.IsNil)
		c.Assert(fields, qt.HasLen, 0)
	})

	t.Run("fails fast on the first invalid spec", func(t *testing.T) {
		c := qt.New(t)

		fields, err := fieldspec.Parse([]string{"title:string", "foo:frobnicate", "bar"})
		c.Assert(fields, qt.IsNil)
		c.Assert(err, qt.ErrorIs, fieldspec.ErrInvalidType)
		c.Assert(err, qt.ErrorMatches, `field "foo:frobnicate": invalid type`)
	})
}

func TestField_String(t *testing.T) {
	tests := []struct {
		spec      string
		canonical string
	}{
		{"age:int!^", "age:int!^"},
		{"bio:string500", "bio:string500"},
		{"body:text2000!", "body:text!"},
		{"title:string^!", "title:string!^"},
		{"active:bool!^", "active:bool!"},
		{"due:date!", "due:date"},
		{"meta:jsonb!^", "meta:jsonb^"},
		{"owner:references", "owner:references=owners(id)"},
		{"author:references=users(uuid)", "author:references=users(uuid)"},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			c := qt.New(t)

			field, err := fieldspec.ParseOne(tt.spec)
			c.Assert(err, qt.IsNil)
			c.Assert(field.String(), qt.Equals, tt.canonical)

			again, err := fieldspec.ParseOne(field.String())
			c.Assert(err, qt.IsNil)
			c.Assert(again, qt.DeepEquals, field)
		})
	}
}

func TestKeywords(t *testing.T) {
	c := qt.New(t)

	for _, keyword := range fieldspec.Keywords() {
		field, err := fieldspec.ParseOne("x:" + keyword)
		c.Assert(err, qt.IsNil, qt.Commentf("keyword %s", keyword))
		c.Assert(field.(fieldspec.Column).Type.Keyword(), qt.Equals, keyword)
	}
}
