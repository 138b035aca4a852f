package blueprint

import (
	"strconv"
	"strings"

	"github.com/jrey8343/shipwright/core/fieldspec"
	"github.com/jrey8343/shipwright/core/naming"
	"github.com/jrey8343/shipwright/core/platform"
	"github.com/jrey8343/shipwright/core/structs"
)

// Data is the input of every blueprint.
type Data struct {
	// Name is the resource name as given on the command line
	Name      string
	Resource  naming.Resource
	Table     string
	Dialect   string
	Fields    []fieldspec.Field
	Record    []structs.StructField
	Changeset []structs.ChangesetField
	// Imports are the packages the record and changeset types need
	Imports []string
	// TestImports additionally cover the fake data expressions
	TestImports []string
	HasID       bool
	IDType      string
	// HasForeignKeys is set when a field references another table
	HasForeignKeys bool
	// UUIDID is set when ids are generated by the application
	UUIDID bool
	// MissingID is an id literal that parses but matches no row
	MissingID string
	// Queries is nil when the record has no id or the dialect cannot
	// return rows from writes
	Queries   *Queries
	Packages  Packages
	Migration Migration
}

// Packages locates the generated packages relative to each other.
type Packages struct {
	Entities    string
	Views       string
	Controllers string
	// MigrationsDir and TemplatesDir are relative to the controllers package
	MigrationsDir string
	TemplatesDir  string
}

// Migration is the input of the migration blueprints.
type Migration struct {
	Name    string
	UpSQL   string
	DownSQL string
}

// Queries are the SQL statements of an entity store, with the Go
// expressions bound to their placeholders.
type Queries struct {
	Columns    string
	SelectAll  string
	SelectOne  string
	Insert     string
	InsertArgs []string
	// Update is empty when the changeset has no fields
	Update     string
	UpdateArgs []string
	Delete     string
}

// NewData compiles the blueprint input for the resource name with the given
// fields. Packages and Migration are left for the caller.
func NewData(name string, fields []fieldspec.Field, dialect string) *Data {
	resource := naming.NewResource(name)
	record, changeset := structs.EmitFields(fields)
	d := &Data{
		Name:        name,
		Resource:    resource,
		Table:       resource.Plural,
		Dialect:     dialect,
		Fields:      fields,
		Record:      record,
		Changeset:   changeset,
		Imports:     structs.Imports(record, changeset, false),
		TestImports: structs.Imports(record, changeset, true),
	}

	for _, f := range fields {
		if _, ok := f.(fieldspec.ForeignKey); ok {
			d.HasForeignKeys = true
		}
	}

	if idType, ok := structs.IDType(record); ok {
		d.HasID = true
		d.IDType = idType.Name
		switch idType.Name {
		case "uuid.UUID":
			d.UUIDID = true
			d.MissingID = "00000000-0000-0000-0000-000000000000"
		case "int64", "sql.NullInt64":
			d.MissingID = "0"
		default:
			d.MissingID = "missing"
		}
		d.Queries = newQueries(dialect, d.Table, record, changeset, idType.Name)
	}
	return d
}

// supportsReturning lists the dialects whose INSERT, UPDATE and DELETE
// statements can return the written row.
var supportsReturning = map[string]bool{
	platform.SQLite:   true,
	platform.Postgres: true,
}

// newQueries builds the store statements. The id is never part of the
// changeset: uuid ids are generated by the application and integer ids
// take the next value after the largest stored id.
func newQueries(dialect, table string, record []structs.StructField, changeset []structs.ChangesetField, idType string) *Queries {
	if !supportsReturning[dialect] {
		return nil
	}

	n := 0
	placeholder := func() string {
		n++
		if dialect == platform.Postgres {
			return "$" + strconv.Itoa(n)
		}
		return "?"
	}

	columns := make([]string, len(record))
	for i, f := range record {
		columns[i] = quote(f.Name)
	}
	cols := strings.Join(columns, ", ")
	from := " FROM " + quote(table)
	idEquals := " WHERE " + quote(structs.IDColumn) + " = "
	returning := " RETURNING " + cols

	q := &Queries{
		Columns:   cols,
		SelectAll: "SELECT " + cols + from + " ORDER BY " + quote(structs.IDColumn),
	}

	n = 0
	q.SelectOne = "SELECT " + cols + from + idEquals + placeholder()

	n = 0
	var insertCols, insertVals []string
	switch idType {
	case "uuid.UUID":
		insertCols = append(insertCols, quote(structs.IDColumn))
		insertVals = append(insertVals, placeholder())
		q.InsertArgs = append(q.InsertArgs, "entity.NewID()")
	case "int64", "sql.NullInt64":
		insertCols = append(insertCols, quote(structs.IDColumn))
		insertVals = append(insertVals, "(SELECT COALESCE(MAX("+quote(structs.IDColumn)+"), 0) + 1"+from+")")
	}
	for _, f := range changeset {
		insertCols = append(insertCols, quote(f.Name))
		insertVals = append(insertVals, placeholder())
		q.InsertArgs = append(q.InsertArgs, "changeset."+f.GoName())
	}
	if len(insertCols) == 0 {
		q.Insert = "INSERT INTO " + quote(table) + " DEFAULT VALUES" + returning
	} else {
		q.Insert = "INSERT INTO " + quote(table) + " (" + strings.Join(insertCols, ", ") +
			") VALUES (" + strings.Join(insertVals, ", ") + ")" + returning
	}

	n = 0
	if len(changeset) > 0 {
		sets := make([]string, len(changeset))
		for i, f := range changeset {
			sets[i] = quote(f.Name) + " = " + placeholder()
			q.UpdateArgs = append(q.UpdateArgs, "changeset."+f.GoName())
		}
		q.Update = "UPDATE " + quote(table) + " SET " + strings.Join(sets, ", ") + idEquals + placeholder() + returning
		q.UpdateArgs = append(q.UpdateArgs, "id")
	}

	n = 0
	q.Delete = "DELETE" + from + idEquals + placeholder() + returning
	return q
}

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
