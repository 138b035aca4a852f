package ddl_test

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	_ "github.com/mattn/go-sqlite3"

	"github.com/jrey8343/shipwright/core/ddl"
	"github.com/jrey8343/shipwright/core/fieldspec"
	"github.com/jrey8343/shipwright/core/platform"
)

func mustParse(c *qt.C, specs ...string) []fieldspec.Field {
	fields, err := fieldspec.Parse(specs)
	c.Assert(err, qt.IsNil)
	return fields
}

func TestEmitCreateTable(t *testing.T) {
	c := qt.New(t)

	fields := mustParse(c, "id:uuid!^", "title:string256!", "notes:text", "owner:references=users(id)")

	c.Assert(ddl.EmitCreateTable("invoices", fields), qt.Equals, `CREATE TABLE IF NOT EXISTS "invoices" (
  "id" uuid_text NOT NULL UNIQUE,
  "title" varchar(256) NOT NULL,
  "notes" text,
  "owner_id" integer NOT NULL,
  FOREIGN KEY ("owner_id") REFERENCES "users" ("id") ON DELETE CASCADE ON UPDATE CASCADE
);
`)
}

func TestEmitCreateTable_IsDeterministic(t *testing.T) {
	c := qt.New(t)

	fields := mustParse(c, "name:string!", "owner:references", "meta:json", "at:datetime")

	c.Assert(ddl.EmitCreateTable("things", fields), qt.Equals, ddl.EmitCreateTable("things", fields))
}

func TestEmitCreateTable_DatesAreNeverNull(t *testing.T) {
	c := qt.New(t)

	sql := ddl.EmitCreateTable("events", mustParse(c, "d:date", "dt:datetime"))

	c.Assert(sql, qt.Contains, `"d" date NOT NULL,`)
	c.Assert(sql, qt.Contains, `"dt" datetime NOT NULL DEFAULT CURRENT_TIMESTAMP`)
}

func TestEmitCreateTable_NoImplicitID(t *testing.T) {
	c := qt.New(t)

	sql := ddl.EmitCreateTable("tags", mustParse(c, "label:string"))

	c.Assert(strings.Contains(sql, `"id"`), qt.IsFalse)
}

func TestEmitCreateTable_ExecutesOnSQLite(t *testing.T) {
	c := qt.New(t)

	db, err := sql.Open("sqlite3", filepath.Join(c.TempDir(), "test.db"))
	c.Assert(err, qt.IsNil)
	c.Cleanup(func() { _ = db.Close() })

	users := ddl.EmitCreateTable("users", mustParse(c, "id:int!^", "email:string320!^"))
	_, err = db.Exec(users)
	c.Assert(err, qt.IsNil)

	specs := []string{
		"id:uuid!^", "title:string256!", "body:text", "views:bigint", "rank:smallint!",
		"port:unsigned", "ratio:float", "lat:double!", "price:decimal", "active:bool!",
		"due:date", "published_at:datetime", "meta:json", "payload:jsonb^", "owner:references=users(id)",
	}
	invoices := ddl.EmitCreateTable("invoices", mustParse(c, specs...))
	_, err = db.Exec(invoices)
	c.Assert(err, qt.IsNil)

	// IF NOT EXISTS makes the statement safe to repeat
	_, err = db.Exec(invoices)
	c.Assert(err, qt.IsNil)

	rows, err := db.Query(`SELECT name FROM pragma_table_info('invoices') ORDER BY cid`)
	c.Assert(err, qt.IsNil)
	defer rows.Close()
	var columns []string
	for rows.Next() {
		var name string
		c.Assert(rows.Scan(&name), qt.IsNil)
		columns = append(columns, name)
	}
	c.Assert(rows.Err(), qt.IsNil)
	c.Assert(columns, qt.DeepEquals, []string{
		"id", "title", "body", "views", "rank", "port", "ratio", "lat", "price", "active",
		"due", "published_at", "meta", "payload", "owner_id",
	})
}

func TestEmitCreateTable_DatesScanIntoTime(t *testing.T) {
	c := qt.New(t)

	db, err := sql.Open("sqlite3", filepath.Join(c.TempDir(), "test.db"))
	c.Assert(err, qt.IsNil)
	c.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(ddl.EmitCreateTable("events", mustParse(c, "id:int!^", "due:date", "at:datetime")))
	c.Assert(err, qt.IsNil)

	due := time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC)
	at := time.Date(2024, 6, 21, 15, 4, 5, 0, time.UTC)
	_, err = db.Exec(`INSERT INTO "events" ("id", "due", "at") VALUES (?, ?, ?)`, 1, due, at)
	c.Assert(err, qt.IsNil)
	_, err = db.Exec(`INSERT INTO "events" ("id", "due") VALUES (?, ?)`, 2, due)
	c.Assert(err, qt.IsNil)

	var gotDue, gotAt time.Time
	err = db.QueryRow(`SELECT "due", "at" FROM "events" WHERE "id" = ?`, 1).Scan(&gotDue, &gotAt)
	c.Assert(err, qt.IsNil)
	c.Assert(gotDue.Equal(due), qt.IsTrue, qt.Commentf("got %v", gotDue))
	c.Assert(gotAt.Equal(at), qt.IsTrue, qt.Commentf("got %v", gotAt))

	// the CURRENT_TIMESTAMP default scans too
	err = db.QueryRow(`SELECT "at" FROM "events" WHERE "id" = ?`, 2).Scan(&gotAt)
	c.Assert(err, qt.IsNil)
	c.Assert(gotAt.IsZero(), qt.IsFalse)
}

func TestEmitCreateTableFor(t *testing.T) {
	c := qt.New(t)

	fields := mustParse(c, "title:string!", "owner:references")

	sql, err := ddl.EmitCreateTableFor(platform.Postgres, "posts", fields)
	c.Assert(err, qt.IsNil)
	c.Assert(sql, qt.Equals, `CREATE TABLE IF NOT EXISTS "posts" (
  "title" varchar NOT NULL,
  "owner_id" integer NOT NULL,
  CONSTRAINT "fk_posts_owner_id" FOREIGN KEY ("owner_id") REFERENCES "owners" ("id") ON DELETE CASCADE ON UPDATE CASCADE
);
`)

	sqliteSQL, err := ddl.EmitCreateTableFor("sqlite3", "posts", fields)
	c.Assert(err, qt.IsNil)
	c.Assert(sqliteSQL, qt.Equals, ddl.EmitCreateTable("posts", fields))

	_, err = ddl.EmitCreateTableFor("oracle", "posts", fields)
	c.Assert(err, qt.ErrorMatches, `failed to render create table posts: unsupported dialect: "oracle"`)
}

func TestEmitDropTable(t *testing.T) {
	c := qt.New(t)

	sql, err := ddl.EmitDropTable(platform.MySQL, "posts")
	c.Assert(err, qt.IsNil)
	c.Assert(sql, qt.Equals, "DROP TABLE IF EXISTS `posts`;\n")
}
