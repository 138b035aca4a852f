package postgres_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/jrey8343/shipwright/core/ast"
	"github.com/jrey8343/shipwright/core/renderer/dialects/postgres"
)

func TestRenderer_CreateTable(t *testing.T) {
	c := qt.New(t)

	table := ast.NewCreateTable("orders").
		SetIfNotExists().
		AddColumn(ast.NewColumn("id", ast.NewDataType(ast.TypeUUID)).SetPrimary()).
		AddColumn(ast.NewColumn("total", ast.NewDataType(ast.TypeDecimal)).SetNotNull()).
		AddColumn(ast.NewColumn("quantity", ast.NewDataType(ast.TypeSmallInt))).
		AddColumn(ast.NewColumn("payload", ast.NewDataType(ast.TypeJSONB)).SetNotNull()).
		AddColumn(ast.NewColumn("customer_id", ast.NewDataType(ast.TypeInteger)).SetNotNull()).
		AddConstraint(ast.NewForeignKeyConstraint("fk_orders_customer_id", []string{"customer_id"}, &ast.ForeignKeyRef{
			Table:    "customers",
			Column:   "id",
			OnDelete: ast.Cascade,
			OnUpdate: ast.Cascade,
		}))

	sql, err := postgres.New().Render(table)
	c.Assert(err, qt.IsNil)
	c.Assert(sql, qt.Equals, `CREATE TABLE IF NOT EXISTS "orders" (
  "id" uuid PRIMARY KEY,
  "total" numeric NOT NULL,
  "quantity" smallint,
  "payload" jsonb NOT NULL,
  "customer_id" integer NOT NULL,
  CONSTRAINT "fk_orders_customer_id" FOREIGN KEY ("customer_id") REFERENCES "customers" ("id") ON DELETE CASCADE ON UPDATE CASCADE
);
`)
}

func TestRenderer_DropTableCascade(t *testing.T) {
	c := qt.New(t)

	sql, err := postgres.New().Render(ast.NewDropTable("orders").SetIfExists().SetCascade().SetComment("rollback"))
	c.Assert(err, qt.IsNil)
	c.Assert(sql, qt.Equals, "-- rollback\nDROP TABLE IF EXISTS \"orders\" CASCADE;\n")
}

func TestTypeName_Unsigned(t *testing.T) {
	c := qt.New(t)

	name, err := postgres.TypeName(ast.NewDataType(ast.TypeUnsigned))
	c.Assert(err, qt.IsNil)
	c.Assert(name, qt.Equals, "bigint")
}
