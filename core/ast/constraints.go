package ast

// NewPrimaryKeyConstraint creates a table-level primary key constraint.
//
// Example:
//
//	// Composite primary key
//	pk := NewPrimaryKeyConstraint("user_id", "role_id")
func NewPrimaryKeyConstraint(columns ...string) *ConstraintNode {
	return &ConstraintNode{
		Type:    PrimaryKeyConstraint,
		Columns: columns,
	}
}

// NewUniqueConstraint creates a table-level unique constraint with a name.
//
// Example:
//
//	unique := NewUniqueConstraint("uk_users_name_company", "name", "company_id")
func NewUniqueConstraint(name string, columns ...string) *ConstraintNode {
	return &ConstraintNode{
		Type:    UniqueConstraint,
		Name:    name,
		Columns: columns,
	}
}

// NewForeignKeyConstraint creates a table-level foreign key constraint.
//
// Renderers that do not support named constraints inside CREATE TABLE
// ignore the name.
//
// Example:
//
//	ref := &ForeignKeyRef{
//		Table:    "users",
//		Column:   "id",
//		OnDelete: Cascade,
//		OnUpdate: Cascade,
//	}
//	fk := NewForeignKeyConstraint("fk_orders_user_id", []string{"user_id"}, ref)
func NewForeignKeyConstraint(name string, columns []string, ref *ForeignKeyRef) *ConstraintNode {
	return &ConstraintNode{
		Type:      ForeignKeyConstraint,
		Name:      name,
		Columns:   columns,
		Reference: ref,
	}
}
