package schema

import (
	"dbkeeper/internal/dberr"
)

// Validate checks the spec before any SQL is built.
func (s *AlterTableSpec) Validate() error {
	if s.Table == "" {
		return dberr.Validation("alter table spec has no table")
	}

	added := make(map[string]bool, len(s.Adds))
	for i, a := range s.Adds {
		if err := a.Validate(); err != nil {
			return err.With("table", s.Table).With("add", i)
		}
		if added[a.ColumnName] {
			return dberr.Validation("column %q is added twice", a.ColumnName).With("table", s.Table)
		}
		added[a.ColumnName] = true
	}

	for _, d := range s.Drops {
		if d == "" {
			return dberr.Validation("drop with empty column name").With("table", s.Table)
		}
		if added[d] {
			return dberr.Validation("column %q is both added and dropped", d).With("table", s.Table)
		}
	}

	for _, a := range s.Alterations {
		if a.ColumnName == "" {
			return dberr.Validation("alteration with empty column name").With("table", s.Table)
		}
		if !a.ChangeType.Valid() {
			return dberr.Validation("unknown change type %q", a.ChangeType).With("column", a.ColumnName)
		}
		if added[a.ColumnName] {
			return dberr.Validation("column %q is both added and altered", a.ColumnName).With("table", s.Table)
		}
		switch a.ChangeType {
		case ChangeColumnName, ChangeDataType:
			if a.IsNull() {
				return dberr.Validation("%s change for %q needs a value", a.ChangeType, a.ColumnName).With("table", s.Table)
			}
		}
	}
	return nil
}

// Validate checks that a column has a name and a type.
func (i SchemaItem) Validate() *dberr.Error {
	if i.ColumnName == "" {
		return dberr.Validation("column has no name")
	}
	if i.DataType == "" {
		return dberr.Validation("column %q has no data type", i.ColumnName)
	}
	return nil
}

// Validate checks the index has at least one named column.
func (s CreateIndexSpec) Validate() error {
	if len(s.Columns) == 0 {
		return dberr.Validation("index %q has no columns", s.Name)
	}
	for _, c := range s.Columns {
		if c.Name == "" {
			return dberr.Validation("index %q has an unnamed column", s.Name)
		}
		if c.Order != "" && c.Order != Asc && c.Order != Desc {
			return dberr.Validation("index %q has invalid order %q", s.Name, c.Order)
		}
	}
	return nil
}

// Validate checks both ends of the relation are named.
func (s CreateRelationSpec) Validate() error {
	if s.FromColumn == "" || s.ToTable == "" || s.ToColumn == "" {
		return dberr.Validation("relation needs fromColumn, toTable and toColumn").
			With("constraint", s.ConstraintName)
	}
	return nil
}

// Validate checks the table has a name and at least one valid column.
func (s *Schema) Validate() error {
	if s.Name == "" {
		return dberr.Validation("schema has no table name")
	}
	if len(s.Columns) == 0 {
		return dberr.Validation("table %q has no columns", s.Name)
	}
	seen := make(map[string]bool, len(s.Columns))
	for _, c := range s.Columns {
		if err := c.Validate(); err != nil {
			return err.With("table", s.Name)
		}
		if seen[c.ColumnName] {
			return dberr.Validation("column %q is defined twice", c.ColumnName).With("table", s.Name)
		}
		seen[c.ColumnName] = true
	}
	return nil
}
