package seed

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"dbkeeper/internal/client"
	"dbkeeper/internal/schema"
)

// Table is one table to fill.
type Table struct {
	Name       string
	Schema     string
	Columns    []Column
	PrimaryKey []string
	// Dependencies are the tables referenced by foreign keys.
	Dependencies []string
}

// Insertable returns the columns a generated row carries.
func (t Table) Insertable() []Column {
	out := make([]Column, 0, len(t.Columns))
	for _, c := range t.Columns {
		if !c.Generated {
			out = append(out, c)
		}
	}
	return out
}

// Catalog is the part of a client Plan reads.
type Catalog interface {
	ListTables(ctx context.Context, schema string) ([]client.TableOrView, error)
	ListTableColumns(ctx context.Context, table, schema string) ([]client.TableColumn, error)
	ListTableIndexes(ctx context.Context, table, schema string) ([]client.TableIndex, error)
	GetTableKeys(ctx context.Context, table, schema string) ([]client.TableKey, error)
	GetPrimaryKeys(ctx context.Context, table, schema string) ([]client.PrimaryKey, error)
}

var _ Catalog = (client.Client)(nil)

// Plan reads the named tables, or every table when names is empty, and
// returns them with referenced tables first.
func Plan(ctx context.Context, c Catalog, schemaName string, names []string) ([]Table, error) {
	all, err := c.ListTables(ctx, schemaName)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[strings.ToLower(n)] = true
	}

	byName := make(map[string]Table)
	var (
		selected  []string
		relations []schema.Relation
	)
	for _, t := range all {
		if len(wanted) > 0 && !wanted[strings.ToLower(t.Name)] {
			continue
		}
		table, err := describe(ctx, c, t.Name, schemaName)
		if err != nil {
			return nil, err
		}
		byName[t.Name] = table
		selected = append(selected, t.Name)
		for _, dep := range table.Dependencies {
			relations = append(relations, schema.Relation{FromTable: t.Name, ToTable: dep})
		}
	}
	if len(wanted) > 0 && len(selected) == 0 {
		return nil, fmt.Errorf("no matching tables found for %v", names)
	}

	out := make([]Table, 0, len(selected))
	for _, n := range schema.DependencyOrder(selected, relations) {
		out = append(out, byName[n])
	}
	return out, nil
}

func describe(ctx context.Context, c Catalog, table, schemaName string) (Table, error) {
	cols, err := c.ListTableColumns(ctx, table, schemaName)
	if err != nil {
		return Table{}, fmt.Errorf("columns of %s: %w", table, err)
	}
	pks, err := c.GetPrimaryKeys(ctx, table, schemaName)
	if err != nil {
		return Table{}, fmt.Errorf("primary key of %s: %w", table, err)
	}
	indexes, err := c.ListTableIndexes(ctx, table, schemaName)
	if err != nil {
		return Table{}, fmt.Errorf("indexes of %s: %w", table, err)
	}
	keys, err := c.GetTableKeys(ctx, table, schemaName)
	if err != nil {
		return Table{}, fmt.Errorf("foreign keys of %s: %w", table, err)
	}

	t := Table{Name: table, Schema: schemaName}
	isPK := make(map[string]bool, len(pks))
	for _, pk := range pks {
		t.PrimaryKey = append(t.PrimaryKey, pk.ColumnName)
		isPK[pk.ColumnName] = true
	}
	unique := make(map[string]bool)
	for _, idx := range indexes {
		if (idx.Unique || idx.Primary) && len(idx.Columns) == 1 {
			unique[idx.Columns[0].Name] = true
		}
	}
	refs := make(map[string]string)
	for _, k := range keys {
		refs[k.FromColumn] = k.ToTable
		if !slices.Contains(t.Dependencies, k.ToTable) {
			t.Dependencies = append(t.Dependencies, k.ToTable)
		}
	}

	for _, col := range cols {
		base, length, enum := ParseType(col.DataType)
		comment := ""
		if col.Comment != nil {
			comment = *col.Comment
		}
		t.Columns = append(t.Columns, Column{
			Name:       col.Name,
			DataType:   base,
			Length:     length,
			Nullable:   col.Nullable,
			Unique:     unique[col.Name] || (len(pks) == 1 && isPK[col.Name]),
			PrimaryKey: isPK[col.Name],
			Generated:  len(pks) == 1 && isPK[col.Name] && generatedKey(base, col.DefaultValue),
			Enum:       enum,
			Meaning:    AnalyzeMeaning(col.Name, comment),
			References: refs[col.Name],
		})
	}
	return t, nil
}

// generatedKey reports whether a single column primary key is filled by
// the database: sequences, identities and integer keys without a default.
func generatedKey(base string, def *string) bool {
	if def != nil {
		d := strings.ToLower(*def)
		return strings.Contains(d, "nextval(") || strings.Contains(d, "identity") || strings.Contains(d, "gen_random_uuid")
	}
	return strings.Contains(base, "int") || strings.Contains(base, "serial")
}
