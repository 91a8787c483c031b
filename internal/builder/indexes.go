package builder

import (
	"log/slog"

	"dbkeeper/internal/dberr"
	"dbkeeper/internal/schema"
)

type partitioner interface {
	createPartition(spec schema.CreatePartitionSpec) (string, error)
	detachPartition(name string) (string, error)
	alterPartition(change schema.PartitionItemChange) ([]string, error)
}

// CreateIndexes returns one CREATE INDEX per spec.
func (c *ChangeBuilder) CreateIndexes(table, schemaName string, specs []schema.CreateIndexSpec) (string, error) {
	stmts, err := c.createIndexes(c.variant(table, schemaName), specs)
	if err != nil {
		return "", err
	}
	return joinStatements(stmts), nil
}

// DropIndexes returns one DROP INDEX per spec.
func (c *ChangeBuilder) DropIndexes(table, schemaName string, specs []schema.DropIndexSpec) (string, error) {
	stmts, err := c.dropIndexes(c.variant(table, schemaName), specs)
	if err != nil {
		return "", err
	}
	return joinStatements(stmts), nil
}

// AlterIndexes drops, then creates.
func (c *ChangeBuilder) AlterIndexes(a schema.IndexAlterations) (string, error) {
	if a.Table == "" {
		return "", dberr.Validation("index alterations have no table")
	}
	v := c.variant(a.Table, a.Schema)
	drops, err := c.dropIndexes(v, a.Drops)
	if err != nil {
		return "", err
	}
	creates, err := c.createIndexes(v, a.Additions)
	if err != nil {
		return "", err
	}
	return joinStatements(append(drops, creates...)), nil
}

func (c *ChangeBuilder) createIndexes(v ops, specs []schema.CreateIndexSpec) ([]string, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	if c.data.Disabled.CreateIndex {
		slog.Debug("skipping index creation", "dialect", c.data.Dialect, "count", len(specs))
		return nil, nil
	}
	out := make([]string, 0, len(specs))
	for _, spec := range specs {
		if err := spec.Validate(); err != nil {
			return nil, err
		}
		stmt, err := v.createIndex(spec)
		if err != nil {
			return nil, err
		}
		out = append(out, stmt)
	}
	return out, nil
}

func (c *ChangeBuilder) dropIndexes(v ops, specs []schema.DropIndexSpec) ([]string, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	if c.data.Disabled.CreateIndex {
		slog.Debug("skipping index drops", "dialect", c.data.Dialect, "count", len(specs))
		return nil, nil
	}
	out := make([]string, 0, len(specs))
	for _, spec := range specs {
		if spec.Name == "" {
			return nil, dberr.Validation("drop index without a name")
		}
		stmt, err := v.dropIndex(spec.Name)
		if err != nil {
			return nil, err
		}
		out = append(out, stmt)
	}
	return out, nil
}

// CreateRelations returns one ADD FOREIGN KEY statement per spec.
func (c *ChangeBuilder) CreateRelations(table, schemaName string, specs []schema.CreateRelationSpec) (string, error) {
	stmts, err := c.createRelations(c.variant(table, schemaName), specs)
	if err != nil {
		return "", err
	}
	return joinStatements(stmts), nil
}

// DropRelations returns one DROP statement per foreign key.
func (c *ChangeBuilder) DropRelations(table, schemaName string, specs []schema.DropRelationSpec) (string, error) {
	stmts, err := c.dropRelations(c.variant(table, schemaName), specs)
	if err != nil {
		return "", err
	}
	return joinStatements(stmts), nil
}

// AlterRelations drops, then creates.
func (c *ChangeBuilder) AlterRelations(a schema.RelationAlterations) (string, error) {
	if a.Table == "" {
		return "", dberr.Validation("relation alterations have no table")
	}
	v := c.variant(a.Table, a.Schema)
	drops, err := c.dropRelations(v, a.Drops)
	if err != nil {
		return "", err
	}
	creates, err := c.createRelations(v, a.Additions)
	if err != nil {
		return "", err
	}
	return joinStatements(append(drops, creates...)), nil
}

func (c *ChangeBuilder) createRelations(v ops, specs []schema.CreateRelationSpec) ([]string, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	if c.data.Disabled.Relations {
		slog.Debug("skipping relation creation", "dialect", c.data.Dialect, "count", len(specs))
		return nil, nil
	}
	out := make([]string, 0, len(specs))
	for _, spec := range specs {
		if err := spec.Validate(); err != nil {
			return nil, err
		}
		stmt, err := v.createRelation(spec)
		if err != nil {
			return nil, err
		}
		out = append(out, stmt)
	}
	return out, nil
}

func (c *ChangeBuilder) dropRelations(v ops, specs []schema.DropRelationSpec) ([]string, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	if c.data.Disabled.Relations {
		slog.Debug("skipping relation drops", "dialect", c.data.Dialect, "count", len(specs))
		return nil, nil
	}
	out := make([]string, 0, len(specs))
	for _, spec := range specs {
		if spec.ConstraintName == "" {
			return nil, dberr.Validation("drop relation without a constraint name")
		}
		stmt, err := v.dropRelation(spec.ConstraintName)
		if err != nil {
			return nil, err
		}
		out = append(out, stmt)
	}
	return out, nil
}

// AlterPartitions detaches, re-bounds, then creates partitions of a
// partitioned parent table.
func (c *ChangeBuilder) AlterPartitions(spec schema.AlterPartitionsSpec) (string, error) {
	if spec.Table == "" {
		return "", dberr.Validation("partition alterations have no table")
	}
	if c.data.Disabled.Partitions {
		slog.Debug("skipping partition changes", "dialect", c.data.Dialect, "table", spec.Table)
		return "", nil
	}
	p, ok := c.variant(spec.Table, spec.Schema).(partitioner)
	if !ok {
		return "", dberr.NotSupported(string(c.data.Dialect), "partitions").With("table", spec.Table)
	}

	var stmts []string
	for _, name := range spec.Detaches {
		stmt, err := p.detachPartition(name)
		if err != nil {
			return "", err
		}
		stmts = append(stmts, stmt)
	}
	for _, change := range spec.Alterations {
		out, err := p.alterPartition(change)
		if err != nil {
			return "", err
		}
		stmts = append(stmts, out...)
	}
	for _, add := range spec.Adds {
		stmt, err := p.createPartition(add)
		if err != nil {
			return "", err
		}
		stmts = append(stmts, stmt)
	}
	return joinStatements(stmts), nil
}
