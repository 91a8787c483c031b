package builder

import (
	"dbkeeper/internal/dberr"
	"dbkeeper/internal/schema"
)

// postgresOps serves Postgres, CockroachDB and Redshift. The ANSI clauses in
// base are already Postgres syntax; partitions are the addition.
type postgresOps struct {
	*base
}

func (p *postgresOps) createPartition(spec schema.CreatePartitionSpec) (string, error) {
	if spec.Name == "" || spec.Expression == "" {
		return "", dberr.Validation("partition needs a name and a bound expression").With("table", p.table)
	}
	return "CREATE TABLE " + p.data.QualifiedName(spec.Name, p.schemaName) +
		" PARTITION OF " + p.tableName() +
		" FOR VALUES " + p.data.WrapLiteral(spec.Expression), nil
}

func (p *postgresOps) detachPartition(name string) (string, error) {
	return "ALTER TABLE " + p.tableName() + " DETACH PARTITION " + p.data.QualifiedName(name, p.schemaName), nil
}

// alterPartition has no single statement form: the partition is detached
// and attached again with the new bound.
func (p *postgresOps) alterPartition(change schema.PartitionItemChange) ([]string, error) {
	detach, err := p.detachPartition(change.PartitionName)
	if err != nil {
		return nil, err
	}
	attach := "ALTER TABLE " + p.tableName() + " ATTACH PARTITION " +
		p.data.QualifiedName(change.PartitionName, p.schemaName) +
		" FOR VALUES " + p.data.WrapLiteral(change.NewValue)
	return []string{detach, attach}, nil
}
