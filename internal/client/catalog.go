package client

import "dbkeeper/internal/dialect"

// catalog supplies the introspection SQL for one backend family. An empty
// query means the family has no such object and the client returns an empty
// result. Row shapes:
//
//	tables, views:  schema, name
//	routines:       schema, name, type, return type
//	columns:        name, type, nullable (YES/Y), default, ordinal, comment
//	indexes:        index, unique (0/1), primary (0/1), column, ASC|DESC
//	triggers:       name, timing, event, action
//	foreign keys:   constraint, schema, table, column, ref schema, ref table, ref column, on update, on delete
//	primary keys:   column, position
//	create script:  any columns, the DDL last
type catalog interface {
	VersionQuery() string
	DefaultSchemaQuery() string
	GetTablesQuery(schema string) (string, []any)
	GetViewsQuery(schema string) (string, []any)
	GetRoutinesQuery(schema string) (string, []any)
	GetColumnsQuery(schema, table string) (string, []any)
	GetIndexesQuery(schema, table string) (string, []any)
	GetTriggersQuery(schema, table string) (string, []any)
	GetForeignKeysQuery(schema, table string) (string, []any)
	GetPrimaryKeysQuery(schema, table string) (string, []any)
	GetSchemasQuery() string
	GetDatabasesQuery() string
	GetCreateScriptQuery(schema, table string) (string, []any)
}

func catalogFor(d *dialect.Data) catalog {
	switch d.Dialect {
	case dialect.Postgres, dialect.CockroachDB, dialect.Redshift:
		return &postgresCatalog{}
	case dialect.MySQL, dialect.MariaDB:
		return &mysqlCatalog{data: d}
	case dialect.SQLServer:
		return &mssqlCatalog{}
	case dialect.Oracle:
		return &oracleCatalog{}
	case dialect.SQLite:
		return &sqliteCatalog{}
	}
	return &genericCatalog{}
}

func params(values ...any) []any { return values }

// genericCatalog reads the ANSI information_schema with ? placeholders and
// reports nothing beyond tables, views and columns.
type genericCatalog struct{}

func (genericCatalog) VersionQuery() string       { return "" }
func (genericCatalog) DefaultSchemaQuery() string { return "" }

func (genericCatalog) GetTablesQuery(schema string) (string, []any) {
	return `SELECT table_schema, table_name FROM information_schema.tables WHERE table_schema = ? AND table_type = 'BASE TABLE' ORDER BY table_name`, params(schema)
}

func (genericCatalog) GetViewsQuery(schema string) (string, []any) {
	return `SELECT table_schema, table_name FROM information_schema.views WHERE table_schema = ? ORDER BY table_name`, params(schema)
}

func (genericCatalog) GetRoutinesQuery(string) (string, []any) { return "", nil }

func (genericCatalog) GetColumnsQuery(schema, table string) (string, []any) {
	return `SELECT column_name, data_type, is_nullable, column_default, ordinal_position, NULL FROM information_schema.columns WHERE table_schema = ? AND table_name = ? ORDER BY ordinal_position`, params(schema, table)
}

func (genericCatalog) GetIndexesQuery(string, string) (string, []any)      { return "", nil }
func (genericCatalog) GetTriggersQuery(string, string) (string, []any)     { return "", nil }
func (genericCatalog) GetForeignKeysQuery(string, string) (string, []any)  { return "", nil }
func (genericCatalog) GetPrimaryKeysQuery(string, string) (string, []any)  { return "", nil }
func (genericCatalog) GetSchemasQuery() string                             { return "" }
func (genericCatalog) GetDatabasesQuery() string                           { return "" }
func (genericCatalog) GetCreateScriptQuery(string, string) (string, []any) { return "", nil }
