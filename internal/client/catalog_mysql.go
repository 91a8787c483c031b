package client

import "dbkeeper/internal/dialect"

// mysqlCatalog serves MySQL and MariaDB. A MySQL "schema" is a database.
type mysqlCatalog struct {
	data *dialect.Data
}

func (mysqlCatalog) VersionQuery() string       { return `SELECT VERSION()` }
func (mysqlCatalog) DefaultSchemaQuery() string { return `SELECT DATABASE()` }

func (mysqlCatalog) GetTablesQuery(schema string) (string, []any) {
	return `SELECT TABLE_SCHEMA, TABLE_NAME FROM information_schema.TABLES WHERE TABLE_SCHEMA = ? AND TABLE_TYPE = 'BASE TABLE' ORDER BY TABLE_NAME`, params(schema)
}

func (mysqlCatalog) GetViewsQuery(schema string) (string, []any) {
	return `SELECT TABLE_SCHEMA, TABLE_NAME FROM information_schema.TABLES WHERE TABLE_SCHEMA = ? AND TABLE_TYPE = 'VIEW' ORDER BY TABLE_NAME`, params(schema)
}

func (mysqlCatalog) GetRoutinesQuery(schema string) (string, []any) {
	return `SELECT ROUTINE_SCHEMA, ROUTINE_NAME, ROUTINE_TYPE, DTD_IDENTIFIER FROM information_schema.ROUTINES WHERE ROUTINE_SCHEMA = ? ORDER BY ROUTINE_NAME`, params(schema)
}

func (mysqlCatalog) GetColumnsQuery(schema, table string) (string, []any) {
	return `SELECT COLUMN_NAME, COLUMN_TYPE, IS_NULLABLE, COLUMN_DEFAULT, ORDINAL_POSITION, NULLIF(COLUMN_COMMENT, '') FROM information_schema.COLUMNS WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ? ORDER BY ORDINAL_POSITION`, params(schema, table)
}

func (mysqlCatalog) GetIndexesQuery(schema, table string) (string, []any) {
	return `SELECT INDEX_NAME, CASE WHEN NON_UNIQUE = 0 THEN 1 ELSE 0 END, CASE WHEN INDEX_NAME = 'PRIMARY' THEN 1 ELSE 0 END, COLUMN_NAME, CASE WHEN COLLATION = 'D' THEN 'DESC' ELSE 'ASC' END FROM information_schema.STATISTICS WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ? ORDER BY INDEX_NAME, SEQ_IN_INDEX`, params(schema, table)
}

func (mysqlCatalog) GetTriggersQuery(schema, table string) (string, []any) {
	return `SELECT TRIGGER_NAME, ACTION_TIMING, EVENT_MANIPULATION, ACTION_STATEMENT FROM information_schema.TRIGGERS WHERE EVENT_OBJECT_SCHEMA = ? AND EVENT_OBJECT_TABLE = ? ORDER BY TRIGGER_NAME`, params(schema, table)
}

func (mysqlCatalog) GetForeignKeysQuery(schema, table string) (string, []any) {
	return `SELECT
    k.CONSTRAINT_NAME,
    k.TABLE_SCHEMA,
    k.TABLE_NAME,
    k.COLUMN_NAME,
    k.REFERENCED_TABLE_SCHEMA,
    k.REFERENCED_TABLE_NAME,
    k.REFERENCED_COLUMN_NAME,
    r.UPDATE_RULE,
    r.DELETE_RULE
FROM information_schema.KEY_COLUMN_USAGE k
JOIN information_schema.REFERENTIAL_CONSTRAINTS r
    ON r.CONSTRAINT_SCHEMA = k.CONSTRAINT_SCHEMA AND r.CONSTRAINT_NAME = k.CONSTRAINT_NAME
WHERE k.TABLE_SCHEMA = ? AND k.TABLE_NAME = ? AND k.REFERENCED_TABLE_NAME IS NOT NULL
ORDER BY k.CONSTRAINT_NAME, k.ORDINAL_POSITION`, params(schema, table)
}

func (mysqlCatalog) GetPrimaryKeysQuery(schema, table string) (string, []any) {
	return `SELECT COLUMN_NAME, ORDINAL_POSITION FROM information_schema.KEY_COLUMN_USAGE WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ? AND CONSTRAINT_NAME = 'PRIMARY' ORDER BY ORDINAL_POSITION`, params(schema, table)
}

func (mysqlCatalog) GetSchemasQuery() string { return "" }

func (mysqlCatalog) GetDatabasesQuery() string {
	return `SELECT SCHEMA_NAME FROM information_schema.SCHEMATA ORDER BY SCHEMA_NAME`
}

func (c mysqlCatalog) GetCreateScriptQuery(schema, table string) (string, []any) {
	return "SHOW CREATE TABLE " + c.data.QualifiedName(table, schema), nil
}
