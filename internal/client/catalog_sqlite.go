package client

// sqliteCatalog uses sqlite_master and the table-valued pragma functions.
// Everything lives in the "main" schema.
type sqliteCatalog struct{}

func (sqliteCatalog) VersionQuery() string       { return `SELECT sqlite_version()` }
func (sqliteCatalog) DefaultSchemaQuery() string { return "" }

func (sqliteCatalog) GetTablesQuery(string) (string, []any) {
	return `SELECT 'main', name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`, nil
}

func (sqliteCatalog) GetViewsQuery(string) (string, []any) {
	return `SELECT 'main', name FROM sqlite_master WHERE type = 'view' ORDER BY name`, nil
}

func (sqliteCatalog) GetRoutinesQuery(string) (string, []any) { return "", nil }

func (sqliteCatalog) GetColumnsQuery(_, table string) (string, []any) {
	return `SELECT name, type, CASE WHEN "notnull" = 0 THEN 'YES' ELSE 'NO' END, dflt_value, cid + 1, NULL FROM pragma_table_info(?) ORDER BY cid`, params(table)
}

func (sqliteCatalog) GetIndexesQuery(_, table string) (string, []any) {
	return `SELECT il.name, il."unique", CASE WHEN il.origin = 'pk' THEN 1 ELSE 0 END, ii.name, CASE WHEN ii."desc" = 1 THEN 'DESC' ELSE 'ASC' END FROM pragma_index_list(?) il JOIN pragma_index_xinfo(il.name) ii WHERE ii.key = 1 ORDER BY il.name, ii.seqno`, params(table)
}

func (sqliteCatalog) GetTriggersQuery(_, table string) (string, []any) {
	return `SELECT name, '', '', sql FROM sqlite_master WHERE type = 'trigger' AND tbl_name = ? ORDER BY name`, params(table)
}

// Foreign keys are unnamed in the pragma; names are synthesized from the id.
func (sqliteCatalog) GetForeignKeysQuery(_, table string) (string, []any) {
	return `SELECT 'fk_' || ? || '_' || id, 'main', ?, "from", 'main', "table", "to", on_update, on_delete FROM pragma_foreign_key_list(?) ORDER BY id, seq`, params(table, table, table)
}

func (sqliteCatalog) GetPrimaryKeysQuery(_, table string) (string, []any) {
	return `SELECT name, pk FROM pragma_table_info(?) WHERE pk > 0 ORDER BY pk`, params(table)
}

func (sqliteCatalog) GetSchemasQuery() string { return `SELECT name FROM pragma_database_list ORDER BY seq` }
func (sqliteCatalog) GetDatabasesQuery() string {
	return `SELECT file FROM pragma_database_list WHERE name = 'main'`
}

func (sqliteCatalog) GetCreateScriptQuery(_, table string) (string, []any) {
	return `SELECT sql FROM sqlite_master WHERE type = 'table' AND name = ?`, params(table)
}
