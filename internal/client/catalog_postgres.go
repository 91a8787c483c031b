package client

// postgresCatalog serves PostgreSQL, CockroachDB and Redshift.
type postgresCatalog struct{}

func (postgresCatalog) VersionQuery() string       { return `SELECT version()` }
func (postgresCatalog) DefaultSchemaQuery() string { return `SELECT current_schema()` }

func (postgresCatalog) GetTablesQuery(schema string) (string, []any) {
	return `SELECT table_schema, table_name FROM information_schema.tables WHERE table_schema = $1 AND table_type = 'BASE TABLE' ORDER BY table_name`, params(schema)
}

func (postgresCatalog) GetViewsQuery(schema string) (string, []any) {
	return `SELECT table_schema, table_name FROM information_schema.views WHERE table_schema = $1 ORDER BY table_name`, params(schema)
}

func (postgresCatalog) GetRoutinesQuery(schema string) (string, []any) {
	return `SELECT routine_schema, routine_name, routine_type, data_type FROM information_schema.routines WHERE routine_schema = $1 ORDER BY routine_name`, params(schema)
}

// Length-bearing types come back as varchar(255) so they feed straight
// back into the builders.
func (postgresCatalog) GetColumnsQuery(schema, table string) (string, []any) {
	return `SELECT
    c.column_name,
    CASE WHEN c.character_maximum_length IS NOT NULL
         THEN c.data_type || '(' || c.character_maximum_length || ')'
         ELSE c.data_type END,
    c.is_nullable,
    c.column_default,
    c.ordinal_position,
    col_description(pc.oid, c.ordinal_position::int)
FROM information_schema.columns c
LEFT JOIN pg_catalog.pg_namespace pn ON pn.nspname = c.table_schema
LEFT JOIN pg_catalog.pg_class pc ON pc.relname = c.table_name AND pc.relnamespace = pn.oid
WHERE c.table_schema = $1 AND c.table_name = $2
ORDER BY c.ordinal_position`, params(schema, table)
}

func (postgresCatalog) GetIndexesQuery(schema, table string) (string, []any) {
	return `SELECT
    i.relname,
    CASE WHEN ix.indisunique THEN 1 ELSE 0 END,
    CASE WHEN ix.indisprimary THEN 1 ELSE 0 END,
    a.attname,
    CASE WHEN ix.indoption[k.n - 1] & 1 = 1 THEN 'DESC' ELSE 'ASC' END
FROM pg_index ix
JOIN pg_class t ON t.oid = ix.indrelid
JOIN pg_class i ON i.oid = ix.indexrelid
JOIN pg_namespace n ON n.oid = t.relnamespace
CROSS JOIN LATERAL unnest(ix.indkey) WITH ORDINALITY AS k(attnum, n)
JOIN pg_attribute a ON a.attrelid = t.oid AND a.attnum = k.attnum
WHERE n.nspname = $1 AND t.relname = $2
ORDER BY i.relname, k.n`, params(schema, table)
}

func (postgresCatalog) GetTriggersQuery(schema, table string) (string, []any) {
	return `SELECT trigger_name, action_timing, event_manipulation, action_statement FROM information_schema.triggers WHERE event_object_schema = $1 AND event_object_table = $2 ORDER BY trigger_name`, params(schema, table)
}

func (postgresCatalog) GetForeignKeysQuery(schema, table string) (string, []any) {
	return `SELECT
    tc.constraint_name,
    kcu.table_schema,
    kcu.table_name,
    kcu.column_name,
    ccu.table_schema,
    ccu.table_name,
    ccu.column_name,
    rc.update_rule,
    rc.delete_rule
FROM information_schema.table_constraints tc
JOIN information_schema.key_column_usage kcu
    ON tc.constraint_name = kcu.constraint_name AND tc.table_schema = kcu.table_schema
JOIN information_schema.constraint_column_usage ccu
    ON ccu.constraint_name = tc.constraint_name AND ccu.constraint_schema = tc.constraint_schema
JOIN information_schema.referential_constraints rc
    ON rc.constraint_name = tc.constraint_name AND rc.constraint_schema = tc.constraint_schema
WHERE tc.constraint_type = 'FOREIGN KEY' AND tc.table_schema = $1 AND tc.table_name = $2
ORDER BY tc.constraint_name, kcu.ordinal_position`, params(schema, table)
}

func (postgresCatalog) GetPrimaryKeysQuery(schema, table string) (string, []any) {
	return `SELECT kcu.column_name, kcu.ordinal_position FROM information_schema.table_constraints tc JOIN information_schema.key_column_usage kcu ON tc.constraint_name = kcu.constraint_name AND tc.table_schema = kcu.table_schema WHERE tc.constraint_type = 'PRIMARY KEY' AND tc.table_schema = $1 AND tc.table_name = $2 ORDER BY kcu.ordinal_position`, params(schema, table)
}

func (postgresCatalog) GetSchemasQuery() string {
	return `SELECT schema_name FROM information_schema.schemata WHERE schema_name NOT LIKE 'pg\_%' AND schema_name <> 'information_schema' ORDER BY schema_name`
}

func (postgresCatalog) GetDatabasesQuery() string {
	return `SELECT datname FROM pg_database WHERE datistemplate = false ORDER BY datname`
}

// No native DDL source; the client falls back to the generator.
func (postgresCatalog) GetCreateScriptQuery(string, string) (string, []any) { return "", nil }
