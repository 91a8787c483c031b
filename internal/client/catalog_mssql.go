package client

type mssqlCatalog struct{}

func (mssqlCatalog) VersionQuery() string       { return `SELECT @@VERSION` }
func (mssqlCatalog) DefaultSchemaQuery() string { return `SELECT SCHEMA_NAME()` }

func (mssqlCatalog) GetTablesQuery(schema string) (string, []any) {
	return `SELECT TABLE_SCHEMA, TABLE_NAME FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_SCHEMA = @p1 AND TABLE_TYPE = 'BASE TABLE' ORDER BY TABLE_NAME`, params(schema)
}

func (mssqlCatalog) GetViewsQuery(schema string) (string, []any) {
	return `SELECT TABLE_SCHEMA, TABLE_NAME FROM INFORMATION_SCHEMA.VIEWS WHERE TABLE_SCHEMA = @p1 ORDER BY TABLE_NAME`, params(schema)
}

func (mssqlCatalog) GetRoutinesQuery(schema string) (string, []any) {
	return `SELECT ROUTINE_SCHEMA, ROUTINE_NAME, ROUTINE_TYPE, DATA_TYPE FROM INFORMATION_SCHEMA.ROUTINES WHERE ROUTINE_SCHEMA = @p1 ORDER BY ROUTINE_NAME`, params(schema)
}

// Column comments live in the MS_Description extended property.
func (mssqlCatalog) GetColumnsQuery(schema, table string) (string, []any) {
	return `
		SELECT
			c.COLUMN_NAME,
			c.DATA_TYPE + CASE
				WHEN c.CHARACTER_MAXIMUM_LENGTH = -1 THEN '(max)'
				WHEN c.CHARACTER_MAXIMUM_LENGTH IS NOT NULL THEN '(' + CAST(c.CHARACTER_MAXIMUM_LENGTH AS varchar(10)) + ')'
				ELSE ''
			END,
			c.IS_NULLABLE,
			c.COLUMN_DEFAULT,
			c.ORDINAL_POSITION,
			CAST(ep.value AS NVARCHAR(MAX))
		FROM INFORMATION_SCHEMA.COLUMNS c
		LEFT JOIN sys.extended_properties ep
			ON ep.major_id = OBJECT_ID(QUOTENAME(c.TABLE_SCHEMA) + '.' + QUOTENAME(c.TABLE_NAME))
			AND ep.minor_id = COLUMNPROPERTY(ep.major_id, c.COLUMN_NAME, 'ColumnId')
			AND ep.class = 1
			AND ep.name = 'MS_Description'
		WHERE c.TABLE_SCHEMA = @p1 AND c.TABLE_NAME = @p2
		ORDER BY c.ORDINAL_POSITION
	`, params(schema, table)
}

func (mssqlCatalog) GetIndexesQuery(schema, table string) (string, []any) {
	return `
		SELECT
			i.name,
			CAST(i.is_unique AS int),
			CAST(i.is_primary_key AS int),
			col.name,
			CASE WHEN ic.is_descending_key = 1 THEN 'DESC' ELSE 'ASC' END
		FROM sys.indexes i
		JOIN sys.index_columns ic ON ic.object_id = i.object_id AND ic.index_id = i.index_id
		JOIN sys.columns col ON col.object_id = ic.object_id AND col.column_id = ic.column_id
		JOIN sys.tables t ON t.object_id = i.object_id
		JOIN sys.schemas s ON s.schema_id = t.schema_id
		WHERE s.name = @p1 AND t.name = @p2 AND ic.is_included_column = 0
		ORDER BY i.name, ic.key_ordinal
	`, params(schema, table)
}

func (mssqlCatalog) GetTriggersQuery(schema, table string) (string, []any) {
	return `
		SELECT
			tr.name,
			CASE WHEN tr.is_instead_of_trigger = 1 THEN 'INSTEAD OF' ELSE 'AFTER' END,
			te.type_desc,
			OBJECT_DEFINITION(tr.object_id)
		FROM sys.triggers tr
		JOIN sys.trigger_events te ON te.object_id = tr.object_id
		JOIN sys.tables t ON t.object_id = tr.parent_id
		JOIN sys.schemas s ON s.schema_id = t.schema_id
		WHERE s.name = @p1 AND t.name = @p2
		ORDER BY tr.name
	`, params(schema, table)
}

// Referential actions come back as NO_ACTION, SET_NULL...; the client
// replaces the underscores.
func (mssqlCatalog) GetForeignKeysQuery(schema, table string) (string, []any) {
	return `
		SELECT
			fk.name,
			SCHEMA_NAME(tp.schema_id),
			tp.name,
			cp.name,
			SCHEMA_NAME(tr.schema_id),
			tr.name,
			cr.name,
			fk.update_referential_action_desc,
			fk.delete_referential_action_desc
		FROM sys.foreign_keys fk
		JOIN sys.foreign_key_columns fkc ON fkc.constraint_object_id = fk.object_id
		JOIN sys.tables tp ON tp.object_id = fkc.parent_object_id
		JOIN sys.columns cp ON cp.object_id = fkc.parent_object_id AND cp.column_id = fkc.parent_column_id
		JOIN sys.tables tr ON tr.object_id = fkc.referenced_object_id
		JOIN sys.columns cr ON cr.object_id = fkc.referenced_object_id AND cr.column_id = fkc.referenced_column_id
		WHERE SCHEMA_NAME(tp.schema_id) = @p1 AND tp.name = @p2
		ORDER BY fk.name, fkc.constraint_column_id
	`, params(schema, table)
}

func (mssqlCatalog) GetPrimaryKeysQuery(schema, table string) (string, []any) {
	return `SELECT kcu.COLUMN_NAME, kcu.ORDINAL_POSITION FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS tc JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE kcu ON tc.CONSTRAINT_NAME = kcu.CONSTRAINT_NAME AND tc.TABLE_SCHEMA = kcu.TABLE_SCHEMA WHERE tc.CONSTRAINT_TYPE = 'PRIMARY KEY' AND tc.TABLE_SCHEMA = @p1 AND tc.TABLE_NAME = @p2 ORDER BY kcu.ORDINAL_POSITION`, params(schema, table)
}

func (mssqlCatalog) GetSchemasQuery() string   { return `SELECT name FROM sys.schemas ORDER BY name` }
func (mssqlCatalog) GetDatabasesQuery() string { return `SELECT name FROM sys.databases ORDER BY name` }

func (mssqlCatalog) GetCreateScriptQuery(string, string) (string, []any) { return "", nil }
