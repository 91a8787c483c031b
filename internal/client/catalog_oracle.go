package client

// oracleCatalog reads the ALL_* views; a schema is an owner.
type oracleCatalog struct{}

func (oracleCatalog) VersionQuery() string { return `SELECT BANNER FROM V$VERSION WHERE ROWNUM = 1` }
func (oracleCatalog) DefaultSchemaQuery() string {
	return `SELECT SYS_CONTEXT('USERENV', 'CURRENT_SCHEMA') FROM DUAL`
}

func (oracleCatalog) GetTablesQuery(schema string) (string, []any) {
	return `SELECT OWNER, TABLE_NAME FROM ALL_TABLES WHERE OWNER = :1 ORDER BY TABLE_NAME`, params(schema)
}

func (oracleCatalog) GetViewsQuery(schema string) (string, []any) {
	return `SELECT OWNER, VIEW_NAME FROM ALL_VIEWS WHERE OWNER = :1 ORDER BY VIEW_NAME`, params(schema)
}

func (oracleCatalog) GetRoutinesQuery(schema string) (string, []any) {
	return `SELECT OWNER, OBJECT_NAME, OBJECT_TYPE, NULL FROM ALL_OBJECTS WHERE OWNER = :1 AND OBJECT_TYPE IN ('FUNCTION', 'PROCEDURE') ORDER BY OBJECT_NAME`, params(schema)
}

func (oracleCatalog) GetColumnsQuery(schema, table string) (string, []any) {
	return `
SELECT
    t.COLUMN_NAME,
    t.DATA_TYPE || CASE
        WHEN t.DATA_TYPE IN ('VARCHAR2', 'NVARCHAR2', 'CHAR', 'NCHAR') THEN '(' || t.CHAR_LENGTH || ')'
        WHEN t.DATA_TYPE = 'RAW' THEN '(' || t.DATA_LENGTH || ')'
        ELSE ''
    END,
    t.NULLABLE,
    t.DATA_DEFAULT,
    t.COLUMN_ID,
    c.COMMENTS
FROM ALL_TAB_COLUMNS t
LEFT JOIN ALL_COL_COMMENTS c
    ON c.OWNER = t.OWNER AND c.TABLE_NAME = t.TABLE_NAME AND c.COLUMN_NAME = t.COLUMN_NAME
WHERE t.OWNER = :1 AND t.TABLE_NAME = :2
ORDER BY t.COLUMN_ID`, params(schema, table)
}

func (oracleCatalog) GetIndexesQuery(schema, table string) (string, []any) {
	return `
SELECT
    i.INDEX_NAME,
    CASE WHEN i.UNIQUENESS = 'UNIQUE' THEN 1 ELSE 0 END,
    CASE WHEN pc.CONSTRAINT_NAME IS NOT NULL THEN 1 ELSE 0 END,
    ic.COLUMN_NAME,
    ic.DESCEND
FROM ALL_INDEXES i
JOIN ALL_IND_COLUMNS ic ON ic.INDEX_OWNER = i.OWNER AND ic.INDEX_NAME = i.INDEX_NAME
LEFT JOIN ALL_CONSTRAINTS pc
    ON pc.OWNER = i.TABLE_OWNER AND pc.INDEX_NAME = i.INDEX_NAME AND pc.CONSTRAINT_TYPE = 'P'
WHERE i.TABLE_OWNER = :1 AND i.TABLE_NAME = :2
ORDER BY i.INDEX_NAME, ic.COLUMN_POSITION`, params(schema, table)
}

func (oracleCatalog) GetTriggersQuery(schema, table string) (string, []any) {
	return `SELECT TRIGGER_NAME, TRIGGER_TYPE, TRIGGERING_EVENT, DESCRIPTION FROM ALL_TRIGGERS WHERE TABLE_OWNER = :1 AND TABLE_NAME = :2 ORDER BY TRIGGER_NAME`, params(schema, table)
}

// Oracle has no ON UPDATE action.
func (oracleCatalog) GetForeignKeysQuery(schema, table string) (string, []any) {
	return `
SELECT
    c.CONSTRAINT_NAME,
    c.OWNER,
    c.TABLE_NAME,
    cc.COLUMN_NAME,
    r.OWNER,
    r.TABLE_NAME,
    rcc.COLUMN_NAME,
    'NO ACTION',
    c.DELETE_RULE
FROM ALL_CONSTRAINTS c
JOIN ALL_CONS_COLUMNS cc
    ON c.CONSTRAINT_NAME = cc.CONSTRAINT_NAME
    AND c.OWNER = cc.OWNER
JOIN ALL_CONSTRAINTS r
    ON c.R_CONSTRAINT_NAME = r.CONSTRAINT_NAME
    AND c.R_OWNER = r.OWNER
JOIN ALL_CONS_COLUMNS rcc
    ON r.CONSTRAINT_NAME = rcc.CONSTRAINT_NAME
    AND r.OWNER = rcc.OWNER
    AND cc.POSITION = rcc.POSITION
WHERE c.CONSTRAINT_TYPE = 'R'
AND c.OWNER = :1 AND c.TABLE_NAME = :2
ORDER BY c.CONSTRAINT_NAME, cc.POSITION`, params(schema, table)
}

func (oracleCatalog) GetPrimaryKeysQuery(schema, table string) (string, []any) {
	return `
SELECT cc.COLUMN_NAME, cc.POSITION
FROM ALL_CONS_COLUMNS cc
JOIN ALL_CONSTRAINTS uc ON cc.CONSTRAINT_NAME = uc.CONSTRAINT_NAME AND cc.OWNER = uc.OWNER
WHERE uc.CONSTRAINT_TYPE = 'P' AND uc.OWNER = :1 AND uc.TABLE_NAME = :2
ORDER BY cc.POSITION`, params(schema, table)
}

func (oracleCatalog) GetSchemasQuery() string   { return `SELECT USERNAME FROM ALL_USERS ORDER BY USERNAME` }
func (oracleCatalog) GetDatabasesQuery() string { return `SELECT NAME FROM V$DATABASE` }

func (oracleCatalog) GetCreateScriptQuery(schema, table string) (string, []any) {
	return `SELECT DBMS_METADATA.GET_DDL('TABLE', :1, :2) FROM DUAL`, params(table, schema)
}
