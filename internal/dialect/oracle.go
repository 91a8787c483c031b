package dialect

// Oracle always runs in multi-statement mode: ADD (...), DROP (...) and
// MODIFY (...) each get their own ALTER TABLE.
var oracleData = Data{
	Dialect: Oracle,
	ColumnTypes: []ColumnType{
		{Name: "BFILE"}, {Name: "BINARY_DOUBLE"}, {Name: "BINARY_FLOAT"},
		{Name: "BLOB"}, sized("CHAR", 1), {Name: "CLOB"}, {Name: "DATE"},
		{Name: "FLOAT"}, {Name: "INTEGER"}, {Name: "LONG"}, sized("NCHAR", 1),
		{Name: "NCLOB"}, {Name: "NUMBER"}, sized("NVARCHAR2", 255),
		sized("RAW", 16), {Name: "ROWID"}, {Name: "TIMESTAMP"},
		{Name: "TIMESTAMP WITH TIME ZONE"}, sized("VARCHAR2", 255),
	},
	ConstraintActions: []string{"CASCADE", "SET NULL"},
	ParamStyle:        ParamColon,
	Disabled: Features{
		Alter: AlterFeatures{
			MultiStatement: true,
			ReorderColumn:  true,
		},
		Constraints: ConstraintFeatures{OnUpdate: true},
		Partitions:  true,
		Backups:     true,
	},
	quoteOpen:   `"`,
	quoteClose:  `"`,
	quoteEscape: `""`,
}
