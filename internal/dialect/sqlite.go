package dialect

// SQLite rejects compound ALTER bodies and cannot change an existing column
// beyond renaming it.
var sqliteData = Data{
	Dialect: SQLite,
	ColumnTypes: []ColumnType{
		{Name: "blob"}, {Name: "boolean"}, {Name: "date"}, {Name: "datetime"},
		{Name: "integer"}, {Name: "numeric"}, {Name: "real"}, {Name: "text"},
		sized("varchar", 255),
	},
	ConstraintActions: standardActions,
	ParamStyle:        ParamQuestion,
	MaxParams:         32766,
	Disabled: Features{
		Alter: AlterFeatures{
			AlterColumn:    true,
			MultiStatement: true,
			ReorderColumn:  true,
		},
		Comments:   true,
		Relations:  true,
		Partitions: true,
	},
	quoteOpen:   `"`,
	quoteClose:  `"`,
	quoteEscape: `""`,
}
