package dialect

// SurrealDB is a schemaless document store; fields are defined rather than
// altered, so the ALTER TABLE based features are handled by the builder
// variant itself.
var surrealData = Data{
	Dialect: SurrealDB,
	ColumnTypes: types(
		"any", "array", "bool", "bytes", "datetime", "decimal", "duration",
		"float", "geometry", "int", "number", "object", "record", "string", "uuid",
	),
	ParamStyle: ParamDollar,
	Disabled: Features{
		Alter: AlterFeatures{
			MultiStatement: true,
			ReorderColumn:  true,
			RenameTable:    true,
		},
		Constraints:     ConstraintFeatures{OnUpdate: true, OnDelete: true},
		Index:           IndexFeatures{Desc: true},
		Backups:         true,
		Partitions:      true,
		Triggers:        true,
		DuplicateTable:  true,
		TruncateElement: true,
	},
	quoteOpen:   "`",
	quoteClose:  "`",
	quoteEscape: "``",
}

// Redis is exposed as key/value "tables" and advertises no schema changes.
var redisData = Data{
	Dialect:     Redis,
	ColumnTypes: types("string", "hash", "list", "set", "zset", "stream", "json"),
	ParamStyle:  ParamQuestion,
	Disabled: Features{
		Alter: AlterFeatures{
			AddColumn:      true,
			DropColumn:     true,
			RenameColumn:   true,
			AlterColumn:    true,
			MultiStatement: true,
			ReorderColumn:  true,
			RenameTable:    true,
		},
		Comments:        true,
		Constraints:     ConstraintFeatures{OnUpdate: true, OnDelete: true},
		CreateIndex:     true,
		Relations:       true,
		Nullable:        true,
		DefaultValue:    true,
		Backups:         true,
		Partitions:      true,
		Triggers:        true,
		Transactions:    true,
		DuplicateTable:  true,
		TruncateElement: true,
	},
	quoteOpen:   `"`,
	quoteClose:  `"`,
	quoteEscape: `""`,
}

// ClickHouse supports comma separated ALTER actions but has no foreign keys
// and its skipping indexes do not map onto CREATE INDEX.
var clickhouseData = Data{
	Dialect: ClickHouse,
	ColumnTypes: types(
		"Bool", "Date", "Date32", "DateTime", "DateTime64", "Decimal", "Float32",
		"Float64", "Int8", "Int16", "Int32", "Int64", "IPv4", "IPv6", "JSON",
		"String", "UInt8", "UInt16", "UInt32", "UInt64", "UUID",
	),
	ParamStyle:           ParamQuestion,
	UsesOffsetPagination: true,
	Disabled: Features{
		Alter: AlterFeatures{
			ReorderColumn: true,
		},
		Constraints:  ConstraintFeatures{OnUpdate: true, OnDelete: true},
		CreateIndex:  true,
		Relations:    true,
		Backups:      true,
		Partitions:   true,
		Triggers:     true,
		Transactions: true,
	},
	quoteOpen:   "`",
	quoteClose:  "`",
	quoteEscape: "``",
}

// BigQuery escapes with backslashes and has no indexes or enforced keys.
var bigQueryData = Data{
	Dialect: BigQuery,
	ColumnTypes: types(
		"ARRAY", "BIGNUMERIC", "BOOL", "BYTES", "DATE", "DATETIME", "FLOAT64",
		"GEOGRAPHY", "INT64", "INTERVAL", "JSON", "NUMERIC", "STRING", "STRUCT",
		"TIME", "TIMESTAMP",
	),
	ParamStyle:           ParamQuestion,
	UsesOffsetPagination: true,
	Disabled: Features{
		Alter: AlterFeatures{
			ReorderColumn: true,
		},
		Constraints: ConstraintFeatures{OnUpdate: true, OnDelete: true},
		CreateIndex: true,
		Relations:   true,
		Backups:     true,
		Partitions:  true,
		Triggers:    true,
	},
	quoteOpen:   "`",
	quoteClose:  "`",
	quoteEscape: "\\`",
	escape:      escapeBackslash,
}

var sqlAnywhereData = Data{
	Dialect: SQLAnywhere,
	ColumnTypes: []ColumnType{
		{Name: "bigint"}, sized("binary", 1), {Name: "bit"}, sized("char", 1),
		{Name: "date"}, {Name: "datetime"}, {Name: "decimal"}, {Name: "double"},
		{Name: "float"}, {Name: "integer"}, {Name: "long binary"},
		{Name: "long varchar"}, {Name: "money"}, {Name: "numeric"},
		sized("nvarchar", 255), {Name: "smallint"}, {Name: "time"},
		{Name: "timestamp"}, {Name: "tinyint"}, {Name: "uniqueidentifier"},
		sized("varbinary", 255), sized("varchar", 255), {Name: "xml"},
	},
	ConstraintActions: standardActions,
	DefaultSchema:     "DBA",
	ParamStyle:        ParamQuestion,
	MaxParams:         2000,
	Disabled: Features{
		Alter: AlterFeatures{
			ReorderColumn: true,
		},
		Partitions: true,
		Backups:    true,
	},
	quoteOpen:   `"`,
	quoteClose:  `"`,
	quoteEscape: `""`,
}
