package dialect

var postgresTypes = []ColumnType{
	{Name: "bigint"}, {Name: "bigserial"}, sized("bit", 1), {Name: "boolean"},
	{Name: "bytea"}, sized("char", 1), {Name: "cidr"}, {Name: "date"},
	{Name: "double precision"}, {Name: "inet"}, {Name: "integer"},
	{Name: "interval"}, {Name: "json"}, {Name: "jsonb"}, {Name: "money"},
	{Name: "numeric"}, {Name: "real"}, {Name: "serial"}, {Name: "smallint"},
	{Name: "smallserial"}, {Name: "text"}, {Name: "time"}, {Name: "timetz"},
	{Name: "timestamp"}, {Name: "timestamptz"}, {Name: "tsvector"},
	{Name: "uuid"}, sized("varbit", 8), sized("varchar", 255), {Name: "xml"},
}

var postgresData = Data{
	Dialect:           Postgres,
	ColumnTypes:       postgresTypes,
	ConstraintActions: standardActions,
	DefaultSchema:     "public",
	ParamStyle:        ParamDollar,
	MaxParams:         65535,
	quoteOpen:         `"`,
	quoteClose:        `"`,
	quoteEscape:       `""`,
}

var cockroachData = Data{
	Dialect:           CockroachDB,
	ColumnTypes:       postgresTypes,
	ConstraintActions: standardActions,
	DefaultSchema:     "public",
	ParamStyle:        ParamDollar,
	MaxParams:         65535,
	Disabled: Features{
		Partitions: true,
		Backups:    true,
	},
	quoteOpen:   `"`,
	quoteClose:  `"`,
	quoteEscape: `""`,
}

// Redshift accepts one operation per ALTER TABLE and cannot change
// nullability or defaults of existing columns.
var redshiftData = Data{
	Dialect: Redshift,
	ColumnTypes: []ColumnType{
		{Name: "bigint"}, {Name: "boolean"}, sized("char", 1), {Name: "date"},
		{Name: "decimal"}, {Name: "double precision"}, {Name: "integer"},
		{Name: "real"}, {Name: "smallint"}, {Name: "super"}, {Name: "timestamp"},
		{Name: "timestamptz"}, sized("varbyte", 64), sized("varchar", 256),
	},
	ConstraintActions: []string{"NO ACTION", "CASCADE"},
	DefaultSchema:     "public",
	ParamStyle:        ParamDollar,
	MaxParams:         32767,
	Disabled: Features{
		Alter: AlterFeatures{
			MultiStatement: true,
			ReorderColumn:  true,
		},
		CreateIndex:  true,
		Nullable:     true,
		DefaultValue: true,
		Partitions:   true,
		Backups:      true,
		Triggers:     true,
	},
	quoteOpen:   `"`,
	quoteClose:  `"`,
	quoteEscape: `""`,
}
