package dialect

// SQL Server cannot mix ADD, DROP and ALTER COLUMN in one statement, and
// column comments live in extended properties rather than DDL.
var sqlServerData = Data{
	Dialect: SQLServer,
	ColumnTypes: []ColumnType{
		{Name: "bigint"}, sized("binary", 1), {Name: "bit"}, sized("char", 1),
		{Name: "date"}, {Name: "datetime"}, {Name: "datetime2"},
		{Name: "datetimeoffset"}, {Name: "decimal"}, {Name: "float"},
		{Name: "image"}, {Name: "int"}, {Name: "money"}, sized("nchar", 1),
		{Name: "ntext"}, {Name: "numeric"}, sized("nvarchar", 255),
		{Name: "real"}, {Name: "smalldatetime"}, {Name: "smallint"},
		{Name: "smallmoney"}, {Name: "text"}, {Name: "time"}, {Name: "tinyint"},
		{Name: "uniqueidentifier"}, sized("varbinary", 255),
		sized("varchar", 255), {Name: "xml"},
	},
	ConstraintActions: standardActions,
	DefaultSchema:     "dbo",
	ParamStyle:        ParamAtP,
	MaxParams:         2100,
	Disabled: Features{
		Alter: AlterFeatures{
			MultiStatement: true,
			ReorderColumn:  true,
		},
		Comments:   true,
		Partitions: true,
	},
	quoteOpen:   "[",
	quoteClose:  "]",
	quoteEscape: "]]",
}
