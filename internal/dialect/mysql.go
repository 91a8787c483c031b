package dialect

var mysqlTypes = []ColumnType{
	{Name: "bigint"}, sized("binary", 1), sized("bit", 1), {Name: "blob"},
	{Name: "bool"}, sized("char", 1), {Name: "date"}, {Name: "datetime"},
	{Name: "decimal"}, {Name: "double"}, {Name: "enum"}, {Name: "float"},
	{Name: "int"}, {Name: "json"}, {Name: "longblob"}, {Name: "longtext"},
	{Name: "mediumblob"}, {Name: "mediumint"}, {Name: "mediumtext"},
	{Name: "set"}, {Name: "smallint"}, {Name: "text"}, {Name: "time"},
	{Name: "timestamp"}, {Name: "tinyblob"}, {Name: "tinyint"},
	{Name: "tinytext"}, sized("varbinary", 255), sized("varchar", 255),
	{Name: "year"},
}

var mysqlData = Data{
	Dialect:           MySQL,
	ColumnTypes:       mysqlTypes,
	ConstraintActions: []string{"RESTRICT", "CASCADE", "SET NULL", "NO ACTION"},
	ParamStyle:        ParamQuestion,
	MaxParams:         65535,
	Disabled: Features{
		Partitions: true,
	},
	quoteOpen:   "`",
	quoteClose:  "`",
	quoteEscape: "``",
}

var mariadbData = Data{
	Dialect:           MariaDB,
	ColumnTypes:       append(append([]ColumnType{}, mysqlTypes...), ColumnType{Name: "uuid"}, ColumnType{Name: "inet6"}),
	ConstraintActions: []string{"RESTRICT", "CASCADE", "SET NULL", "NO ACTION"},
	ParamStyle:        ParamQuestion,
	MaxParams:         65535,
	Disabled: Features{
		Partitions: true,
	},
	quoteOpen:   "`",
	quoteClose:  "`",
	quoteEscape: "``",
}
