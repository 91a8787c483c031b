package dialect

import "strings"

var registry = map[Dialect]*Data{
	Postgres:    &postgresData,
	CockroachDB: &cockroachData,
	Redshift:    &redshiftData,
	MySQL:       &mysqlData,
	MariaDB:     &mariadbData,
	SQLServer:   &sqlServerData,
	SQLite:      &sqliteData,
	ClickHouse:  &clickhouseData,
	SurrealDB:   &surrealData,
	Redis:       &redisData,
	Oracle:      &oracleData,
	SQLAnywhere: &sqlAnywhereData,
	BigQuery:    &bigQueryData,
}

// aliases maps driver names and common spellings onto the enum.
var aliases = map[string]Dialect{
	"postgres":   Postgres,
	"pg":         Postgres,
	"pgx":        Postgres,
	"cockroach":  CockroachDB,
	"crdb":       CockroachDB,
	"mssql":      SQLServer,
	"sqlite3":    SQLite,
	"surreal":    SurrealDB,
	"ora":        Oracle,
	"sybase":     SQLAnywhere,
	"tidb":       MySQL,
	"ch":         ClickHouse,
	"bq":         BigQuery,
	"postgresql": Postgres,
}

// Get returns the capability table for d. Unknown dialects get the
// conservative generic table; Get never panics.
func Get(d Dialect) *Data {
	if data, ok := registry[d]; ok {
		return data
	}
	return &genericData
}

// Parse resolves a dialect or driver name.
func Parse(name string) (Dialect, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	if d, ok := aliases[n]; ok {
		return d, true
	}
	if _, ok := registry[Dialect(n)]; ok {
		return Dialect(n), true
	}
	return Generic, false
}

// All returns every registered dialect in a stable order.
func All() []Dialect {
	return []Dialect{
		Postgres, CockroachDB, Redshift, MySQL, MariaDB, SQLServer, SQLite,
		ClickHouse, SurrealDB, Redis, Oracle, SQLAnywhere, BigQuery,
	}
}

// genericData quotes like ANSI SQL and only advertises column add/drop.
var genericData = Data{
	Dialect:           Generic,
	ColumnTypes:       types("integer", "bigint", "numeric", "real", "boolean", "date", "timestamp", "text", "varchar"),
	ConstraintActions: standardActions,
	ParamStyle:        ParamQuestion,
	Disabled: Features{
		Alter: AlterFeatures{
			RenameColumn:   true,
			AlterColumn:    true,
			MultiStatement: true,
			ReorderColumn:  true,
			RenameTable:    true,
		},
		Comments:     true,
		CreateIndex:  true,
		Relations:    true,
		Backups:      true,
		Partitions:   true,
		Triggers:     true,
		Transactions: true,
	},
	quoteOpen:   `"`,
	quoteClose:  `"`,
	quoteEscape: `""`,
}
