// Package dialect is the capability registry for every supported backend:
// identifier quoting, literal escaping, column types, placeholders and the
// features a dialect cannot express. Everything here is pure data and pure
// functions so builders can be tested without a live connection.
package dialect

import (
	"fmt"
	"strings"
)

// Dialect is the closed set of supported backends.
type Dialect string

const (
	Postgres    Dialect = "postgresql"
	CockroachDB Dialect = "cockroachdb"
	Redshift    Dialect = "redshift"
	MySQL       Dialect = "mysql"
	MariaDB     Dialect = "mariadb"
	SQLServer   Dialect = "sqlserver"
	SQLite      Dialect = "sqlite"
	ClickHouse  Dialect = "clickhouse"
	SurrealDB   Dialect = "surrealdb"
	Redis       Dialect = "redis"
	Oracle      Dialect = "oracle"
	SQLAnywhere Dialect = "sqlanywhere"
	BigQuery    Dialect = "bigquery"

	// Generic is the conservative fallback for unknown names.
	Generic Dialect = "generic"
)

func (d Dialect) String() string { return string(d) }

// ParamStyle is how a driver spells bind parameters.
type ParamStyle int

const (
	ParamQuestion ParamStyle = iota // ?
	ParamDollar                     // $1
	ParamAtP                        // @p1
	ParamColon                      // :1
)

// ColumnType is one type offered for new or altered columns.
type ColumnType struct {
	Name           string
	SupportsLength bool
	DefaultLength  int
}

// Pretty renders the type with its default length, e.g. varchar(255).
func (c ColumnType) Pretty() string {
	if c.SupportsLength && c.DefaultLength > 0 {
		return fmt.Sprintf("%s(%d)", c.Name, c.DefaultLength)
	}
	return c.Name
}

// AlterFeatures are ALTER TABLE capabilities a dialect lacks.
type AlterFeatures struct {
	AddColumn      bool
	DropColumn     bool
	RenameColumn   bool
	AlterColumn    bool
	MultiStatement bool // each operation needs its own ALTER TABLE statement
	ReorderColumn  bool
	RenameTable    bool
}

// ConstraintFeatures are referential actions a dialect ignores.
type ConstraintFeatures struct {
	OnUpdate bool
	OnDelete bool
}

// IndexFeatures are index options a dialect lacks.
type IndexFeatures struct {
	Desc bool
}

// Features lists disabled capabilities. A true flag means "not available";
// the zero value means everything is supported.
type Features struct {
	Alter           AlterFeatures
	Comments        bool
	Constraints     ConstraintFeatures
	CreateIndex     bool
	Index           IndexFeatures
	Relations       bool
	Nullable        bool
	DefaultValue    bool
	Backups         bool
	Partitions      bool
	Triggers        bool
	Transactions    bool
	TruncateElement bool
	DuplicateTable  bool
}

type stringEscape int

const (
	escapeDouble    stringEscape = iota // it''s
	escapeBackslash                     // it\'s
)

// Data is the capability table for one dialect. Values returned by Get are
// shared and must be treated as read-only.
type Data struct {
	Dialect           Dialect
	ColumnTypes       []ColumnType
	ConstraintActions []string
	DefaultSchema     string
	ParamStyle        ParamStyle
	// MaxParams bounds bind parameters per statement; 1 row per INSERT when 0.
	MaxParams            int
	UsesOffsetPagination bool
	Disabled             Features

	quoteOpen   string
	quoteClose  string
	quoteEscape string // replacement for quoteClose inside a quoted name
	escape      stringEscape
}

// WrapIdentifier quotes s with the dialect delimiters, escaping any embedded
// closing delimiter so UnwrapIdentifier returns the original string.
func (d *Data) WrapIdentifier(s string) string {
	if s == "" {
		return ""
	}
	return d.quoteOpen + strings.ReplaceAll(s, d.quoteClose, d.quoteEscape) + d.quoteClose
}

// UnwrapIdentifier reverses WrapIdentifier. Unquoted input is returned as is.
func (d *Data) UnwrapIdentifier(s string) string {
	if len(s) < len(d.quoteOpen)+len(d.quoteClose) ||
		!strings.HasPrefix(s, d.quoteOpen) || !strings.HasSuffix(s, d.quoteClose) {
		return s
	}
	inner := s[len(d.quoteOpen) : len(s)-len(d.quoteClose)]
	return strings.ReplaceAll(inner, d.quoteEscape, d.quoteClose)
}

// EscapeString escapes single quotes for use inside a string literal and
// wraps the result in quotes when quote is true.
func (d *Data) EscapeString(value string, quote bool) string {
	var out string
	switch d.escape {
	case escapeBackslash:
		out = strings.ReplaceAll(value, `\`, `\\`)
		out = strings.ReplaceAll(out, `'`, `\'`)
	default:
		out = strings.ReplaceAll(value, "'", "''")
	}
	if quote {
		return "'" + out + "'"
	}
	return out
}

// WrapLiteral prepares a raw SQL expression (a default value, a partition
// bound) for inlining. Statement separators are stripped.
func (d *Data) WrapLiteral(s string) string {
	return strings.ReplaceAll(s, ";", "")
}

// Placeholder returns the bind parameter for a 0-based index.
func (d *Data) Placeholder(index int) string {
	switch d.ParamStyle {
	case ParamDollar:
		return fmt.Sprintf("$%d", index+1)
	case ParamAtP:
		return fmt.Sprintf("@p%d", index+1)
	case ParamColon:
		return fmt.Sprintf(":%d", index+1)
	default:
		return "?"
	}
}

// Placeholders returns count comma separated placeholders starting at offset.
func (d *Data) Placeholders(offset, count int) string {
	return GeneratePlaceholders(count, func(i int) string { return d.Placeholder(offset + i) })
}

// ColumnType finds a registered type by case-insensitive name; a length
// suffix is ignored.
func (d *Data) ColumnType(name string) (ColumnType, bool) {
	name = NormalizeType(name)
	for _, t := range d.ColumnTypes {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return ColumnType{}, false
}

// SupportsAction reports whether a referential action (CASCADE, SET NULL...)
// is valid for this dialect.
func (d *Data) SupportsAction(action string) bool {
	for _, a := range d.ConstraintActions {
		if strings.EqualFold(a, action) {
			return true
		}
	}
	return false
}

// QualifiedName joins schema and name with wrapped identifiers.
func (d *Data) QualifiedName(name, schema string) string {
	if schema == "" {
		return d.WrapIdentifier(name)
	}
	return d.WrapIdentifier(schema) + "." + d.WrapIdentifier(name)
}
