// Package client is the uniform database contract used by the CLI and the
// streaming jobs: catalog introspection, paged and streamed reads, batched
// row changes and schema alteration on top of database/sql drivers.
package client

import (
	"context"

	"dbkeeper/internal/cursor"
	"dbkeeper/internal/dialect"
	"dbkeeper/internal/schema"
)

// Client is implemented once per backend family. Capabilities a backend lacks
// return empty results rather than errors; mutations it cannot perform return
// a dberr.NotSupported error.
type Client interface {
	Dialect() dialect.Dialect
	VersionString(ctx context.Context) (string, error)
	DefaultSchema(ctx context.Context) (string, error)
	SupportedFeatures() Features

	ListTables(ctx context.Context, schema string) ([]TableOrView, error)
	ListViews(ctx context.Context, schema string) ([]TableOrView, error)
	ListRoutines(ctx context.Context, schema string) ([]Routine, error)
	ListTableColumns(ctx context.Context, table, schema string) ([]TableColumn, error)
	ListTableIndexes(ctx context.Context, table, schema string) ([]TableIndex, error)
	ListTableTriggers(ctx context.Context, table, schema string) ([]TableTrigger, error)
	GetTableKeys(ctx context.Context, table, schema string) ([]TableKey, error)
	GetPrimaryKeys(ctx context.Context, table, schema string) ([]PrimaryKey, error)
	ListSchemas(ctx context.Context) ([]string, error)
	ListDatabases(ctx context.Context) ([]string, error)

	SelectTop(ctx context.Context, opts SelectOptions) (*SelectResult, error)
	SelectTopSQL(opts SelectOptions) (string, []any, error)
	SelectTopStream(ctx context.Context, opts StreamOptions) (*StreamResult, error)
	QueryStream(ctx context.Context, query string, chunkSize int) (*StreamResult, error)
	ExecuteQuery(ctx context.Context, query string) (*QueryResult, error)

	ApplyChanges(ctx context.Context, changes TableChanges) (int64, error)
	ApplyChangesSQL(changes TableChanges) (string, error)
	AlterTable(ctx context.Context, spec schema.AlterTableSpec) error
	AlterTableSQL(ctx context.Context, spec schema.AlterTableSpec) (string, error)
	AlterIndexes(ctx context.Context, a schema.IndexAlterations) error
	AlterRelations(ctx context.Context, a schema.RelationAlterations) error
	AlterPartitions(ctx context.Context, a schema.AlterPartitionsSpec) error

	DropElement(ctx context.Context, name string, kind ElementType, schema string) error
	TruncateElement(ctx context.Context, table, schema string) error
	DuplicateTable(ctx context.Context, table, newName, schema string) error
	GetTableCreateScript(ctx context.Context, table, schema string) (string, error)
	SetTableDescription(ctx context.Context, table, description, schema string) error

	Close() error
}

// Features are the capability flags reported to callers.
type Features struct {
	CustomRoutines        bool `json:"customRoutines"`
	Comments              bool `json:"comments"`
	Properties            bool `json:"properties"`
	Partitions            bool `json:"partitions"`
	EditPartitions        bool `json:"editPartitions"`
	Backups               bool `json:"backups"`
	Transactions          bool `json:"transactions"`
	IndexNullsNotDistinct bool `json:"indexNullsNotDistinct"`
}

// ElementType is the kind of object DropElement removes.
type ElementType string

const (
	ElementTable            ElementType = "TABLE"
	ElementView             ElementType = "VIEW"
	ElementMaterializedView ElementType = "MATERIALIZED VIEW"
	ElementFunction         ElementType = "FUNCTION"
	ElementProcedure        ElementType = "PROCEDURE"
	ElementSchema           ElementType = "SCHEMA"
	ElementDatabase         ElementType = "DATABASE"
)

type TableOrView struct {
	Name   string `json:"name"`
	Schema string `json:"schema,omitempty"`
	Entity string `json:"entityType"`
}

type Routine struct {
	Name       string `json:"name"`
	Schema     string `json:"schema,omitempty"`
	Type       string `json:"type"`
	ReturnType string `json:"returnType,omitempty"`
}

type TableColumn struct {
	Table        string  `json:"tableName"`
	Schema       string  `json:"schemaName,omitempty"`
	Name         string  `json:"columnName"`
	DataType     string  `json:"dataType"`
	Nullable     bool    `json:"nullable"`
	DefaultValue *string `json:"defaultValue,omitempty"`
	Comment      *string `json:"comment,omitempty"`
	Ordinal      int     `json:"ordinalPosition"`
}

// SchemaItem converts the column into the builder model.
func (c TableColumn) SchemaItem() schema.SchemaItem {
	return schema.SchemaItem{
		ColumnName:   c.Name,
		DataType:     c.DataType,
		Nullable:     c.Nullable,
		DefaultValue: c.DefaultValue,
		Comment:      c.Comment,
	}
}

type TableIndex struct {
	Name    string               `json:"name"`
	Table   string               `json:"table"`
	Schema  string               `json:"schema,omitempty"`
	Columns []schema.IndexColumn `json:"columns"`
	Unique  bool                 `json:"unique"`
	Primary bool                 `json:"primary"`
}

type TableTrigger struct {
	Name   string `json:"name"`
	Table  string `json:"table"`
	Schema string `json:"schema,omitempty"`
	Timing string `json:"timing"`
	Event  string `json:"manipulation"`
	Action string `json:"action"`
}

// TableKey is one column of a foreign key.
type TableKey struct {
	ConstraintName string `json:"constraintName"`
	FromTable      string `json:"fromTable"`
	FromSchema     string `json:"fromSchema,omitempty"`
	FromColumn     string `json:"fromColumn"`
	ToTable        string `json:"toTable"`
	ToSchema       string `json:"toSchema,omitempty"`
	ToColumn       string `json:"toColumn"`
	OnUpdate       string `json:"onUpdate,omitempty"`
	OnDelete       string `json:"onDelete,omitempty"`
}

type PrimaryKey struct {
	ColumnName string `json:"columnName"`
	Position   int    `json:"position"`
}

// OrderBy sorts a SelectTop query. Dir is ASC or DESC.
type OrderBy struct {
	Field string `json:"field"`
	Dir   string `json:"dir,omitempty"`
}

type SelectOptions struct {
	Table   string
	Schema  string
	Columns []string
	Offset  int
	Limit   int
	OrderBy []OrderBy
	Filters Filters
}

type SelectResult struct {
	Fields []cursor.Column `json:"fields"`
	Rows   [][]any         `json:"rows"`
}

type StreamOptions struct {
	Table     string
	Schema    string
	Columns   []string
	OrderBy   []OrderBy
	Filters   Filters
	ChunkSize int
}

// StreamResult is a started cursor over a table or query. TotalRows is -1
// when the row count is unknown.
type StreamResult struct {
	TotalRows int64
	Columns   []cursor.Column
	Cursor    cursor.Cursor
}

type QueryResult struct {
	Fields       []cursor.Column `json:"fields"`
	Rows         [][]any         `json:"rows"`
	RowsAffected int64           `json:"rowsAffected"`
}
