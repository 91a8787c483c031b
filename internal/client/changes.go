package client

import (
	"sort"
	"strings"

	"dbkeeper/internal/dberr"
	"dbkeeper/internal/dialect"
)

// TableChanges is a batch of row edits applied together.
type TableChanges struct {
	Inserts []TableInsert `json:"inserts,omitempty"`
	Updates []TableUpdate `json:"updates,omitempty"`
	Deletes []TableDelete `json:"deletes,omitempty"`
}

// Empty reports whether there is nothing to apply.
func (c TableChanges) Empty() bool {
	return len(c.Inserts) == 0 && len(c.Updates) == 0 && len(c.Deletes) == 0
}

type TableInsert struct {
	Table  string           `json:"table"`
	Schema string           `json:"schema,omitempty"`
	Data   []map[string]any `json:"data"`
}

// PrimaryKeyValue identifies a row by one key column.
type PrimaryKeyValue struct {
	Column string `json:"column"`
	Value  any    `json:"value"`
}

type TableUpdate struct {
	Table       string            `json:"table"`
	Schema      string            `json:"schema,omitempty"`
	PrimaryKeys []PrimaryKeyValue `json:"primaryKeys"`
	Column      string            `json:"column"`
	Value       any               `json:"value"`
}

type TableDelete struct {
	Table       string            `json:"table"`
	Schema      string            `json:"schema,omitempty"`
	PrimaryKeys []PrimaryKeyValue `json:"primaryKeys"`
}

// SQL Server rejects more than 1000 rows in one VALUES list.
const maxRowsPerInsert = 1000

type statement struct {
	sql  string
	args []any
}

// changeWriter renders statements either with bind parameters or, for
// previews, with inline literals.
type changeWriter struct {
	d      *dialect.Data
	inline bool
	sb     strings.Builder
	args   []any
}

func (w *changeWriter) bind(v any) string {
	if w.inline {
		return w.d.Literal(v)
	}
	w.args = append(w.args, v)
	return w.d.Placeholder(len(w.args) - 1)
}

func (w *changeWriter) flush() statement {
	st := statement{sql: w.sb.String(), args: w.args}
	w.sb.Reset()
	w.args = nil
	return st
}

func buildChanges(d *dialect.Data, changes TableChanges, inline bool) ([]statement, error) {
	w := &changeWriter{d: d, inline: inline}
	var out []statement

	for _, ins := range changes.Inserts {
		sts, err := w.inserts(ins)
		if err != nil {
			return nil, err
		}
		out = append(out, sts...)
	}
	for _, up := range changes.Updates {
		if up.Column == "" {
			return nil, dberr.Validation("update of %s names no column", up.Table)
		}
		w.sb.WriteString("UPDATE ")
		w.sb.WriteString(d.QualifiedName(up.Table, up.Schema))
		w.sb.WriteString(" SET ")
		w.sb.WriteString(d.WrapIdentifier(up.Column))
		w.sb.WriteString(" = ")
		w.sb.WriteString(w.bind(up.Value))
		if err := w.wherePrimaryKeys(up.Table, up.PrimaryKeys); err != nil {
			return nil, err
		}
		out = append(out, w.flush())
	}
	for _, del := range changes.Deletes {
		w.sb.WriteString("DELETE FROM ")
		w.sb.WriteString(d.QualifiedName(del.Table, del.Schema))
		if err := w.wherePrimaryKeys(del.Table, del.PrimaryKeys); err != nil {
			return nil, err
		}
		out = append(out, w.flush())
	}
	return out, nil
}

func (w *changeWriter) wherePrimaryKeys(table string, keys []PrimaryKeyValue) error {
	if len(keys) == 0 {
		return dberr.Validation("change on %s has no primary key", table)
	}
	w.sb.WriteString(" WHERE ")
	for i, k := range keys {
		if i > 0 {
			w.sb.WriteString(" AND ")
		}
		w.sb.WriteString(w.d.WrapIdentifier(k.Column))
		if k.Value == nil {
			w.sb.WriteString(" IS NULL")
			continue
		}
		w.sb.WriteString(" = ")
		w.sb.WriteString(w.bind(k.Value))
	}
	return nil
}

// inserts splits rows into multi-row INSERTs that stay under the dialect's
// bind parameter limit. Dialects with no limit get one row per statement.
func (w *changeWriter) inserts(ins TableInsert) ([]statement, error) {
	if len(ins.Data) == 0 {
		return nil, nil
	}
	cols := insertColumns(ins.Data)
	if len(cols) == 0 {
		return nil, dberr.Validation("insert into %s has no columns", ins.Table)
	}

	perStmt := 1
	if w.d.MaxParams > 0 {
		perStmt = max(1, min(w.d.MaxParams/len(cols), maxRowsPerInsert))
	}

	head := "INSERT INTO " + w.d.QualifiedName(ins.Table, ins.Schema) + " (" + w.wrapAll(cols) + ") VALUES "
	var out []statement
	for start := 0; start < len(ins.Data); start += perStmt {
		end := min(start+perStmt, len(ins.Data))
		w.sb.WriteString(head)
		for i, row := range ins.Data[start:end] {
			if i > 0 {
				w.sb.WriteString(", ")
			}
			w.sb.WriteString("(")
			for j, c := range cols {
				if j > 0 {
					w.sb.WriteString(", ")
				}
				w.sb.WriteString(w.bind(row[c]))
			}
			w.sb.WriteString(")")
		}
		out = append(out, w.flush())
	}
	return out, nil
}

func (w *changeWriter) wrapAll(cols []string) string {
	wrapped := make([]string, len(cols))
	for i, c := range cols {
		wrapped[i] = w.d.WrapIdentifier(c)
	}
	return strings.Join(wrapped, ", ")
}

// insertColumns is the sorted union of keys over all rows; rows missing a
// key insert NULL.
func insertColumns(rows []map[string]any) []string {
	seen := make(map[string]bool)
	var cols []string
	for _, r := range rows {
		for k := range r {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	sort.Strings(cols)
	return cols
}

func joinSQL(sts []statement) string {
	if len(sts) == 0 {
		return ""
	}
	parts := make([]string, len(sts))
	for i, s := range sts {
		parts[i] = s.sql
	}
	return strings.Join(parts, ";\n") + ";"
}
