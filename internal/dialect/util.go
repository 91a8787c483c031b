package dialect

import (
	"strings"
)

// GeneratePlaceholders joins count placeholders produced by at.
func GeneratePlaceholders(count int, at func(int) string) string {
	out := make([]string, count)
	for i := range out {
		out[i] = at(i)
	}
	return strings.Join(out, ", ")
}

// NormalizeType lowercases a type name and strips any length suffix so
// "VARCHAR(255)" and "varchar" compare equal.
func NormalizeType(sqlType string) string {
	t := strings.ToLower(strings.TrimSpace(sqlType))
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	return t
}

func types(names ...string) []ColumnType {
	out := make([]ColumnType, len(names))
	for i, n := range names {
		out[i] = ColumnType{Name: n}
	}
	return out
}

func sized(name string, length int) ColumnType {
	return ColumnType{Name: name, SupportsLength: true, DefaultLength: length}
}

var standardActions = []string{"NO ACTION", "RESTRICT", "CASCADE", "SET NULL", "SET DEFAULT"}
