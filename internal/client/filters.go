package client

import (
	"fmt"
	"strings"

	"dbkeeper/internal/dberr"
	"dbkeeper/internal/dialect"
)

// Filters restricts a select. It is either a RawFilter or StructuredFilters;
// the zero value (nil) means no WHERE clause.
type Filters interface {
	where(d *dialect.Data, argOffset int) (string, []any, error)
}

// RawFilter is a WHERE body typed by the user, inlined as is.
type RawFilter string

// StructuredFilters are ANDed or ORed comparisons with bound values.
type StructuredFilters []TableFilter

// TableFilter compares one field. Op joins it to the previous filter and
// defaults to AND.
type TableFilter struct {
	Field string `json:"field" yaml:"field"`
	Type  string `json:"type" yaml:"type"`
	Value any    `json:"value,omitempty" yaml:"value,omitempty"`
	Op    string `json:"op,omitempty" yaml:"op,omitempty"`
}

var (
	_ Filters = RawFilter("")
	_ Filters = StructuredFilters(nil)
)

func (r RawFilter) where(*dialect.Data, int) (string, []any, error) {
	s := strings.TrimRight(strings.TrimSpace(string(r)), "; \n\t")
	return s, nil, nil
}

var comparisons = map[string]string{
	"=":           "=",
	"!=":          "!=",
	"<>":          "<>",
	"<":           "<",
	"<=":          "<=",
	">":           ">",
	">=":          ">=",
	"like":        "LIKE",
	"not like":    "NOT LIKE",
	"in":          "IN",
	"is null":     "IS NULL",
	"is not null": "IS NOT NULL",
}

func (f StructuredFilters) where(d *dialect.Data, argOffset int) (string, []any, error) {
	var (
		sb   strings.Builder
		args []any
	)
	for i, tf := range f {
		if tf.Field == "" {
			return "", nil, dberr.Validation("filter %d has no field", i)
		}
		op, ok := comparisons[strings.ToLower(strings.TrimSpace(tf.Type))]
		if !ok {
			return "", nil, dberr.Validation("unknown filter type %q", tf.Type)
		}

		if i > 0 {
			join := strings.ToUpper(strings.TrimSpace(tf.Op))
			switch join {
			case "", "AND":
				join = "AND"
			case "OR":
			default:
				return "", nil, dberr.Validation("unknown filter operator %q", tf.Op)
			}
			fmt.Fprintf(&sb, " %s ", join)
		}

		field := d.WrapIdentifier(tf.Field)
		switch op {
		case "IS NULL", "IS NOT NULL":
			fmt.Fprintf(&sb, "%s %s", field, op)
		case "IN":
			values := listValue(tf.Value)
			if len(values) == 0 {
				return "", nil, dberr.Validation("filter %q needs a non-empty list", tf.Field)
			}
			fmt.Fprintf(&sb, "%s IN (%s)", field, d.Placeholders(argOffset+len(args), len(values)))
			args = append(args, values...)
		default:
			fmt.Fprintf(&sb, "%s %s %s", field, op, d.Placeholder(argOffset+len(args)))
			args = append(args, tf.Value)
		}
	}
	return sb.String(), args, nil
}

func listValue(v any) []any {
	switch x := v.(type) {
	case []any:
		return x
	case []string:
		out := make([]any, len(x))
		for i, s := range x {
			out[i] = s
		}
		return out
	case string:
		var out []any
		for _, s := range strings.Split(x, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out
	case nil:
		return nil
	}
	return []any{v}
}
