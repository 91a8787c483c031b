package client

import (
	"fmt"
	"strings"

	"dbkeeper/internal/dberr"
	"dbkeeper/internal/dialect"
)

// buildSelect renders SELECT ... FROM ... WHERE ... ORDER BY and, when
// paginate is set, the dialect's LIMIT/OFFSET spelling.
func buildSelect(d *dialect.Data, opts SelectOptions, paginate bool) (string, []any, error) {
	if opts.Table == "" {
		return "", nil, dberr.Validation("select needs a table")
	}
	if paginate && (opts.Limit <= 0 || opts.Offset < 0) {
		return "", nil, dberr.Validation("invalid page: offset %d limit %d", opts.Offset, opts.Limit)
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	if len(opts.Columns) == 0 {
		sb.WriteString("*")
	} else {
		for i, c := range opts.Columns {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(d.WrapIdentifier(c))
		}
	}
	sb.WriteString(" FROM ")
	sb.WriteString(d.QualifiedName(opts.Table, opts.Schema))

	args, err := writeWhere(&sb, d, opts.Filters)
	if err != nil {
		return "", nil, err
	}

	ordered := len(opts.OrderBy) > 0
	if ordered {
		sb.WriteString(" ORDER BY ")
		for i, o := range opts.OrderBy {
			dir := strings.ToUpper(strings.TrimSpace(o.Dir))
			if dir == "" {
				dir = "ASC"
			}
			if dir != "ASC" && dir != "DESC" {
				return "", nil, dberr.Validation("invalid sort direction %q", o.Dir)
			}
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%s %s", d.WrapIdentifier(o.Field), dir)
		}
	}

	if paginate {
		switch d.Dialect {
		case dialect.SQLServer:
			if !ordered {
				sb.WriteString(" ORDER BY (SELECT NULL)")
			}
			fmt.Fprintf(&sb, " OFFSET %d ROWS FETCH NEXT %d ROWS ONLY", opts.Offset, opts.Limit)
		case dialect.Oracle:
			fmt.Fprintf(&sb, " OFFSET %d ROWS FETCH NEXT %d ROWS ONLY", opts.Offset, opts.Limit)
		default:
			fmt.Fprintf(&sb, " LIMIT %d OFFSET %d", opts.Limit, opts.Offset)
		}
	}
	return sb.String(), args, nil
}

func buildCount(d *dialect.Data, table, schemaName string, filters Filters) (string, []any, error) {
	var sb strings.Builder
	sb.WriteString("SELECT COUNT(*) FROM ")
	sb.WriteString(d.QualifiedName(table, schemaName))
	args, err := writeWhere(&sb, d, filters)
	if err != nil {
		return "", nil, err
	}
	return sb.String(), args, nil
}

func writeWhere(sb *strings.Builder, d *dialect.Data, filters Filters) ([]any, error) {
	if filters == nil {
		return nil, nil
	}
	clause, args, err := filters.where(d, 0)
	if err != nil {
		return nil, err
	}
	if clause != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(clause)
	}
	return args, nil
}
