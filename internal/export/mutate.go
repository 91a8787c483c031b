package export

import (
	"encoding/hex"
	"strings"
	"time"

	"dbkeeper/internal/cursor"
	"dbkeeper/internal/dialect"
)

const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// mutateRow prepares driver values for serialization: binary columns become
// hex, times become ISO-8601 in UTC, and MySQL BIT columns become bit
// strings. The source row is left untouched.
func mutateRow(d dialect.Dialect, cols []cursor.Column, row []any) []any {
	out := make([]any, len(row))
	for i, v := range row {
		var col cursor.Column
		if i < len(cols) {
			col = cols[i]
		}
		out[i] = mutateValue(d, col, v)
	}
	return out
}

func mutateValue(d dialect.Dialect, col cursor.Column, v any) any {
	switch x := v.(type) {
	case []byte:
		if (d == dialect.MySQL || d == dialect.MariaDB) && strings.EqualFold(col.DatabaseType, "BIT") {
			return bitString(x)
		}
		if col.Binary {
			return hex.EncodeToString(x)
		}
		return string(x)
	case time.Time:
		return x.UTC().Format(isoMillis)
	}
	return v
}

// bitString renders a BIT(n) value as its binary digits without leading
// zeros, e.g. "101" for []byte{0x05}.
func bitString(b []byte) string {
	var sb strings.Builder
	for _, c := range b {
		for i := 7; i >= 0; i-- {
			if c&(1<<i) != 0 {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('0')
			}
		}
	}
	s := strings.TrimLeft(sb.String(), "0")
	if s == "" {
		return "0"
	}
	return s
}
