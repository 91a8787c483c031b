package dialect

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Literal renders a Go value as an inline SQL literal. Maps, slices and
// structs are encoded as JSON strings.
func (d *Data) Literal(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case string:
		return d.EscapeString(x, true)
	case []byte:
		return d.binaryLiteral(x)
	case bool:
		return d.boolLiteral(x)
	case int:
		return strconv.Itoa(x)
	case int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", x)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		return d.EscapeString(x.UTC().Format("2006-01-02 15:04:05.999999"), true)
	case json.Number:
		return x.String()
	}

	b, err := json.Marshal(v)
	if err != nil {
		return d.EscapeString(fmt.Sprint(v), true)
	}
	return d.EscapeString(string(b), true)
}

func (d *Data) boolLiteral(b bool) string {
	switch d.Dialect {
	case SQLServer, Oracle, SQLAnywhere:
		if b {
			return "1"
		}
		return "0"
	}
	if b {
		return "TRUE"
	}
	return "FALSE"
}

func (d *Data) binaryLiteral(b []byte) string {
	h := hex.EncodeToString(b)
	switch d.Dialect {
	case Postgres, CockroachDB, Redshift:
		return `'\x` + h + `'`
	case SQLServer, SQLAnywhere:
		return "0x" + h
	case Oracle:
		return "HEXTORAW('" + h + "')"
	case BigQuery:
		return `b'` + h + `'`
	}
	return "X'" + h + "'"
}
