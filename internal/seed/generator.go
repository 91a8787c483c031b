// Package seed generates plausible fake rows for existing tables. A Source
// feeds them through the import pipeline in dependency order.
package seed

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

// Column is what the generator needs to know about one column.
type Column struct {
	Name     string
	DataType string
	// Length is the declared size, 0 when unbounded.
	Length   int
	Nullable bool
	Unique   bool
	// Generated columns are filled by the database and never inserted.
	Generated  bool
	PrimaryKey bool
	Enum       []string
	Meaning    string
	// References is the table a foreign key on this column points at.
	References string
}

// Generator produces values with its own random source.
type Generator struct {
	f   *gofakeit.Faker
	now func() time.Time
}

// NewGenerator seeds the faker; 0 picks a random seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{f: gofakeit.New(seed), now: time.Now}
}

var (
	typeLength = regexp.MustCompile(`^\s*([a-zA-Z ]+?)\s*\(\s*(\d+)`)
	enumValues = regexp.MustCompile(`'((?:[^']|'')*)'`)
)

// ParseType splits a catalog type such as "varchar(40)" or
// "enum('a','b')" into a column's base type, length and enum values.
func ParseType(dataType string) (base string, length int, enum []string) {
	lower := strings.ToLower(strings.TrimSpace(dataType))
	if strings.HasPrefix(lower, "enum(") || strings.HasPrefix(lower, "set(") {
		for _, m := range enumValues.FindAllStringSubmatch(dataType, -1) {
			enum = append(enum, strings.ReplaceAll(m[1], "''", "'"))
		}
		return lower[:strings.IndexByte(lower, '(')], 0, enum
	}
	if m := typeLength.FindStringSubmatch(lower); m != nil {
		n, _ := strconv.Atoi(m[2])
		return strings.TrimSpace(m[1]), n, nil
	}
	if i := strings.IndexByte(lower, '('); i > 0 {
		lower = lower[:i]
	}
	return strings.TrimSpace(lower), 0, nil
}

func truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) > limit {
		return string(runes[:limit])
	}
	return s
}

func has(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Value returns a value for col in table. The meaning of the column wins
// for text types; other types are generated from the type alone.
func (g *Generator) Value(col Column, table string) any {
	dataType := strings.ToLower(col.DataType)
	name := strings.ToLower(col.Name)
	meaning := col.Meaning

	if len(col.Enum) > 0 {
		return g.f.RandomString(col.Enum)
	}

	switch {
	case has(dataType, "char", "text", "string", "clob") && !has(dataType, "tsvector"):
		return truncate(g.text(name, meaning, table, col.Length), col.Length)
	case dataType == "year":
		return g.f.Number(2000, 2025)
	case has(dataType, "date", "time"):
		return g.datetime(dataType, table)
	case has(dataType, "int", "serial") && !has(dataType, "point", "interval"):
		return g.integer(name, meaning, dataType, col.Length)
	case has(dataType, "decimal", "numeric", "float", "double", "real", "money", "number"):
		return g.f.Price(0.99, 99.99)
	case has(dataType, "bool", "bit"):
		return g.f.Bool()
	case dataType == "uuid" || dataType == "uniqueidentifier":
		return g.f.UUID()
	case has(dataType, "json"):
		return fmt.Sprintf(`{%q:%q}`, g.f.Word(), g.f.Word())
	case has(dataType, "tsvector"):
		return g.f.Sentence(5)
	case has(dataType, "binary", "blob", "bytea", "raw", "image"):
		return []byte(g.f.LetterN(8))
	}
	return nil
}

func (g *Generator) text(name, meaning, table string, length int) string {
	isID := strings.HasSuffix(name, "id")
	switch {
	case has(meaning, "year") || has(name, "year"):
		return strconv.Itoa(g.f.Number(2000, 2025))
	case isID:
		// keys get plain text
	case has(meaning, "phone") || has(name, "phone"):
		return g.f.Phone()
	case has(meaning, "email") || has(name, "email"):
		return g.f.Email()
	case has(meaning, "name") || has(name, "first", "last"):
		switch {
		case has(name, "first"):
			return g.f.FirstName()
		case has(name, "last"):
			return g.f.LastName()
		case length > 0 && length < 8:
			return g.f.FirstName()
		}
		return g.f.Name()
	case has(meaning, "address") || has(name, "address"):
		if has(name, "2") {
			return fmt.Sprintf("Apt %d", g.f.Number(1, 999))
		}
		return g.f.Street()
	case has(meaning, "password"):
		return g.f.Password(true, true, true, false, false, 12)
	case has(meaning, "url"):
		return g.f.URL()
	case has(meaning, "ip"):
		return g.f.IPv4Address()
	case has(meaning, "title", "subject"):
		return strings.TrimSuffix(g.f.Sentence(3), ".")
	case has(meaning, "description", "content", "comment", "text", "message"):
		return g.f.Sentence(10)
	case has(meaning, "country") || has(name, "country"):
		return g.f.Country()
	case has(meaning, "city") || has(name, "city"):
		return g.f.City()
	case has(meaning, "district", "province") || has(name, "district", "state"):
		return g.f.State()
	}
	switch {
	case has(meaning, "zipcode") || has(name, "zip", "postal"):
		return fmt.Sprintf("%05d", g.f.Number(0, 99999))
	case has(meaning, "yesno") || has(name, "active", "is_"):
		if g.f.Bool() {
			return "Y"
		}
		return "N"
	case table == "language" || table == "category":
		return fmt.Sprintf("%s-%d", g.f.Word(), g.f.Number(0, 999))
	case length > 0 && length < 20:
		return g.f.Word()
	}
	return g.f.Sentence(5)
}

// partitionMonth matches range partitions named like payment_p2024_03.
var partitionMonth = regexp.MustCompile(`_p(\d{4})_(\d{2})$`)

func (g *Generator) datetime(dataType, table string) string {
	end := g.now()
	start := end.AddDate(-1, 0, 0)
	if m := partitionMonth.FindStringSubmatch(table); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		start = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, 0).Add(-time.Second)
	}
	v := g.f.DateRange(start, end)
	switch dataType {
	case "date":
		return v.Format("2006-01-02")
	case "time":
		return v.Format("15:04:05")
	}
	return v.Format("2006-01-02 15:04:05")
}

func (g *Generator) integer(name, meaning, dataType string, length int) int {
	switch {
	case has(name, "active", "enabled", "is_") || has(meaning, "yesno"):
		return g.f.Number(0, 1)
	case has(dataType, "tinyint"):
		return g.f.Number(0, 127)
	case has(dataType, "smallint"):
		return g.f.Number(1, 30000)
	case has(name, "year") || has(meaning, "year"):
		return g.f.Number(2000, 2025)
	}
	maxVal := 50000
	if length > 0 && length < 10 {
		limit := 1
		for i := 0; i < length; i++ {
			limit *= 10
		}
		maxVal = max(9, min(maxVal, limit-1))
	}
	return g.f.Number(1, maxVal)
}

// MaxRows caps a requested count by the range of an integer key type.
func MaxRows(dataType string, requested int) int {
	var limit int
	switch strings.ToLower(dataType) {
	case "tinyint":
		limit = 255
	case "smallint":
		limit = 32767
	case "mediumint":
		limit = 8388607
	default:
		return requested
	}
	return min(limit, requested)
}
