package seed

import "strings"

// abbreviations expands the short forms common in column names.
var abbreviations = map[string]string{
	"nm": "name", "dt": "date", "no": "number", "cd": "code",
	"desc": "description", "amt": "amount", "cnt": "count", "qty": "quantity",
	"addr": "address", "tel": "phone", "hp": "phone", "ph": "phone", "mobile": "phone",
	"biz": "business", "pwd": "password", "passwd": "password", "pw": "password",
	"img": "image", "ip": "ip", "zip": "zipcode", "postal": "zipcode", "post": "zipcode",
	"msg": "message", "txt": "text", "tit": "title", "subj": "subject",
	"doc": "document", "usr": "user", "emp": "employee",
	"dept": "department", "grp": "group", "cat": "category",
	"loc": "location", "lat": "latitude", "lng": "longitude", "lon": "longitude",
	"st": "street", "prov": "province", "dist": "district",
	"bal": "balance", "avg": "average", "uid": "id", "pid": "id",

	"reg": "registered", "mod": "modified", "del": "deleted", "cre": "created",
	"upd": "updated", "yn": "yesno", "stat": "status", "sts": "status",
	"typ": "type", "val": "value", "ord": "order", "seq": "sequence", "idx": "index",
	"is": "yesno", "use": "yesno", "flg": "flag",
}

// commentHints maps words found in a column comment to a meaning. The
// first matching rule wins.
var commentHints = []struct {
	meaning string
	words   []string
}{
	{"phone", []string{"phone", "mobile", "telephone", "contact number"}},
	{"email", []string{"email", "e-mail", "mail"}},
	{"address", []string{"address", "residence"}},
	{"zipcode", []string{"zip", "postal"}},
	{"name", []string{"name"}},
	{"id", []string{"user_id", "login"}},
	{"password", []string{"password", "secret"}},
	{"title", []string{"title", "subject", "headline"}},
	{"description", []string{"description", "desc", "content", "body"}},
	{"date", []string{"date", "time"}},
	{"price", []string{"price", "cost", "amount"}},
	{"count", []string{"count", "qty", "quantity"}},
	{"yesno", []string{"flag", "whether", "yn"}},
	{"country", []string{"country", "nation"}},
	{"city", []string{"city", "town"}},
	{"url", []string{"url", "link", "homepage"}},
	{"ip", []string{"ip address"}},
}

// AnalyzeMeaning guesses what a column holds. A comment keyword takes
// precedence; otherwise the column name is split on underscores and known
// abbreviations are expanded, e.g. "usr_addr" becomes "user address".
func AnalyzeMeaning(colName, comment string) string {
	c := strings.ToLower(comment)
	if c != "" {
		for _, h := range commentHints {
			for _, w := range h.words {
				if strings.Contains(c, w) {
					return h.meaning
				}
			}
		}
	}

	parts := strings.Split(strings.ToLower(colName), "_")
	for i, p := range parts {
		if full, ok := abbreviations[p]; ok {
			parts[i] = full
		}
	}
	return strings.Join(parts, " ")
}
