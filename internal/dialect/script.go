package dialect

import "strings"

// SplitScript cuts a generated script into statements at semicolons that
// sit outside string literals and quoted identifiers. Statements come back
// trimmed and without their terminator; empty ones are dropped.
func (d *Data) SplitScript(script string) []string {
	var out []string
	flush := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}

	start := 0
	for i := 0; i < len(script); i++ {
		switch {
		case script[i] == '\'':
			i = d.skipString(script, i+1)
		case strings.HasPrefix(script[i:], d.quoteOpen):
			i = d.skipIdentifier(script, i+len(d.quoteOpen))
		case script[i] == ';':
			flush(script[start:i])
			start = i + 1
		}
	}
	flush(script[start:])
	return out
}

// skipString returns the index of the quote closing the literal that opens
// just before i. A doubled quote closes and reopens, so it needs no case.
func (d *Data) skipString(s string, i int) int {
	for ; i < len(s); i++ {
		switch {
		case s[i] == '\\' && d.escape == escapeBackslash:
			i++
		case s[i] == '\'':
			return i
		}
	}
	return len(s)
}

func (d *Data) skipIdentifier(s string, i int) int {
	for i < len(s) {
		switch {
		case d.quoteEscape != "" && strings.HasPrefix(s[i:], d.quoteEscape):
			i += len(d.quoteEscape)
		case strings.HasPrefix(s[i:], d.quoteClose):
			return i + len(d.quoteClose) - 1
		default:
			i++
		}
	}
	return len(s)
}
