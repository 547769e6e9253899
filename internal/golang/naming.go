package golang

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// initialisms are written in upper case inside identifiers (golint rules).
var initialisms = map[string]bool{
	"ACL": true, "API": true, "ASCII": true, "CPU": true, "CSS": true,
	"CVV": true, "DNS": true, "EOF": true, "GUID": true, "HTML": true,
	"HTTP": true, "HTTPS": true, "ID": true, "IP": true, "JSON": true,
	"LHS": true, "QPS": true, "RAM": true, "RHS": true, "RPC": true,
	"SLA": true, "SMTP": true, "SQL": true, "SSH": true, "TCP": true,
	"TLS": true, "TTL": true, "UDP": true, "UI": true, "UID": true,
	"URI": true, "URL": true, "UTF8": true, "UUID": true, "VM": true,
	"XML": true, "XMPP": true, "XSRF": true, "XSS": true,
}

// Keywords are the Go keywords plus the predeclared identifiers generated
// code must not shadow.
var Keywords = []string{
	"break", "case", "chan", "const", "continue", "default", "defer", "else",
	"fallthrough", "for", "func", "go", "goto", "if", "import", "interface",
	"map", "package", "range", "return", "select", "struct", "switch", "type",
	"var",
	"bool", "byte", "complex64", "complex128", "error", "float32", "float64",
	"int", "int8", "int16", "int32", "int64", "nil", "rune", "string",
	"uint", "uint8", "uint16", "uint32", "uint64", "uintptr", "any",
}

func PascalCase(s string) string {
	var b strings.Builder
	for _, w := range splitWords(s) {
		b.WriteString(titleWord(w))
	}
	return b.String()
}

func CamelCase(s string) string {
	var b strings.Builder
	for i, w := range splitWords(s) {
		if i == 0 {
			b.WriteString(strings.ToLower(w))
			continue
		}
		b.WriteString(titleWord(w))
	}
	return b.String()
}

func SnakeCase(s string) string {
	words := splitWords(s)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return strings.Join(words, "_")
}

// Identifier returns an exported identifier for s; names starting with a
// digit get an "X" prefix.
func Identifier(s string) string {
	id := PascalCase(s)
	if id == "" {
		return "X"
	}
	if unicode.IsDigit(rune(id[0])) {
		return "X" + id
	}
	return id
}

func titleWord(w string) string {
	if upper := strings.ToUpper(w); initialisms[upper] {
		return upper
	}
	r, size := utf8.DecodeRuneInString(w)
	return string(unicode.ToUpper(r)) + cases.Lower(language.Und).String(w[size:])
}

// splitWords breaks s at separators, lower-to-upper case changes and the
// end of an upper case run followed by a title case word ("HTTPServer").
// Accents are stripped and every rune that cannot appear in an identifier
// separates words.
func splitWords(s string) []string {
	s = removeAccents(s)
	var words []string
	var current []rune
	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}
	var prev rune
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			prev = 0
			continue
		}
		if unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)) {
			flush()
		}
		if n := len(current); unicode.IsLower(r) && n >= 2 && unicode.IsUpper(current[n-1]) && unicode.IsUpper(current[n-2]) {
			last := current[n-1]
			current = current[:n-1]
			flush()
			current = append(current, last)
		}
		current = append(current, r)
		prev = r
	}
	flush()
	return words
}

func removeAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
