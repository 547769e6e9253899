// Package naming holds the identifier transformations shared by the IR
// builder and the orchestrator.
package naming

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Words splits s into words on separators, case transitions and
// letter/digit boundaries. "HTTPServer_v2" -> [HTTP Server v 2].
func Words(s string) []string {
	var words []string
	runes := []rune(s)
	start := -1

	flush := func(end int) {
		if start >= 0 && end > start {
			words = append(words, string(runes[start:end]))
		}
		start = -1
	}

	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush(i)
			continue
		}
		if start < 0 {
			start = i
			continue
		}
		prev := runes[i-1]
		switch {
		case unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)):
			flush(i)
		case unicode.IsUpper(prev) && unicode.IsUpper(r) && i+1 < len(runes) && unicode.IsLower(runes[i+1]):
			flush(i)
		case unicode.IsDigit(r) != unicode.IsDigit(prev):
			flush(i)
		}
		if start < 0 {
			start = i
		}
	}
	flush(len(runes))
	return words
}

// Camelize joins the words of s as CamelCase, or camelCase when
// lowercaseFirst is set. "pet_store" -> "PetStore".
func Camelize(s string, lowercaseFirst bool) string {
	var b strings.Builder
	for i, w := range Words(s) {
		w = strings.ToLower(w)
		if i == 0 && lowercaseFirst {
			b.WriteString(w)
			continue
		}
		b.WriteString(InitialCaps(w))
	}
	return b.String()
}

var (
	underscoreAcronym = regexp.MustCompile(`([A-Z]+)([A-Z][a-z])`)
	underscoreWord    = regexp.MustCompile(`([a-z\d])([A-Z])`)
)

// Underscore converts s to snake_case. Dots become path separators.
func Underscore(s string) string {
	s = strings.ReplaceAll(s, ".", "/")
	s = strings.ReplaceAll(s, "$", "__")
	s = underscoreAcronym.ReplaceAllString(s, "${1}_${2}")
	s = underscoreWord.ReplaceAllString(s, "${1}_${2}")
	s = strings.ReplaceAll(s, "-", "_")
	return strings.ToLower(s)
}

// Dashize converts s to dash-case.
func Dashize(s string) string {
	return strings.ReplaceAll(Underscore(s), "_", "-")
}

// InitialCaps upper-cases the first rune and leaves the rest untouched.
func InitialCaps(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// LowerFirst lower-cases the first rune and leaves the rest untouched.
func LowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

var (
	nameReplacer = strings.NewReplacer(
		"[]", "",
		"[", "_",
		"]", "",
		"(", "_",
		")", "",
		".", "_",
		"-", "_",
		" ", "_",
	)
	nonNameChars = regexp.MustCompile(`[^a-zA-Z0-9_]`)
	nonTagChars  = regexp.MustCompile(`[^a-zA-Z ]`)
)

// SanitizeName reduces s to the characters allowed in identifiers.
func SanitizeName(s string) string {
	if s == "$" {
		return "value"
	}
	return nonNameChars.ReplaceAllString(nameReplacer.Replace(s), "")
}

// SanitizeTag turns "pet store" into "PetStore".
func SanitizeTag(tag string) string {
	var b strings.Builder
	for _, part := range strings.Split(tag, " ") {
		if part != "" {
			b.WriteString(InitialCaps(part))
		}
	}
	return nonTagChars.ReplaceAllString(b.String(), "")
}

var (
	nonNameElements = regexp.MustCompile(`[-_:;#]`)
	firstDigits     = regexp.MustCompile(`\d+`)
)

// RemoveNonNameElementToCamelCase splits on -_:;# and joins as camelCase.
func RemoveNonNameElementToCamelCase(s string) string {
	var b strings.Builder
	for _, part := range nonNameElements.Split(s, -1) {
		b.WriteString(InitialCaps(part))
	}
	return LowerFirst(b.String())
}

// NextName increments the first number in s, or appends "2" if there is
// none: status -> status2, status2 -> status3, my100name -> my101name.
func NextName(s string) string {
	loc := firstDigits.FindStringIndex(s)
	if loc == nil {
		return s + "2"
	}
	n, err := strconv.Atoi(s[loc[0]:loc[1]])
	if err != nil {
		return s + "2"
	}
	return s[:loc[0]] + strconv.Itoa(n+1) + s[loc[1]:]
}

// EscapeJava escapes backslashes and double quotes the way a Java string
// literal would and flattens tabs and line breaks to spaces.
func EscapeJava(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\t', '\n', '\r':
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
