package match

import (
	"strings"
	"unicode"
)

// NormalizeClassName converts a class name to its dotted form, accepting
// the internal "/" separated form as input.
func NormalizeClassName(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(name), "/", ".")
}

// InternalClassName converts a class name to its "/" separated form.
func InternalClassName(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(name), ".", "/")
}

// NormalizeIdent folds an identifier for fuzzy comparison: CamelCase tokens
// and separators are collapsed and the result is lower-cased.
//   - "getHTTPResponse" -> "gethttpresponse"
//   - "do_work" -> "dowork"
func NormalizeIdent(s string) string {
	return strings.ToLower(strings.Join(tokenizeCamelCase(s), ""))
}

// tokenizeCamelCase splits an identifier on separators and case changes.
//   - "OrderID" -> ["Order", "ID"]
//   - "XMLParser" -> ["XML", "Parser"]
//   - "run$lambda_0" -> ["run", "lambda", "0"]
func tokenizeCamelCase(s string) []string {
	var (
		tokens  []string
		current strings.Builder
	)

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			flush()
			continue
		}
		if i > 0 && startsToken(runes, i) {
			flush()
		}
		current.WriteRune(r)
	}
	flush()

	return tokens
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' ' || r == '$'
}

// startsToken reports whether a new token begins at runes[i].
func startsToken(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]
	if isSeparator(prev) || !unicode.IsUpper(r) {
		return false
	}
	if !unicode.IsUpper(prev) {
		return true
	}
	// End of an acronym: "XMLParser" splits before 'P'.
	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
