package field

import (
	"regexp"
	"strings"
)

var separatorPattern = regexp.MustCompile(`[_\-\s]+`)

// Normalize folds an identifier for comparison: lower-case, with every
// non-alphanumeric rune removed. "First Name", "first_name" and "firstName"
// all normalize to "firstname". The same helper is assumed on the classifier
// side, so both ends compare like with like.
func Normalize(s string) string {
	var out strings.Builder
	out.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			out.WriteRune(r)
		}
	}
	return out.String()
}

// Words splits an identifier into its lower-cased word tokens, breaking on
// whitespace, underscores, dashes, and camelCase boundaries.
// "organizationName" yields ["organization", "name"].
func Words(s string) []string {
	var tokens []string
	for _, chunk := range separatorPattern.Split(s, -1) {
		if chunk == "" {
			continue
		}
		for _, word := range strings.Fields(splitCamel(chunk)) {
			tokens = append(tokens, strings.ToLower(word))
		}
	}
	return tokens
}

// Compound reports whether the identifier decomposes into more than one word.
func Compound(s string) bool {
	return len(Words(s)) > 1
}

func splitCamel(input string) string {
	var out strings.Builder
	for i, r := range input {
		if i > 0 && isBoundary(input, i, r) {
			out.WriteRune(' ')
		}
		out.WriteRune(r)
	}
	return out.String()
}

func isBoundary(input string, index int, r rune) bool {
	prev := rune(input[index-1])
	return (isLower(prev) && isUpper(r)) || (isLetter(prev) && isDigit(r)) || (isDigit(prev) && isLetter(r))
}

func isUpper(r rune) bool  { return r >= 'A' && r <= 'Z' }
func isLower(r rune) bool  { return r >= 'a' && r <= 'z' }
func isDigit(r rune) bool  { return r >= '0' && r <= '9' }
func isLetter(r rune) bool { return isUpper(r) || isLower(r) }
