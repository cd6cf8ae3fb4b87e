package token

import "strings"

// stopwords are subtokens carrying no signal in almost every URL.
var stopwords = map[string]struct{}{
	"com":   {},
	"www":   {},
	"http":  {},
	"https": {},
}

// isStructuralDelimiter reports whether r separates URL components.
func isStructuralDelimiter(r rune) bool {
	switch r {
	case '/', ':', '?', '=', '&':
		return true
	}
	return false
}

// isFragmentDelimiter reports whether r separates words inside a component.
// The set is matched literally; '-' is a character here, not a range.
func isFragmentDelimiter(r rune) bool {
	switch r {
	case '.', '-', '@':
		return true
	}
	return false
}

// Tokenize turns a raw URL into its token sequence.
// The result never contains empty strings or stopwords and is never nil.
func Tokenize(rawURL string) []string {
	tokens := make([]string, 0)

	for _, fragment := range strings.FieldsFunc(rawURL, isStructuralDelimiter) {
		if strings.TrimSpace(fragment) == "" {
			continue
		}
		for _, sub := range strings.FieldsFunc(fragment, isFragmentDelimiter) {
			if IsStopword(sub) {
				continue
			}
			tokens = append(tokens, sub)
		}
	}

	return tokens
}

// IsStopword reports whether s is dropped by Tokenize.
func IsStopword(s string) bool {
	_, ok := stopwords[s]
	return ok
}
