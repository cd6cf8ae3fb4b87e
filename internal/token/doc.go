// Package token splits URL strings into lexical tokens.
//
// A URL is first cut on the structural delimiters '/', ':', '?', '=' and '&',
// then every fragment is cut again on the literal characters '.', '-' and '@'.
// Empty pieces and the stopwords "com", "www", "http" and "https" are dropped.
// The output keeps first-occurrence order and duplicates, which makes it a
// deterministic source for bag-of-tokens features.
//
// # Usage
//
//	tokens := token.Tokenize("http://www.example.com/a?x=1&y=2")
//	// [example a x 1 y 2]
package token
