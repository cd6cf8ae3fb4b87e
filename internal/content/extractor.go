package content

import (
	"strings"

	"github.com/nao1215/malurl/internal/model"
)

// Script call patterns counted per script block, in feature order.
const (
	patternEval       = "eval("
	patternEscape     = "escape("
	patternUnescape   = "unescape("
	patternFind       = "find("
	patternExec       = "exec("
	patternSearch     = "search("
	patternLink       = "link("
	patternWindowOpen = "window.open("
)

// suspiciousCalls lists the patterns that make up count_all_functions.
var suspiciousCalls = []string{
	patternEval,
	patternEscape,
	patternUnescape,
	patternFind,
	patternExec,
	patternSearch,
	patternLink,
}

// Extract computes the content feature vector of a parsed document.
// A nil document yields the zero vector.
func Extract(doc Document) model.ContentFeatures {
	var f model.ContentFeatures
	if doc == nil {
		return f
	}

	if doc.HasElement("iframe") {
		f.IframePresent = 1
	}

	for _, text := range doc.ScriptTexts() {
		f.CountEval += presence(text, patternEval)
		f.CountEscape += presence(text, patternEscape)
		f.CountUnescape += presence(text, patternUnescape)
		f.CountFind += presence(text, patternFind)
		f.CountExec += presence(text, patternExec)
		f.CountSearch += presence(text, patternSearch)
		f.CountLink += presence(text, patternLink)

		if containsAny(text, suspiciousCalls) {
			f.CountAllFunctions++
		}
		if strings.Contains(text, patternWindowOpen) {
			f.WindowOpenPresent = 1
		}

		f.LinesCount += countLines(text)
	}

	return f
}

// ExtractMarkup parses markup and extracts its content features.
// Empty or unparseable markup yields the zero vector.
func ExtractMarkup(markup string) model.ContentFeatures {
	if markup == "" {
		return model.ContentFeatures{}
	}
	doc, err := ParseDocument(markup)
	if err != nil {
		return model.ContentFeatures{}
	}
	return Extract(doc)
}

// presence returns 1 if text contains pattern, else 0.
func presence(text, pattern string) int {
	if strings.Contains(text, pattern) {
		return 1
	}
	return 0
}

// containsAny reports whether text contains at least one of the patterns.
func containsAny(text string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

// countLines counts the lines of text. "\r\n" is one break, a trailing
// break does not start a new line, and empty text has no lines.
func countLines(text string) int {
	n := 0
	open := false
	for i, r := range text {
		if !isLineBreak(r) {
			open = true
			continue
		}
		if r == '\n' && i > 0 && text[i-1] == '\r' {
			continue
		}
		n++
		open = false
	}
	if open {
		n++
	}
	return n
}

// isLineBreak reports whether r ends a line.
func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}
