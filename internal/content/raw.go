package content

import (
	"strings"

	"github.com/nao1215/malurl/internal/model"
)

// RawCounts computes page-wide substring occurrence counts over the whole
// markup, including text outside script blocks.
//
// The result is for inspection (the features command) and is never fed to
// the classifier, whose input is always Extract. count_all_functions is the
// sum of the seven call counts, window_open_present is a presence flag and
// lines_count is the number of newline characters in the page.
func RawCounts(markup string, doc Document) model.ContentFeatures {
	f := model.ContentFeatures{
		CountEval:     strings.Count(markup, patternEval),
		CountEscape:   strings.Count(markup, patternEscape),
		CountUnescape: strings.Count(markup, patternUnescape),
		CountFind:     strings.Count(markup, patternFind),
		CountExec:     strings.Count(markup, patternExec),
		CountSearch:   strings.Count(markup, patternSearch),
		CountLink:     strings.Count(markup, patternLink),
		LinesCount:    strings.Count(markup, "\n"),
	}
	f.CountAllFunctions = f.CountEval + f.CountEscape + f.CountUnescape +
		f.CountFind + f.CountExec + f.CountSearch + f.CountLink

	if strings.Contains(markup, patternWindowOpen) {
		f.WindowOpenPresent = 1
	}
	if doc != nil && doc.HasElement("iframe") {
		f.IframePresent = 1
	}
	return f
}
