package model

// ContentFeatureCount is the number of content feature columns.
// It is part of the matrix layout contract and must never change between
// fit and predict.
const ContentFeatureCount = 11

// ContentFeatureNames lists the content feature columns in matrix order.
var ContentFeatureNames = [ContentFeatureCount]string{
	"iframe_present",
	"count_eval",
	"count_escape",
	"count_unescape",
	"count_find",
	"count_exec",
	"count_search",
	"count_link",
	"count_all_functions",
	"window_open_present",
	"lines_count",
}

// ContentFeatures describes structural and script risk indicators of a page.
// Field order is the column order of Vector and must match ContentFeatureNames.
// The zero value is the vector used when content could not be fetched or parsed.
type ContentFeatures struct {
	// IframePresent is 1 if the page contains at least one <iframe>, else 0.
	IframePresent int `json:"iframe_present"`

	// CountEval is the number of script blocks containing "eval(".
	CountEval int `json:"count_eval"`

	// CountEscape is the number of script blocks containing "escape(".
	CountEscape int `json:"count_escape"`

	// CountUnescape is the number of script blocks containing "unescape(".
	CountUnescape int `json:"count_unescape"`

	// CountFind is the number of script blocks containing "find(".
	CountFind int `json:"count_find"`

	// CountExec is the number of script blocks containing "exec(".
	CountExec int `json:"count_exec"`

	// CountSearch is the number of script blocks containing "search(".
	CountSearch int `json:"count_search"`

	// CountLink is the number of script blocks containing "link(".
	CountLink int `json:"count_link"`

	// CountAllFunctions is the number of script blocks containing any of the
	// seven call patterns above. A block matching several counts once.
	CountAllFunctions int `json:"count_all_functions"`

	// WindowOpenPresent is 1 if any script block contains "window.open(", else 0.
	WindowOpenPresent int `json:"window_open_present"`

	// LinesCount is the total number of lines across all script blocks.
	LinesCount int `json:"lines_count"`
}

// Vector returns the features in matrix column order.
func (c ContentFeatures) Vector() [ContentFeatureCount]float64 {
	return [ContentFeatureCount]float64{
		float64(c.IframePresent),
		float64(c.CountEval),
		float64(c.CountEscape),
		float64(c.CountUnescape),
		float64(c.CountFind),
		float64(c.CountExec),
		float64(c.CountSearch),
		float64(c.CountLink),
		float64(c.CountAllFunctions),
		float64(c.WindowOpenPresent),
		float64(c.LinesCount),
	}
}

// IsZero reports whether every feature is zero.
func (c ContentFeatures) IsZero() bool {
	return c == ContentFeatures{}
}
