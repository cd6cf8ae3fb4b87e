// Package content extracts structural and script risk indicators from page
// markup.
//
// # Components
//
//   - Document: the parsed-markup view the extractor needs (element lookup by
//     tag and the text of every script block)
//   - HTMLDocument: a Document backed by goquery
//   - Extract / ExtractMarkup: build the 11-field model.ContentFeatures vector
//   - RawCounts: page-wide substring counts, for inspection only
//
// Counting follows per-script-block presence semantics: a block that contains
// "eval(" three times adds one to count_eval. Content is best-effort evidence,
// so markup that cannot be parsed yields the zero vector instead of an error.
//
// # Usage
//
//	features := content.ExtractMarkup(markup)
//	row := features.Vector()
package content
