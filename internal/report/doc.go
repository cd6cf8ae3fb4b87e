// Package report renders classification results.
//
// This package contains writers for different output formats:
//   - SimpleWriter: Human-readable text tables for terminal display
//   - JSONWriter: Structured JSON output for tool integration
//   - MarkdownWriter: Markdown documents with a verdict pie chart
//
// Every writer renders the same four documents: a classification run, a
// model evaluation, the content features of a single page and the run
// history. Writers implement the Writer interface so they can be composed
// with MultiWriter.
package report
