package content

import (
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrNilDocument is returned when a nil document is supplied.
var ErrNilDocument = errors.New("nil document")

// Document is a parsed page as seen by the extractor.
// Implementations must be safe for concurrent reads.
type Document interface {
	// HasElement reports whether at least one element with the tag exists.
	HasElement(tag string) bool

	// ScriptTexts returns the text of every <script> element in document order.
	ScriptTexts() []string
}

// HTMLDocument is a Document backed by a goquery document.
type HTMLDocument struct {
	doc *goquery.Document
}

// ParseDocument parses markup into an HTMLDocument.
// The HTML5 parser recovers from malformed markup, so errors only surface
// for reader failures.
func ParseDocument(markup string) (*HTMLDocument, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, err
	}
	return &HTMLDocument{doc: doc}, nil
}

// NewHTMLDocument wraps an already parsed goquery document.
func NewHTMLDocument(doc *goquery.Document) (*HTMLDocument, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}
	return &HTMLDocument{doc: doc}, nil
}

// HasElement reports whether the document contains an element with the tag.
func (d *HTMLDocument) HasElement(tag string) bool {
	return d.doc.Find(tag).Length() > 0
}

// ScriptTexts returns the text content of every script element.
func (d *HTMLDocument) ScriptTexts() []string {
	scripts := d.doc.Find("script")
	texts := make([]string, 0, scripts.Length())
	scripts.Each(func(_ int, s *goquery.Selection) {
		texts = append(texts, s.Text())
	})
	return texts
}

// Goquery exposes the underlying document for link discovery and other
// selectors the Document interface does not cover.
func (d *HTMLDocument) Goquery() *goquery.Document {
	return d.doc
}
