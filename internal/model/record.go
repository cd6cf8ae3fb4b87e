package model

// URLRecord is a single URL row of the corpus or of a classification request.
// Label is meaningful only when Labeled is true (training rows).
type URLRecord struct {
	// URL is the raw URL string as it appeared in the input.
	URL string `json:"url"`

	// Label is the known class of the URL for training rows.
	Label Label `json:"label"`

	// Labeled reports whether Label carries a value.
	Labeled bool `json:"labeled"`
}

// NewLabeledRecord creates a training row.
func NewLabeledRecord(url string, label Label) URLRecord {
	return URLRecord{URL: url, Label: label, Labeled: true}
}

// NewRecord creates an unlabeled row for prediction.
func NewRecord(url string) URLRecord {
	return URLRecord{URL: url}
}

// NewRecords wraps plain URLs into unlabeled records, preserving order.
func NewRecords(urls []string) []URLRecord {
	records := make([]URLRecord, len(urls))
	for i, u := range urls {
		records[i] = NewRecord(u)
	}
	return records
}

// URLs extracts the URL strings from records, preserving order.
func URLs(records []URLRecord) []string {
	urls := make([]string, len(records))
	for i, r := range records {
		urls[i] = r.URL
	}
	return urls
}
