package model

import (
	"errors"
	"fmt"
	"strings"
)

// Label is the class assigned to a URL.
// The numeric values match the corpus encoding: 0 = benign, 1 = malicious.
type Label int

const (
	// LabelBenign marks a URL as safe.
	LabelBenign Label = iota

	// LabelMalicious marks a URL as malicious.
	LabelMalicious
)

// LabelCount is the number of classes the classifier distinguishes.
const LabelCount = 2

// Labels lists every class in index order.
var Labels = [LabelCount]Label{LabelBenign, LabelMalicious}

// ErrInvalidLabel is returned when a label value cannot be interpreted.
var ErrInvalidLabel = errors.New("invalid label: expected 0/1, benign/malicious or good/bad")

// String returns the human-readable class name used in reports.
func (l Label) String() string {
	switch l {
	case LabelBenign:
		return "Benign"
	case LabelMalicious:
		return "Malicious"
	default:
		return "Unknown"
	}
}

// Valid reports whether l is one of the known classes.
func (l Label) Valid() bool {
	return l == LabelBenign || l == LabelMalicious
}

// MarshalText implements encoding.TextMarshaler so JSON reports carry
// "Benign"/"Malicious" rather than integers.
func (l Label) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLabel, int(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Label) UnmarshalText(text []byte) error {
	parsed, err := ParseLabel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLabel converts a corpus cell into a Label.
// Accepted values (case-insensitive, surrounding spaces ignored):
// "0", "1", "0.0", "1.0", "benign", "malicious", "good", "bad".
func ParseLabel(s string) (Label, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "0", "0.0", "benign", "good":
		return LabelBenign, nil
	case "1", "1.0", "malicious", "bad":
		return LabelMalicious, nil
	default:
		return LabelBenign, fmt.Errorf("%w: %q", ErrInvalidLabel, s)
	}
}
