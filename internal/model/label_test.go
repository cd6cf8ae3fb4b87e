package model

import (
	"encoding/json"
	"errors"
	"testing"
)

// TestLabelString tests the String method of Label.
func TestLabelString(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		label    Label
		expected string
	}{
		{LabelBenign, "Benign"},
		{LabelMalicious, "Malicious"},
		{Label(7), "Unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			t.Parallel()
			if tc.label.String() != tc.expected {
				t.Errorf("got %q, expected %q", tc.label.String(), tc.expected)
			}
		})
	}
}

// TestParseLabel tests corpus label parsing.
func TestParseLabel(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input   string
		want    Label
		wantErr bool
	}{
		{"0", LabelBenign, false},
		{"1", LabelMalicious, false},
		{" 1.0 ", LabelMalicious, false},
		{"0.0", LabelBenign, false},
		{"Malicious", LabelMalicious, false},
		{"BENIGN", LabelBenign, false},
		{"bad", LabelMalicious, false},
		{"good", LabelBenign, false},
		{"", LabelBenign, true},
		{"2", LabelBenign, true},
		{"maybe", LabelBenign, true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParseLabel(tc.input)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidLabel) {
					t.Errorf("expected ErrInvalidLabel, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %v, expected %v", got, tc.want)
			}
		})
	}
}

// TestLabelJSON verifies labels serialize as class names.
func TestLabelJSON(t *testing.T) {
	t.Parallel()

	t.Run("marshals to class name", func(t *testing.T) {
		t.Parallel()

		data, err := json.Marshal(struct {
			Label Label `json:"label"`
		}{Label: LabelMalicious})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(data) != `{"label":"Malicious"}` {
			t.Errorf("unexpected JSON: %s", data)
		}
	})

	t.Run("unmarshals class name", func(t *testing.T) {
		t.Parallel()

		var v struct {
			Label Label `json:"label"`
		}
		if err := json.Unmarshal([]byte(`{"label":"Benign"}`), &v); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v.Label != LabelBenign {
			t.Errorf("expected Benign, got %v", v.Label)
		}
	})

	t.Run("invalid label fails to marshal", func(t *testing.T) {
		t.Parallel()

		if _, err := Label(5).MarshalText(); !errors.Is(err, ErrInvalidLabel) {
			t.Errorf("expected ErrInvalidLabel, got %v", err)
		}
	})
}
