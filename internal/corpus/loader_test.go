package corpus

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/nao1215/malurl/internal/model"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadCSV(t *testing.T) {
	t.Parallel()

	t.Run("reads labeled rows and skips incomplete ones", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "corpus.csv", "\ufeffURLs,Class\n"+
			"http://bad.example.ru/login,1\n"+
			"https://good.example.org/,0\n"+
			",1\n"+
			"http://nolabel.example.com/,\n"+
			"http://weird.example.com/,maybe\n"+
			"http://short.example.com/\n")

		records, err := Load(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []model.URLRecord{
			model.NewLabeledRecord("http://bad.example.ru/login", model.LabelMalicious),
			model.NewLabeledRecord("https://good.example.org/", model.LabelBenign),
		}
		if len(records) != len(want) {
			t.Fatalf("expected %d records, got %d: %+v", len(want), len(records), records)
		}
		for i := range want {
			if records[i] != want[i] {
				t.Errorf("record %d: expected %+v, got %+v", i, want[i], records[i])
			}
		}
	})

	t.Run("custom columns", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "corpus.csv", "id,link,verdict\n1,http://a.example/,malicious\n2,http://b.example/,benign\n")
		records, err := Load(path, WithURLColumn("link"), WithLabelColumn("verdict"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(records) != 2 || records[0].Label != model.LabelMalicious {
			t.Errorf("unexpected records: %+v", records)
		}
	})

	t.Run("missing column", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "corpus.csv", "url,label\nhttp://a.example/,1\n")
		if _, err := Load(path); !errors.Is(err, ErrColumnNotFound) {
			t.Errorf("expected ErrColumnNotFound, got %v", err)
		}
	})

	t.Run("header only", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "corpus.csv", "URLs,Class\n")
		if _, err := Load(path); !errors.Is(err, ErrNoRows) {
			t.Errorf("expected ErrNoRows, got %v", err)
		}
	})

	t.Run("empty file", func(t *testing.T) {
		t.Parallel()

		if _, err := NewLoader().ReadCSV(strings.NewReader("")); !errors.Is(err, ErrNoRows) {
			t.Errorf("expected ErrNoRows, got %v", err)
		}
	})

	t.Run("unsupported extension", func(t *testing.T) {
		t.Parallel()

		if _, err := Load("corpus.json"); !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("expected ErrUnsupportedFormat, got %v", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		if _, err := Load(filepath.Join(t.TempDir(), "none.csv")); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected os.ErrNotExist, got %v", err)
		}
	})
}

func TestLoadXLSX(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "corpus.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"URLs", "Class"},
		{"http://bad.example.ru/", 1},
		{"https://good.example.org/", 0},
		{"", 1},
	}
	for i, row := range rows {
		cellName, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := f.SetSheetRow(sheet, cellName, &row); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save workbook: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("failed to close workbook: %v", err)
	}

	t.Run("first sheet by default", func(t *testing.T) {
		t.Parallel()

		records, err := Load(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("expected 2 records, got %+v", records)
		}
		if records[0].Label != model.LabelMalicious || records[1].Label != model.LabelBenign {
			t.Errorf("unexpected labels: %+v", records)
		}
	})

	t.Run("unknown sheet", func(t *testing.T) {
		t.Parallel()

		if _, err := Load(path, WithSheet("missing")); !errors.Is(err, ErrSheetNotFound) {
			t.Errorf("expected ErrSheetNotFound, got %v", err)
		}
	})
}

func TestReadURLList(t *testing.T) {
	t.Parallel()

	input := "# suspicious\nhttp://a.example/\n\n  https://b.example/x  \n"
	urls, err := ReadURLList(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(urls) != 2 || urls[0] != "http://a.example/" || urls[1] != "https://b.example/x" {
		t.Errorf("unexpected urls: %v", urls)
	}
}
