package content

import (
	"testing"

	"github.com/nao1215/malurl/internal/model"
)

// fakeDocument is a Document with fixed answers.
type fakeDocument struct {
	iframe  bool
	scripts []string
}

func (d fakeDocument) HasElement(tag string) bool { return tag == "iframe" && d.iframe }
func (d fakeDocument) ScriptTexts() []string      { return d.scripts }

// TestExtract tests feature extraction from a parsed document.
func TestExtract(t *testing.T) {
	t.Parallel()

	t.Run("no scripts leaves script fields zero", func(t *testing.T) {
		t.Parallel()

		got := Extract(fakeDocument{iframe: true})
		want := model.ContentFeatures{IframePresent: 1}
		if got != want {
			t.Errorf("got %+v, expected %+v", got, want)
		}
	})

	t.Run("no scripts and no iframe is zero", func(t *testing.T) {
		t.Parallel()

		if got := Extract(fakeDocument{}); !got.IsZero() {
			t.Errorf("expected zero vector, got %+v", got)
		}
	})

	t.Run("eval and window.open in one block", func(t *testing.T) {
		t.Parallel()

		got := Extract(fakeDocument{scripts: []string{"eval(x); window.open(y)"}})
		want := model.ContentFeatures{
			CountEval:         1,
			CountAllFunctions: 1,
			WindowOpenPresent: 1,
			LinesCount:        1,
		}
		if got != want {
			t.Errorf("got %+v, expected %+v", got, want)
		}
	})

	t.Run("counts presence per block not occurrences", func(t *testing.T) {
		t.Parallel()

		got := Extract(fakeDocument{scripts: []string{
			"eval(a); eval(b); eval(c)",
			"eval(d)",
			"var x = 1;",
		}})
		if got.CountEval != 2 {
			t.Errorf("expected count_eval 2, got %d", got.CountEval)
		}
		if got.CountAllFunctions != 2 {
			t.Errorf("expected count_all_functions 2, got %d", got.CountAllFunctions)
		}
	})

	t.Run("block matching several patterns counts once in all functions", func(t *testing.T) {
		t.Parallel()

		got := Extract(fakeDocument{scripts: []string{
			"eval(a); exec(b); s.search(c); link(d); find(e)",
		}})
		if got.CountAllFunctions != 1 {
			t.Errorf("expected count_all_functions 1, got %d", got.CountAllFunctions)
		}
		if got.CountEval != 1 || got.CountExec != 1 || got.CountSearch != 1 || got.CountLink != 1 || got.CountFind != 1 {
			t.Errorf("unexpected per-pattern counts: %+v", got)
		}
	})

	t.Run("unescape also matches escape", func(t *testing.T) {
		t.Parallel()

		got := Extract(fakeDocument{scripts: []string{"unescape('%41')"}})
		if got.CountUnescape != 1 || got.CountEscape != 1 {
			t.Errorf("expected unescape and escape counted, got %+v", got)
		}
	})

	t.Run("pattern without parenthesis is not counted", func(t *testing.T) {
		t.Parallel()

		got := Extract(fakeDocument{scripts: []string{"var evaluation = window.open;"}})
		if got.CountEval != 0 || got.WindowOpenPresent != 0 || got.CountAllFunctions != 0 {
			t.Errorf("expected no matches, got %+v", got)
		}
	})

	t.Run("lines are summed across blocks", func(t *testing.T) {
		t.Parallel()

		got := Extract(fakeDocument{scripts: []string{"a\nb\nc", "d\r\ne\n", ""}})
		if got.LinesCount != 5 {
			t.Errorf("expected 5 lines, got %d", got.LinesCount)
		}
	})

	t.Run("nil document is zero", func(t *testing.T) {
		t.Parallel()

		if got := Extract(nil); !got.IsZero() {
			t.Errorf("expected zero vector, got %+v", got)
		}
	})
}

// TestCountLines tests line counting edge cases.
func TestCountLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"a", 1},
		{"a\n", 1},
		{"a\nb", 2},
		{"\n", 1},
		{"\n\n", 2},
		{"a\r\nb", 2},
		{"a\rb\r", 2},
		{"a\n\nb", 3},
		{"a\vb\fc", 3},
		{"a\x1cb\x1dc\x1ed", 4},
		{"a\u0085b", 2},
		{"a\u2028b\u2029", 2},
		{"a\r\n\r\nb", 3},
	}

	for _, tt := range tests {
		if got := countLines(tt.text); got != tt.want {
			t.Errorf("countLines(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

// TestExtractMarkup tests extraction through the goquery-backed parser.
func TestExtractMarkup(t *testing.T) {
	t.Parallel()

	t.Run("empty markup is zero", func(t *testing.T) {
		t.Parallel()

		if got := ExtractMarkup(""); !got.IsZero() {
			t.Errorf("expected zero vector, got %+v", got)
		}
	})

	t.Run("page without scripts reports iframe only", func(t *testing.T) {
		t.Parallel()

		markup := `<html><body><p>hello eval(x)</p><iframe src="http://ads.example/"></iframe></body></html>`
		got := ExtractMarkup(markup)
		want := model.ContentFeatures{IframePresent: 1}
		if got != want {
			t.Errorf("got %+v, expected %+v", got, want)
		}
	})

	t.Run("page with scripts", func(t *testing.T) {
		t.Parallel()

		markup := `<html><head>
<script>eval(x); window.open(y)</script>
<script>
var s = unescape("%u0041");
document.write(s);
</script>
<script src="/app.js"></script>
</head><body></body></html>`

		got := ExtractMarkup(markup)
		if got.IframePresent != 0 {
			t.Errorf("expected no iframe, got %d", got.IframePresent)
		}
		if got.CountEval != 1 {
			t.Errorf("expected count_eval 1, got %d", got.CountEval)
		}
		if got.CountUnescape != 1 || got.CountEscape != 1 {
			t.Errorf("expected unescape/escape 1, got %d/%d", got.CountUnescape, got.CountEscape)
		}
		if got.CountAllFunctions != 2 {
			t.Errorf("expected count_all_functions 2, got %d", got.CountAllFunctions)
		}
		if got.WindowOpenPresent != 1 {
			t.Errorf("expected window_open_present 1, got %d", got.WindowOpenPresent)
		}
		// First block: 1 line. Second block: "\n" + two statements + "\n" = 3 lines.
		if got.LinesCount != 4 {
			t.Errorf("expected 4 lines, got %d", got.LinesCount)
		}
	})

	t.Run("malformed markup still parses", func(t *testing.T) {
		t.Parallel()

		got := ExtractMarkup(`<div><script>exec(cmd)`)
		if got.CountExec != 1 {
			t.Errorf("expected count_exec 1, got %+v", got)
		}
	})
}

// TestRawCounts tests page-wide substring counting.
func TestRawCounts(t *testing.T) {
	t.Parallel()

	markup := "<p>eval(1) eval(2)</p>\n<script>unescape(x)</script>\n"
	doc, err := ParseDocument(markup)
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}

	got := RawCounts(markup, doc)
	if got.CountEval != 2 {
		t.Errorf("expected 2 eval occurrences, got %d", got.CountEval)
	}
	if got.CountUnescape != 1 || got.CountEscape != 1 {
		t.Errorf("expected unescape/escape 1, got %d/%d", got.CountUnescape, got.CountEscape)
	}
	if got.CountAllFunctions != 4 {
		t.Errorf("expected sum 4, got %d", got.CountAllFunctions)
	}
	if got.LinesCount != 2 {
		t.Errorf("expected 2 newlines, got %d", got.LinesCount)
	}
}
