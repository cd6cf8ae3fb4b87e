package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewClient(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		c, err := NewClient()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.timeout != DefaultTimeout {
			t.Errorf("expected timeout %v, got %v", DefaultTimeout, c.timeout)
		}
		if c.maxBodySize != DefaultMaxBodySize {
			t.Errorf("expected max body %d, got %d", DefaultMaxBodySize, c.maxBodySize)
		}
		if c.limiter != nil {
			t.Error("expected no rate limit by default")
		}
	})

	t.Run("options", func(t *testing.T) {
		t.Parallel()

		c, err := NewClient(
			WithTimeout(time.Second),
			WithMaxBodySize(10),
			WithUserAgent("test-agent"),
			WithRateLimit(5, 2),
			WithProxy("127.0.0.1:9050"),
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.timeout != time.Second || c.maxBodySize != 10 || c.userAgent != "test-agent" {
			t.Errorf("options not applied: %+v", c)
		}
		if c.limiter == nil || c.limiter.Burst() != 2 {
			t.Error("expected rate limiter with burst 2")
		}
	})

	t.Run("invalid proxy", func(t *testing.T) {
		t.Parallel()

		if _, err := NewClient(WithProxy("not-an-address")); !errors.Is(err, ErrInvalidProxyAddress) {
			t.Errorf("expected ErrInvalidProxyAddress, got %v", err)
		}
	})
}

func TestClientFetch(t *testing.T) {
	t.Parallel()

	t.Run("returns body and sends user agent", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("User-Agent") != "malurl-test" {
				t.Errorf("unexpected user agent %q", r.Header.Get("User-Agent"))
			}
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte("<html><script>eval(1)</script></html>"))
		}))
		defer server.Close()

		c, err := NewClient(WithUserAgent("malurl-test"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		body, err := c.Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(body, "eval(1)") {
			t.Errorf("unexpected body %q", body)
		}
	})

	t.Run("non 2xx status fails", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "gone", http.StatusNotFound)
		}))
		defer server.Close()

		c, err := NewClient()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := c.Fetch(context.Background(), server.URL); !errors.Is(err, ErrUnexpectedStatus) {
			t.Errorf("expected ErrUnexpectedStatus, got %v", err)
		}
	})

	t.Run("relative URL fails without request", func(t *testing.T) {
		t.Parallel()

		c, err := NewClient()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := c.Fetch(context.Background(), "/relative/path"); !errors.Is(err, ErrInvalidURL) {
			t.Errorf("expected ErrInvalidURL, got %v", err)
		}
	})

	t.Run("timeout fails", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer server.Close()
		defer close(release)

		c, err := NewClient(WithTimeout(50 * time.Millisecond))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := c.Fetch(context.Background(), server.URL); err == nil {
			t.Error("expected timeout error")
		}
	})

	t.Run("body is truncated to max size", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(strings.Repeat("a", 100)))
		}))
		defer server.Close()

		c, err := NewClient(WithMaxBodySize(10))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		body, err := c.Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(body) != 10 {
			t.Errorf("expected 10 bytes, got %d", len(body))
		}
	})

	t.Run("latin1 body is decoded", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=ISO-8859-1")
			_, _ = w.Write([]byte{'c', 'a', 'f', 0xe9})
		}))
		defer server.Close()

		c, err := NewClient()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		body, err := c.Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if body != "café" {
			t.Errorf("expected café, got %q", body)
		}
	})

	t.Run("concurrent fetches of one URL are coalesced", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int32
		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			hits.Add(1)
			<-release
			_, _ = w.Write([]byte("ok"))
		}))
		defer server.Close()

		c, err := NewClient()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var wg sync.WaitGroup
		for range 5 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := c.Fetch(context.Background(), server.URL); err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			}()
		}

		// Give every goroutine time to join the in-flight request.
		time.Sleep(100 * time.Millisecond)
		close(release)
		wg.Wait()

		if hits.Load() != 1 {
			t.Errorf("expected 1 request, got %d", hits.Load())
		}
	})

	t.Run("cancelled context fails", func(t *testing.T) {
		t.Parallel()

		c, err := NewClient()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := c.Fetch(ctx, "http://127.0.0.1:1/"); err == nil {
			t.Error("expected error for cancelled context")
		}
	})
}

func TestClientLinks(t *testing.T) {
	t.Parallel()

	var serverURL string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body>
			<a href="/login">login</a>
			<a href="/login">again</a>
			<a href="https://evil.example.net/phish">external</a>
			<a href="mailto:x@example.com">mail</a>
			<a href="#top">top</a>
			<a href="` + serverURL + `/abs">abs</a>
		</body></html>`))
	}))
	t.Cleanup(server.Close)
	serverURL = server.URL

	c, err := NewClient()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("all links", func(t *testing.T) {
		t.Parallel()

		links, err := c.Links(context.Background(), server.URL, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{server.URL + "/login", "https://evil.example.net/phish", server.URL + "/abs"}
		if len(links) != len(want) {
			t.Fatalf("expected %v, got %v", want, links)
		}
		for i := range want {
			if links[i] != want[i] {
				t.Errorf("link %d: expected %q, got %q", i, want[i], links[i])
			}
		}
	})

	t.Run("same site only", func(t *testing.T) {
		t.Parallel()

		links, err := c.Links(context.Background(), server.URL, true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, l := range links {
			if strings.Contains(l, "evil.example.net") {
				t.Errorf("unexpected external link %q", l)
			}
		}
		if len(links) != 2 {
			t.Errorf("expected 2 links, got %v", links)
		}
	})
}

func TestExtractLinks(t *testing.T) {
	t.Parallel()

	markup := `<a href="https://a.example.co.uk/x">a</a><a href="https://b.example.co.uk/y">b</a><a href="https://other.co.uk/">c</a>`

	links, err := ExtractLinks("https://www.example.co.uk/", markup, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(links) != 2 {
		t.Errorf("expected 2 same-site links, got %v", links)
	}

	if _, err := ExtractLinks("not a url", markup, false); !errors.Is(err, ErrInvalidURL) {
		t.Errorf("expected ErrInvalidURL, got %v", err)
	}
}
