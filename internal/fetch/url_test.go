package fetch

import (
	"net/url"
	"testing"
)

func TestIsValidURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"http", "http://example.com", true},
		{"https with path", "https://example.com/a?b=c", true},
		{"surrounding spaces", "  https://example.com  ", true},
		{"relative path", "/login.php", false},
		{"no scheme", "example.com/path", false},
		{"ftp", "ftp://example.com/file", false},
		{"javascript", "javascript:alert(1)", false},
		{"scheme without host", "http://", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsValidURL(tt.url); got != tt.want {
				t.Errorf("IsValidURL(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestResolveURL(t *testing.T) {
	t.Parallel()

	base, err := url.Parse("https://example.com/dir/page.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		href string
		want string
	}{
		{"other.html", "https://example.com/dir/other.html"},
		{"/root", "https://example.com/root"},
		{"//cdn.example.net/x.js", "https://cdn.example.net/x.js"},
		{"http://other.org/#frag", "http://other.org/"},
		{"#top", ""},
		{"javascript:void(0)", ""},
		{"MAILTO:a@example.com", ""},
		{"tel:123", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.href, func(t *testing.T) {
			t.Parallel()
			if got := resolveURL(base, tt.href); got != tt.want {
				t.Errorf("resolveURL(%q) = %q, want %q", tt.href, got, tt.want)
			}
		})
	}
}

func TestIsValidProxyAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		addr string
		want bool
	}{
		{"127.0.0.1:9050", true},
		{"proxy.local:1080", true},
		{"127.0.0.1", false},
		{":9050", false},
		{"127.0.0.1:0", false},
		{"127.0.0.1:70000", false},
		{"127.0.0.1:abc", false},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			t.Parallel()
			if got := isValidProxyAddress(tt.addr); got != tt.want {
				t.Errorf("isValidProxyAddress(%q) = %v, want %v", tt.addr, got, tt.want)
			}
		})
	}
}
