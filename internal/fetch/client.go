package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
	"golang.org/x/net/proxy"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/time/rate"
)

// Default client settings.
const (
	// DefaultTimeout bounds one request including reading the body.
	DefaultTimeout = 5 * time.Second

	// DefaultMaxBodySize is the largest body read from a response (5MB).
	DefaultMaxBodySize int64 = 5 * 1024 * 1024

	// DefaultUserAgent is sent with every request.
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0"

	// maxRedirects stops redirect loops.
	maxRedirects = 10
)

// Client fetches page markup over HTTP.
// A Client is safe for concurrent use.
type Client struct {
	// httpClient performs the requests.
	httpClient *http.Client

	// timeout bounds each request.
	timeout time.Duration

	// maxBodySize limits how much of a response body is read.
	maxBodySize int64

	// userAgent is the User-Agent header value.
	userAgent string

	// limiter paces outbound requests. Nil means unlimited.
	limiter *rate.Limiter

	// proxyAddress routes requests through a SOCKS5 proxy when set.
	proxyAddress string

	// group coalesces concurrent fetches of the same URL.
	group singleflight.Group

	// logger receives debug output.
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithMaxBodySize sets the maximum number of body bytes read per response.
func WithMaxBodySize(size int64) Option {
	return func(c *Client) {
		if size > 0 {
			c.maxBodySize = size
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithRateLimit limits outbound requests to rps per second with the given burst.
// A non-positive rps disables the limit.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithProxy routes all requests through the SOCKS5 proxy at host:port.
func WithProxy(address string) Option {
	return func(c *Client) {
		c.proxyAddress = address
	}
}

// WithHTTPClient replaces the underlying HTTP client. The proxy option is
// ignored when a client is supplied.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a Client. It fails only for an invalid proxy address.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{
		timeout:     DefaultTimeout,
		maxBodySize: DefaultMaxBodySize,
		userAgent:   DefaultUserAgent,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		hc, err := newHTTPClient(c.proxyAddress)
		if err != nil {
			return nil, err
		}
		c.httpClient = hc
	}
	return c, nil
}

// newHTTPClient builds the default HTTP client, optionally dialing through
// a SOCKS5 proxy. The request deadline comes from the context, not from
// http.Client.Timeout.
func newHTTPClient(proxyAddress string) (*http.Client, error) {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     30 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	if proxyAddress != "" {
		if !isValidProxyAddress(proxyAddress) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidProxyAddress, proxyAddress)
		}
		dialer, err := proxy.SOCKS5("tcp", proxyAddress, nil, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		transport.Proxy = nil
		if cd, ok := dialer.(proxy.ContextDialer); ok {
			transport.DialContext = cd.DialContext
		} else {
			transport.DialContext = func(_ context.Context, network, addr string) (net.Conn, error) {
				return dialer.Dial(network, addr)
			}
		}
	}

	return &http.Client{
		Transport: transport,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}, nil
}

// Fetch returns the markup of pageURL decoded to UTF-8.
// It returns an error for invalid URLs, network failures, timeouts and
// non-2xx responses. Concurrent calls for the same URL share one request;
// each caller still returns as soon as its own context is done.
func (c *Client) Fetch(ctx context.Context, pageURL string) (string, error) {
	if !IsValidURL(pageURL) {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, pageURL)
	}

	ch := c.group.DoChan(pageURL, func() (any, error) {
		return c.fetch(ctx, pageURL)
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		if res.Shared {
			c.logger.Debug("coalesced fetch", "url", pageURL)
		}
		return res.Val.(string), nil //nolint:forcetypeassert // fetch returns string
	}
}

// fetch performs one rate-limited, time-bounded GET request.
func (c *Client) fetch(ctx context.Context, pageURL string) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limit wait: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %s returned %d", ErrUnexpectedStatus, pageURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize))
	if err != nil {
		return "", fmt.Errorf("failed to read body of %s: %w", pageURL, err)
	}

	c.logger.Debug("fetched page",
		"url", pageURL,
		"status", resp.StatusCode,
		"bytes", len(body),
		"duration", time.Since(start))

	return decode(body, resp.Header.Get("Content-Type")), nil
}

// decode converts body to UTF-8. The charset comes from the Content-Type
// header if present, else from meta tags or byte sniffing. Unknown charsets
// leave the body unchanged.
func decode(body []byte, contentType string) string {
	name := ""
	if _, params, err := mime.ParseMediaType(contentType); err == nil {
		name = strings.ToLower(strings.TrimSpace(params["charset"]))
	}
	if name == "" {
		_, name, _ = charset.DetermineEncoding(body, contentType)
	}
	if name == "" || name == "utf-8" || name == "utf8" {
		return string(body)
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return string(body)
	}
	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return string(body)
	}
	return string(bytes.ToValidUTF8(decoded, []byte("�")))
}
