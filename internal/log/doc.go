// Package log provides secure logging functionality with automatic sanitization
// of sensitive information, built on top of the standard slog package.
//
// The SecureHandler masks:
//   - HTTP headers (Authorization, Cookie, Set-Cookie, X-Api-Key)
//   - Secret values detected by pattern matching (JWTs, bearer tokens, keys)
//   - Session identifiers and authentication tokens
//   - Passwords and sensitive query parameters inside logged URLs
//
// Classified URLs often carry reset tokens or session ids in their query
// string, so every URL-looking attribute value passes through SanitizeURL.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Warn("content fetch failed",
//	    "url", "https://example.com/reset?token=abc", // token value is masked
//	)
//	slog.SetDefault(logger)
package log
