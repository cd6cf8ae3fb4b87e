// Package fetch retrieves page markup and hyperlinks for URL classification.
//
// The Client is the content collaborator of the classifier: given a URL it
// returns the decoded page markup or an error. Callers treat every error as
// "no content" and fall back to an all-zero content feature vector, so Fetch
// never panics and always honours the context and per-request timeout.
//
// Concurrent requests for the same URL are coalesced, and outbound requests
// can be paced with a token-bucket rate limit or routed through a SOCKS5
// proxy.
package fetch
