package fetch

import "errors"

var (
	// ErrInvalidURL is returned for URLs without an http or https scheme and host.
	ErrInvalidURL = errors.New("invalid URL: absolute http or https URL required")

	// ErrUnexpectedStatus is returned when the server answers with a non-2xx status.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")

	// ErrInvalidProxyAddress is returned when the SOCKS5 proxy address is not host:port.
	ErrInvalidProxyAddress = errors.New("invalid proxy address: expected host:port")
)
