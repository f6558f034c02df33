package transport

import "errors"

// Proxy configuration errors.
var (
	// ErrInvalidProxyAddress is returned when the proxy URL cannot be parsed
	// or its host is not in "host:port" form.
	ErrInvalidProxyAddress = errors.New("invalid proxy address: expected [scheme://]host:port")

	// ErrUnsupportedProxyScheme is returned for proxy schemes other than
	// socks5, socks5h, http and https.
	ErrUnsupportedProxyScheme = errors.New("unsupported proxy scheme")
)
