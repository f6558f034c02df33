package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/proxy"
)

// Options describes how outbound connections to the LIS API are made.
type Options struct {
	// Timeout bounds a whole request, including reading the body.
	// Zero means no timeout.
	Timeout time.Duration

	// InsecureSkipVerify disables TLS certificate verification.
	// The LIS API serves an incomplete certificate chain, so this is
	// required to reach it from a stock trust store.
	InsecureSkipVerify bool

	// ProxyURL routes traffic through a proxy.
	// Supported schemes are socks5, socks5h, http and https.
	// Empty means direct connections (environment proxies are honoured).
	ProxyURL string

	// Headers are added to every request.
	Headers map[string]string
}

// NewHTTPClient creates an HTTP client for the given options.
//
// Design decisions:
//   - A SOCKS proxy is dialed through golang.org/x/net/proxy so that
//     socks5h:// resolves names on the proxy side
//   - HTTP proxies use the standard Transport.Proxy hook
//   - Headers are injected by a RoundTripper so redirects carry them too
func NewHTTPClient(opts Options) (*http.Client, error) {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: opts.InsecureSkipVerify, //nolint:gosec // LIS serves a broken chain
			MinVersion:         tls.VersionTLS12,
		},
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   4,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	if opts.ProxyURL != "" {
		if err := applyProxy(transport, opts.ProxyURL); err != nil {
			return nil, err
		}
	}

	var rt http.RoundTripper = transport
	if len(opts.Headers) > 0 {
		rt = &headerInjectingTransport{
			base:    transport,
			headers: opts.Headers,
		}
	}

	return &http.Client{
		Transport: rt,
		Timeout:   opts.Timeout,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}, nil
}

// applyProxy configures transport to use the proxy at rawURL.
func applyProxy(transport *http.Transport, rawURL string) error {
	u, err := ParseProxyURL(rawURL)
	if err != nil {
		return err
	}

	switch u.Scheme {
	case "http", "https":
		transport.Proxy = http.ProxyURL(u)
		return nil
	}

	dialer, err := proxy.FromURL(u, proxy.Direct)
	if err != nil {
		return fmt.Errorf("failed to create proxy dialer: %w", err)
	}

	transport.Proxy = nil
	if cd, ok := dialer.(proxy.ContextDialer); ok {
		transport.DialContext = cd.DialContext
	} else {
		transport.DialContext = func(_ context.Context, network, addr string) (net.Conn, error) {
			return dialer.Dial(network, addr)
		}
	}
	return nil
}

// ParseProxyURL validates a proxy URL.
// A bare "host:port" is treated as a SOCKS5 proxy.
func ParseProxyURL(rawURL string) (*url.URL, error) {
	if !strings.Contains(rawURL, "://") {
		rawURL = "socks5://" + rawURL
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProxyAddress, err)
	}

	switch u.Scheme {
	case "socks5", "socks5h", "http", "https":
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProxyScheme, u.Scheme)
	}

	if !isValidHostPort(u.Host) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidProxyAddress, u.Host)
	}
	return u, nil
}

// isValidHostPort checks that address is "host:port" with a port in 1..65535.
func isValidHostPort(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return false
	}
	return n >= 1 && n <= 65535
}

// headerInjectingTransport wraps an http.RoundTripper to inject
// custom headers into every request.
type headerInjectingTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

// RoundTrip implements http.RoundTripper.
func (t *headerInjectingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid modifying the original
	clone := req.Clone(req.Context())
	for key, value := range t.headers {
		clone.Header.Set(key, value)
	}
	return t.base.RoundTrip(clone)
}
