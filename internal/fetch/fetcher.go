package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"
)

// Getter retrieves one decoded JSON document from the API.
// Walkers depend on this interface rather than on *Fetcher so they can be
// driven by fakes in tests and wrapped by Counter.
type Getter interface {
	Fetch(ctx context.Context, endpoint string, segments ...string) (any, error)
}

// Fetcher issues GET requests against the LIS API and decodes JSON bodies.
//
// Design decision: The base URL and HTTP client are injected at construction
// instead of living in package-level variables, so tests can point a Fetcher
// at an httptest server and several Fetchers can coexist.
//
// A Fetcher never retries. Any failure is logged and reported to the
// caller, which skips the branch.
type Fetcher struct {
	// baseURL is the API root, always ending in "/".
	baseURL string

	// client is the resty client wrapping the configured *http.Client.
	client *resty.Client

	// logger receives one line per attempt and one per failure.
	logger *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithLogger sets the logger used for request and failure lines.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(userAgent string) Option {
	return func(f *Fetcher) {
		if userAgent != "" {
			f.client.SetHeader("User-Agent", userAgent)
		}
	}
}

// New creates a Fetcher for the API rooted at baseURL.
// The httpClient carries transport concerns (TLS verification, proxy,
// timeout); pass the result of transport.NewHTTPClient.
func New(baseURL string, httpClient *http.Client, opts ...Option) *Fetcher {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	client := resty.NewWithClient(httpClient)
	client.SetHeader("Accept", "application/json")
	client.SetRetryCount(0)

	f := &Fetcher{
		baseURL: baseURL,
		client:  client,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// BaseURL returns the API root the Fetcher talks to.
func (f *Fetcher) BaseURL() string {
	return f.baseURL
}

// URL builds the request URL for endpoint and its positional segments.
// Segments are path-escaped individually.
func (f *Fetcher) URL(endpoint string, segments ...string) string {
	var sb strings.Builder
	sb.WriteString(f.baseURL)
	sb.WriteString(strings.Trim(endpoint, "/"))
	for _, seg := range segments {
		sb.WriteByte('/')
		sb.WriteString(url.PathEscape(seg))
	}
	return sb.String()
}

// Fetch performs a GET for endpoint/segments and returns the decoded JSON
// value (an object, an array, or a scalar).
//
// Network errors, non-2xx statuses, malformed JSON, and a JSON null body
// all produce an error wrapping ErrFetchFailed.
func (f *Fetcher) Fetch(ctx context.Context, endpoint string, segments ...string) (any, error) {
	target := f.URL(endpoint, segments...)
	f.logger.InfoContext(ctx, "retrieving", "url", target)

	v, err := f.get(ctx, target)
	if err != nil {
		f.logger.WarnContext(ctx, "failed to retrieve", "url", target, "error", err)
		return nil, err
	}
	return v, nil
}

// get performs the request and classifies failures.
func (f *Fetcher) get(ctx context.Context, target string) (any, error) {
	resp, err := f.client.R().SetContext(ctx).Get(target)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequest, err)
	}
	if !resp.IsSuccess() {
		return nil, &StatusError{URL: target, StatusCode: resp.StatusCode()}
	}

	v, err := Decode(resp.Body())
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Decode parses a single JSON document.
// Numbers are kept as json.Number so they survive a round trip unchanged.
// Trailing data after the document is an error, and so is a null document.
func Decode(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after JSON document", ErrDecode)
	}
	if v == nil {
		return nil, ErrEmpty
	}
	return v, nil
}
