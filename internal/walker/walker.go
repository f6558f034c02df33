package walker

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/nao1215/valaw/internal/fetch"
	"github.com/nao1215/valaw/internal/model"
)

// Walker traverses the endpoint tree of one domain and assembles the
// responses into a single document.
//
// Walk never fails. A failed fetch leaves a gap in the document and the
// walk moves on to the next sibling. When ctx is cancelled the walk stops
// early and returns what it has assembled so far.
type Walker interface {
	// Domain returns the domain this walker harvests.
	Domain() model.Domain

	// Walk performs the traversal using g and returns the assembled
	// document, ready for JSON serialization.
	Walk(ctx context.Context, g fetch.Getter) any
}

// Option configures walkers created by New.
type Option func(*options)

type options struct {
	now    func() time.Time
	logger *slog.Logger
}

// WithClock sets the clock used to pick the last year of uncodified acts.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithLogger sets the logger for skipped-branch messages.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func newOptions(opts []Option) options {
	o := options{
		now:    time.Now,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// New returns the walker for domain d.
func New(d model.Domain, opts ...Option) (Walker, error) {
	o := newOptions(opts)
	b := base{domain: d, logger: o.logger}

	switch d {
	case model.DomainAdministrativeCode:
		return &AdministrativeCode{base: b}, nil
	case model.DomainAuthorities:
		return newAuthorities(b), nil
	case model.DomainCharters:
		return newCharters(b), nil
	case model.DomainCodeOfVirginia:
		return &CodeOfVirginia{base: b}, nil
	case model.DomainCompacts:
		return &Compacts{base: b}, nil
	case model.DomainConstitution:
		return &Constitution{base: b}, nil
	case model.DomainUncodifiedActs:
		return &UncodifiedActs{base: b, now: o.now}, nil
	default:
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownDomain, string(d))
	}
}

// ForDomains returns one walker per domain, in the order given.
func ForDomains(domains []model.Domain, opts ...Option) ([]Walker, error) {
	walkers := make([]Walker, 0, len(domains))
	for _, d := range domains {
		w, err := New(d, opts...)
		if err != nil {
			return nil, err
		}
		walkers = append(walkers, w)
	}
	return walkers, nil
}

// base carries what every walker shares.
type base struct {
	domain model.Domain
	logger *slog.Logger
}

// Domain implements Walker.
func (b base) Domain() model.Domain {
	return b.domain
}

// id reads the identifier needed to build a child URL.
// A record without it keeps its place in the output but its children are
// not fetched.
func (b base) id(rec model.Record, field string) (string, bool) {
	v, ok := rec.Text(field)
	if !ok {
		b.logger.Debug("entry has no identifier, skipping its children",
			"domain", b.domain.String(),
			"field", field)
	}
	return v, ok
}

// fetchList fetches a listing and extracts the child records stored under
// the first matching key (see model.List). The second return value is false
// when the fetch failed.
func fetchList(ctx context.Context, g fetch.Getter, keys []string, endpoint string, segments ...string) ([]model.Record, bool) {
	resp, err := g.Fetch(ctx, endpoint, segments...)
	if err != nil {
		return nil, false
	}
	return model.List(resp, keys...), true
}

// fetchDetail fetches a detail record.
// The second return value is false when the fetch failed or the response
// held no object.
func fetchDetail(ctx context.Context, g fetch.Getter, endpoint string, segments ...string) (model.Record, bool) {
	resp, err := g.Fetch(ctx, endpoint, segments...)
	if err != nil {
		return nil, false
	}
	return model.First(resp)
}

// attachBody copies the Body field of the detail record at endpoint onto rec.
// rec is left untouched when the fetch fails or the detail has no Body.
func attachBody(ctx context.Context, g fetch.Getter, rec model.Record, endpoint string, segments ...string) {
	detail, ok := fetchDetail(ctx, g, endpoint, segments...)
	if !ok {
		return
	}
	if body, ok := detail[fieldBody]; ok {
		rec[fieldBody] = body
	}
}

// fillFrom copies every field of src that dst does not already carry.
// Listing fields win over detail fields.
func fillFrom(dst, src model.Record) {
	for k, v := range src {
		if _, exists := dst[k]; !exists {
			dst[k] = v
		}
	}
}

// children replaces rec[key] with its object elements and returns them.
// It reports false, leaving rec untouched, when rec has no such field.
func children(rec model.Record, key string) ([]model.Record, bool) {
	v, ok := rec[key]
	if !ok {
		return nil, false
	}
	list := model.Records(v)
	rec[key] = list
	return list, true
}

// compositeKey joins identifiers into the keys used by the flat domains,
// e.g. "1_2" for title 1 chapter 2.
func compositeKey(parts ...string) string {
	return strings.Join(parts, "_")
}
