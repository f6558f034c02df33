package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/nao1215/valaw/internal/fetch"
	"github.com/nao1215/valaw/internal/model"
	"github.com/nao1215/valaw/internal/report"
	"github.com/nao1215/valaw/internal/walker"
)

// ErrDomainCancelled is returned by a DomainStep whose walk was interrupted.
// The partial document is not written.
var ErrDomainCancelled = errors.New("domain harvest cancelled")

// ChecksumLookup returns the checksum a domain's document had in the most
// recent recorded run, or "" if there is none.
type ChecksumLookup interface {
	LatestChecksum(ctx context.Context, domain model.Domain) (string, error)
}

// RunRecorder persists a finished run.
type RunRecorder interface {
	SaveRun(ctx context.Context, report *model.RunReport) (int64, error)
}

// DomainStep harvests one domain: it runs the walker, writes the document,
// and records the outcome in the run report.
//
// Design decision: Every DomainStep wraps the shared Getter in its own
// fetch.Counter so request and failure counts stay per domain even when
// domains run concurrently.
type DomainStep struct {
	// walker assembles the document.
	walker walker.Walker

	// getter is shared by all domains of a run.
	getter fetch.Getter

	// writer persists the document.
	writer *report.FileWriter

	// previous, if set, reports the checksum from the last run.
	previous ChecksumLookup

	// logger for structured logging.
	logger *slog.Logger

	// now is the clock used for elapsed time.
	now func() time.Time
}

// DomainStepOption configures a DomainStep.
type DomainStepOption func(*DomainStep)

// WithDomainLogger sets a custom logger for the domain step.
func WithDomainLogger(logger *slog.Logger) DomainStepOption {
	return func(s *DomainStep) {
		s.logger = logger
	}
}

// WithPreviousChecksums enables change detection against recorded runs.
func WithPreviousChecksums(lookup ChecksumLookup) DomainStepOption {
	return func(s *DomainStep) {
		s.previous = lookup
	}
}

// WithClock sets the clock used to measure elapsed time.
func WithClock(now func() time.Time) DomainStepOption {
	return func(s *DomainStep) {
		s.now = now
	}
}

// NewDomainStep creates a step that harvests w's domain through g and
// writes the result with fw.
func NewDomainStep(w walker.Walker, g fetch.Getter, fw *report.FileWriter, opts ...DomainStepOption) *DomainStep {
	s := &DomainStep{
		walker: w,
		getter: g,
		writer: fw,
		logger: slog.Default(),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name, which is the domain identifier.
func (s *DomainStep) Name() string {
	return s.walker.Domain().String()
}

// Do executes the domain harvest.
// Fetch failures inside the walk are not errors; they are counted in the
// result. Only a cancelled walk or a failed write returns an error.
func (s *DomainStep) Do(ctx context.Context, rr *model.RunReport) error {
	domain := s.walker.Domain()
	start := s.now()
	counter := fetch.NewCounter(s.getter)

	s.logger.Info("harvesting domain", "domain", domain.String())

	doc := s.walker.Walk(ctx, counter)

	result := &model.DomainResult{
		Domain:   domain,
		Data:     doc,
		Requests: counter.Requests(),
		Failures: counter.Failures(),
	}
	defer func() {
		result.Elapsed = s.now().Sub(start)
		rr.AddResult(result)
	}()

	if ctx.Err() != nil {
		result.Error = "cancelled"
		return fmt.Errorf("%w: %s", ErrDomainCancelled, domain)
	}

	out, err := s.writer.WriteDocument(domain.FileBase(), doc)
	if err != nil {
		result.Error = err.Error()
		return fmt.Errorf("failed to write %s: %w", domain, err)
	}
	result.FilePath = out.Path
	result.Checksum = out.Checksum
	result.Bytes = out.Bytes
	result.Changed = s.changed(ctx, domain, out.Checksum)

	s.logger.Info("domain saved",
		"domain", domain.String(),
		"path", out.Path,
		"requests", result.Requests,
		"failures", result.Failures,
		"changed", result.Changed,
	)
	return nil
}

// changed compares checksum with the previous run's.
// Without history, or on lookup failure, the content counts as changed.
func (s *DomainStep) changed(ctx context.Context, domain model.Domain, checksum string) bool {
	if s.previous == nil {
		return true
	}
	prev, err := s.previous.LatestChecksum(ctx, domain)
	if err != nil {
		s.logger.Warn("failed to look up previous checksum",
			"domain", domain.String(),
			"error", err,
		)
		return true
	}
	return prev != checksum
}

// SummaryStep writes the markdown run summary into the output directory.
type SummaryStep struct {
	dir string
	now func() time.Time
}

// NewSummaryStep creates a step that writes dir/summary.md.
func NewSummaryStep(dir string) *SummaryStep {
	return &SummaryStep{dir: dir, now: time.Now}
}

// Name returns the step name.
func (s *SummaryStep) Name() string {
	return "summary"
}

// Do writes the summary file. FinishedAt is stamped if still unset.
func (s *SummaryStep) Do(_ context.Context, rr *model.RunReport) (err error) {
	if rr.FinishedAt.IsZero() {
		rr.FinishedAt = s.now()
	}

	if err := os.MkdirAll(s.dir, 0750); err != nil {
		return fmt.Errorf("%w: %w", report.ErrCreateOutputDir, err)
	}

	path := filepath.Join(s.dir, report.SummaryFileName)
	f, err := os.OpenFile(filepath.Clean(path), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create summary file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close summary file: %w", cerr)
		}
	}()

	if _, err := report.NewMarkdownWriter(f).Write(rr); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

// HistoryStep records the run in the run history database.
type HistoryStep struct {
	recorder RunRecorder
	logger   *slog.Logger
	now      func() time.Time
}

// NewHistoryStep creates a step that saves the run with recorder.
func NewHistoryStep(recorder RunRecorder, logger *slog.Logger) *HistoryStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &HistoryStep{recorder: recorder, logger: logger, now: time.Now}
}

// Name returns the step name.
func (s *HistoryStep) Name() string {
	return "history"
}

// Do saves the run. FinishedAt is stamped if still unset.
func (s *HistoryStep) Do(ctx context.Context, rr *model.RunReport) error {
	if rr.FinishedAt.IsZero() {
		rr.FinishedAt = s.now()
	}

	id, err := s.recorder.SaveRun(ctx, rr)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	s.logger.Debug("run recorded", "run_id", id)
	return nil
}
