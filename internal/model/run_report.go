package model

import (
	"sort"
	"sync"
	"time"
)

// DomainResult describes the outcome of harvesting one domain.
type DomainResult struct {
	// Domain is the harvested domain.
	Domain Domain `json:"domain"`

	// Data is the assembled document written to disk.
	// It is not persisted in the run history.
	Data any `json:"-"`

	// Requests is the number of HTTP requests the walker issued.
	Requests int64 `json:"requests"`

	// Failures is the number of those requests that returned no data.
	// Each failure left a gap in the document.
	Failures int64 `json:"failures"`

	// FilePath is where the document was written.
	// Empty if the domain was not written.
	FilePath string `json:"file_path,omitempty"`

	// Checksum is the hex SHA3-256 of the written file.
	Checksum string `json:"checksum,omitempty"`

	// Bytes is the size of the written file.
	Bytes int64 `json:"bytes"`

	// Changed reports whether Checksum differs from the previous run.
	// Always true when there is no previous run to compare with.
	Changed bool `json:"changed"`

	// Elapsed is the wall time spent on the domain.
	Elapsed time.Duration `json:"elapsed"`

	// Error is set when the domain could not be written at all.
	Error string `json:"error,omitempty"`
}

// Complete reports whether every request for the domain returned data.
func (r *DomainResult) Complete() bool {
	return r.Error == "" && r.Failures == 0
}

// RunReport collects the results of one harvest run.
// It is safe for concurrent use by pipeline steps.
type RunReport struct {
	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the run ended.
	FinishedAt time.Time `json:"finished_at"`

	// BaseURL is the API root used for the run.
	BaseURL string `json:"base_url"`

	// Cancelled is true if the run was interrupted before all domains finished.
	Cancelled bool `json:"cancelled"`

	// PerformedSteps lists completed step names in completion order.
	PerformedSteps []string `json:"performed_steps"`

	results []*DomainResult
	mu      sync.Mutex
}

// NewRunReport creates an empty report for a run against baseURL.
func NewRunReport(baseURL string, startedAt time.Time) *RunReport {
	return &RunReport{
		StartedAt:      startedAt,
		BaseURL:        baseURL,
		PerformedSteps: make([]string, 0),
		results:        make([]*DomainResult, 0),
	}
}

// AddResult records the outcome of a domain.
func (r *RunReport) AddResult(result *DomainResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, result)
}

// MarkStep records a completed pipeline step.
func (r *RunReport) MarkStep(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.PerformedSteps = append(r.PerformedSteps, name)
}

// MarkCancelled flags the run as interrupted.
func (r *RunReport) MarkCancelled() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Cancelled = true
}

// Results returns the domain results in canonical domain order,
// regardless of the order in which domains finished.
func (r *RunReport) Results() []*DomainResult {
	r.mu.Lock()
	out := make([]*DomainResult, len(r.results))
	copy(out, r.results)
	r.mu.Unlock()

	rank := make(map[Domain]int)
	for i, d := range AllDomains() {
		rank[d] = i
	}
	sort.SliceStable(out, func(i, j int) bool {
		return rank[out[i].Domain] < rank[out[j].Domain]
	})
	return out
}

// TotalRequests sums requests over all domains.
func (r *RunReport) TotalRequests() int64 {
	var total int64
	for _, res := range r.Results() {
		total += res.Requests
	}
	return total
}

// TotalFailures sums failed requests over all domains.
func (r *RunReport) TotalFailures() int64 {
	var total int64
	for _, res := range r.Results() {
		total += res.Failures
	}
	return total
}
