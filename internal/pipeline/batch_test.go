package pipeline

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/nao1215/valaw/internal/model"
)

// TestNewBatchProcessor tests the BatchProcessor constructor.
func TestNewBatchProcessor(t *testing.T) {
	t.Parallel()

	t.Run("defaults to sequential", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(nil)
		if bp.concurrency != 1 {
			t.Errorf("expected concurrency 1, got %d", bp.concurrency)
		}
		if bp.Name() != "domains" {
			t.Errorf("unexpected name %q", bp.Name())
		}
	})

	t.Run("ignores non-positive concurrency", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(nil, WithConcurrency(0))
		if bp.concurrency != 1 {
			t.Errorf("expected concurrency 1, got %d", bp.concurrency)
		}
	})
}

// TestBatchProcessorDo tests concurrent step execution.
func TestBatchProcessorDo(t *testing.T) {
	t.Parallel()

	t.Run("sequential preserves order", func(t *testing.T) {
		t.Parallel()

		var order []string
		steps := make([]Step, 0, 3)
		for _, name := range []string{"administrative_code", "authorities", "charters"} {
			steps = append(steps, &mockStep{name: name, doFunc: func(context.Context, *model.RunReport) error {
				order = append(order, name)
				return nil
			}})
		}

		bp := NewBatchProcessor(steps, WithBatchLogger(quietLogger()))
		if err := bp.Do(context.Background(), newTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff([]string{"administrative_code", "authorities", "charters"}, order); diff != "" {
			t.Errorf("order mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("respects concurrency limit", func(t *testing.T) {
		t.Parallel()

		var running, peak atomic.Int32
		steps := make([]Step, 0, 6)
		for range 6 {
			steps = append(steps, &mockStep{name: "s", doFunc: func(context.Context, *model.RunReport) error {
				n := running.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(20 * time.Millisecond)
				running.Add(-1)
				return nil
			}})
		}

		bp := NewBatchProcessor(steps, WithConcurrency(2), WithBatchLogger(quietLogger()))
		if err := bp.Do(context.Background(), newTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if peak.Load() > 2 {
			t.Errorf("expected at most 2 concurrent steps, saw %d", peak.Load())
		}
	})

	t.Run("failing step does not stop siblings", func(t *testing.T) {
		t.Parallel()

		failing := &mockStep{name: "failing", doFunc: func(context.Context, *model.RunReport) error {
			return errors.New("disk full")
		}}
		ok := &mockStep{name: "ok"}

		report := newTestReport()
		bp := NewBatchProcessor([]Step{failing, ok}, WithConcurrency(2), WithBatchLogger(quietLogger()))
		if err := bp.Do(context.Background(), report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ok.calls() != 1 {
			t.Error("expected sibling step to run")
		}
		if diff := cmp.Diff([]string{"ok"}, report.PerformedSteps); diff != "" {
			t.Errorf("performed steps mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		step := &mockStep{name: "never"}
		report := newTestReport()
		bp := NewBatchProcessor([]Step{step}, WithBatchLogger(quietLogger()))

		if err := bp.Do(ctx, report); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if step.calls() != 0 {
			t.Error("expected no step to run")
		}
		if !report.Cancelled {
			t.Error("expected report to be marked cancelled")
		}
	})
}
