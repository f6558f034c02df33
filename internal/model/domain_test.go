package model

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// TestAllDomains verifies the run order of domains.
func TestAllDomains(t *testing.T) {
	t.Parallel()

	want := []Domain{
		"administrative_code",
		"authorities",
		"charters",
		"code_of_virginia",
		"compacts",
		"constitution",
		"uncodified_acts",
	}
	if diff := cmp.Diff(want, AllDomains()); diff != "" {
		t.Errorf("AllDomains() mismatch (-want +got):\n%s", diff)
	}
}

// TestParseDomain tests domain name parsing.
func TestParseDomain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    Domain
		wantErr bool
	}{
		{name: "exact", input: "charters", want: DomainCharters},
		{name: "hyphens and case", input: "Code-Of-Virginia", want: DomainCodeOfVirginia},
		{name: "surrounding spaces", input: "  compacts ", want: DomainCompacts},
		{name: "unknown", input: "municipal", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseDomain(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownDomain) {
					t.Errorf("expected ErrUnknownDomain, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseDomain(%q) = %q, expected %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestParseDomains tests selection ordering and deduplication.
func TestParseDomains(t *testing.T) {
	t.Parallel()

	t.Run("empty selects all", func(t *testing.T) {
		t.Parallel()
		got, err := ParseDomains(nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != len(AllDomains()) {
			t.Errorf("expected %d domains, got %d", len(AllDomains()), len(got))
		}
	})

	t.Run("canonical order without duplicates", func(t *testing.T) {
		t.Parallel()
		got, err := ParseDomains([]string{"uncodified_acts", "charters", "charters"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []Domain{DomainCharters, DomainUncodifiedActs}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("ParseDomains() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("unknown name fails", func(t *testing.T) {
		t.Parallel()
		if _, err := ParseDomains([]string{"charters", "bogus"}); !errors.Is(err, ErrUnknownDomain) {
			t.Errorf("expected ErrUnknownDomain, got %v", err)
		}
	})
}

// TestRunReportResults tests that results come back in canonical order.
func TestRunReportResults(t *testing.T) {
	t.Parallel()

	report := NewRunReport("https://example.test/api/", time.Now())
	report.AddResult(&DomainResult{Domain: DomainUncodifiedActs, Requests: 5, Failures: 1})
	report.AddResult(&DomainResult{Domain: DomainAdministrativeCode, Requests: 3})
	report.AddResult(&DomainResult{Domain: DomainCharters, Requests: 2, Failures: 2})

	results := report.Results()
	got := make([]Domain, len(results))
	for i, r := range results {
		got[i] = r.Domain
	}
	want := []Domain{DomainAdministrativeCode, DomainCharters, DomainUncodifiedActs}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Results() order mismatch (-want +got):\n%s", diff)
	}

	if report.TotalRequests() != 10 {
		t.Errorf("TotalRequests() = %d, expected 10", report.TotalRequests())
	}
	if report.TotalFailures() != 3 {
		t.Errorf("TotalFailures() = %d, expected 3", report.TotalFailures())
	}
	if results[0].Complete() != true || results[1].Complete() != false {
		t.Error("Complete() does not reflect failures")
	}
}

// TestDomainTitle tests display names.
func TestDomainTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		domain Domain
		want   string
	}{
		{domain: DomainCodeOfVirginia, want: "Code Of Virginia"},
		{domain: DomainAuthorities, want: "Authorities"},
		{domain: DomainUncodifiedActs, want: "Uncodified Acts"},
	}
	for _, tt := range tests {
		t.Run(tt.domain.String(), func(t *testing.T) {
			t.Parallel()

			if got := tt.domain.Title(); got != tt.want {
				t.Errorf("Title() = %q, expected %q", got, tt.want)
			}
		})
	}
}
