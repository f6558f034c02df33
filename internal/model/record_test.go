package model

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// decode parses a JSON literal the same way the fetcher does.
func decode(t *testing.T, s string) any {
	t.Helper()

	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		t.Fatalf("failed to decode %q: %v", s, err)
	}
	return v
}

// TestRecordText tests identifier extraction from records.
func TestRecordText(t *testing.T) {
	t.Parallel()

	rec := Record{
		"str":    "1.2",
		"num":    json.Number("10"),
		"float":  float64(3),
		"empty":  "",
		"null":   nil,
		"nested": map[string]any{"a": "b"},
	}

	tests := []struct {
		name   string
		key    string
		want   string
		wantOK bool
	}{
		{name: "string value", key: "str", want: "1.2", wantOK: true},
		{name: "json number", key: "num", want: "10", wantOK: true},
		{name: "float without trailing zeros", key: "float", want: "3", wantOK: true},
		{name: "empty string is absent", key: "empty", want: "", wantOK: false},
		{name: "null is absent", key: "null", want: "", wantOK: false},
		{name: "object is absent", key: "nested", want: "", wantOK: false},
		{name: "missing key is absent", key: "missing", want: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := rec.Text(tt.key)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Text(%q) = (%q, %v), expected (%q, %v)", tt.key, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

// TestRecordWithout tests that Without copies rather than mutates.
func TestRecordWithout(t *testing.T) {
	t.Parallel()

	rec := Record{"TitleNumber": "1", "AgencyNumber": "10", "Preface": "text"}
	got := rec.Without("TitleNumber", "AgencyNumber", "NotThere")

	if diff := cmp.Diff(Record{"Preface": "text"}, got); diff != "" {
		t.Errorf("Without() mismatch (-want +got):\n%s", diff)
	}
	if len(rec) != 3 {
		t.Errorf("original record was modified: %v", rec)
	}
}

// TestList tests list extraction at every supported nesting depth.
func TestList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		keys []string
		want []Record
	}{
		{
			name: "bare array",
			body: `[{"SectionNumber":"10"},{"SectionNumber":"20"}]`,
			keys: []string{"Sections"},
			want: []Record{{"SectionNumber": "10"}, {"SectionNumber": "20"}},
		},
		{
			name: "object holding list",
			body: `{"ChapterNumber":"1","Sections":[{"SectionNumber":"10"}]}`,
			keys: []string{"Sections"},
			want: []Record{{"SectionNumber": "10"}},
		},
		{
			name: "second key is used when first is missing",
			body: `{"SectionList":[{"SectionNumber":"10"}]}`,
			keys: []string{"Sections", "SectionList"},
			want: []Record{{"SectionNumber": "10"}},
		},
		{
			name: "array of wrappers is flattened",
			body: `[{"Sections":[{"SectionNumber":"10"}]},{"Sections":[{"SectionNumber":"20"}]}]`,
			keys: []string{"Sections"},
			want: []Record{{"SectionNumber": "10"}, {"SectionNumber": "20"}},
		},
		{
			name: "empty array",
			body: `[]`,
			keys: []string{"Sections"},
			want: []Record{},
		},
		{
			name: "object without key",
			body: `{"Other":[1,2]}`,
			keys: []string{"Sections"},
			want: []Record{},
		},
		{
			name: "scalar",
			body: `"nothing"`,
			keys: []string{"Sections"},
			want: []Record{},
		},
		{
			name: "non-object elements are dropped",
			body: `[{"SectionNumber":"10"},3,"x"]`,
			keys: []string{"Sections"},
			want: []Record{{"SectionNumber": "10"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := List(decode(t, tt.body), tt.keys...)
			if got == nil {
				t.Fatal("expected non-nil slice")
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("List() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// TestFirst tests detail unwrapping.
func TestFirst(t *testing.T) {
	t.Parallel()

	t.Run("object", func(t *testing.T) {
		t.Parallel()
		rec, ok := First(decode(t, `{"Body":"x"}`))
		if !ok || rec["Body"] != "x" {
			t.Errorf("First() = (%v, %v)", rec, ok)
		}
	})

	t.Run("one-element array", func(t *testing.T) {
		t.Parallel()
		rec, ok := First(decode(t, `[{"Body":"x"}]`))
		if !ok || rec["Body"] != "x" {
			t.Errorf("First() = (%v, %v)", rec, ok)
		}
	})

	t.Run("empty array", func(t *testing.T) {
		t.Parallel()
		if _, ok := First(decode(t, `[]`)); ok {
			t.Error("expected no record")
		}
	})

	t.Run("nil", func(t *testing.T) {
		t.Parallel()
		if _, ok := First(nil); ok {
			t.Error("expected no record")
		}
	})
}
