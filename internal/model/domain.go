package model

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Domain identifies one category of legal content served by the LIS API.
// Each domain has its own endpoint tree, walker, and output file.
type Domain string

// Supported domains in the order a full run visits them.
const (
	DomainAdministrativeCode Domain = "administrative_code"
	DomainAuthorities        Domain = "authorities"
	DomainCharters           Domain = "charters"
	DomainCodeOfVirginia     Domain = "code_of_virginia"
	DomainCompacts           Domain = "compacts"
	DomainConstitution       Domain = "constitution"
	DomainUncodifiedActs     Domain = "uncodified_acts"
)

// AllDomains returns every domain in run order.
func AllDomains() []Domain {
	return []Domain{
		DomainAdministrativeCode,
		DomainAuthorities,
		DomainCharters,
		DomainCodeOfVirginia,
		DomainCompacts,
		DomainConstitution,
		DomainUncodifiedActs,
	}
}

// String returns the domain identifier.
func (d Domain) String() string {
	return string(d)
}

// FileBase returns the output file name (without extension) for the domain.
func (d Domain) FileBase() string {
	return string(d)
}

// Words returns the identifier with underscores replaced by spaces,
// e.g. "code of virginia".
func (d Domain) Words() string {
	return strings.ReplaceAll(string(d), "_", " ")
}

// Title returns a display name such as "Code Of Virginia".
func (d Domain) Title() string {
	return cases.Title(language.English).String(d.Words())
}

// ParseDomain converts a user supplied name into a Domain.
// Hyphens and case are ignored, so "Code-Of-Virginia" is accepted.
func ParseDomain(name string) (Domain, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.ReplaceAll(normalized, "-", "_")
	for _, d := range AllDomains() {
		if string(d) == normalized {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDomain, name)
}

// ParseDomains converts a list of names, preserving the canonical run order
// and dropping duplicates. An empty list selects every domain.
func ParseDomains(names []string) ([]Domain, error) {
	if len(names) == 0 {
		return AllDomains(), nil
	}

	selected := make(map[Domain]bool, len(names))
	for _, name := range names {
		d, err := ParseDomain(name)
		if err != nil {
			return nil, err
		}
		selected[d] = true
	}

	out := make([]Domain, 0, len(selected))
	for _, d := range AllDomains() {
		if selected[d] {
			out = append(out, d)
		}
	}
	return out, nil
}
