// Package walker traverses the endpoint tree of each LIS API domain and
// assembles the responses into one JSON document per domain.
//
// Seven walkers exist, one per model.Domain:
//
//   - AdministrativeCode: nested list of titles (Title → Agency → Chapter → Section)
//   - authorities and charters (ShortNameList): the listing with Body merged in
//   - CodeOfVirginia: object keyed "{title}_{chapter}"
//   - Compacts: object keyed by short name
//   - Constitution: object keyed "{article}_{section}"
//   - UncodifiedActs: object keyed by year
//
// Walkers are sequential. They pass upstream fields through untouched and
// only add child fields. A failed fetch is never fatal: the walker skips
// that branch and carries on with its siblings.
package walker
