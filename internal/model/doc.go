// Package model defines the data structures shared across valaw.
//
// This package contains the following main types:
//   - Record: a JSON object returned by the LIS API, with identifier accessors
//   - Domain: one category of legal content (administrative code, statutes, ...)
//   - DomainResult: the outcome of harvesting one domain
//   - RunReport: every DomainResult of a single run
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. The walker, pipeline, report, and database packages all need
// these types.
package model
