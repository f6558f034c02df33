// Package fetch retrieves JSON documents from the LIS API.
//
// A Fetcher issues one GET per call, with no retries, and returns the decoded
// document or an error wrapping ErrFetchFailed. It logs every attempt and
// every failure, so callers only need to decide whether to skip the branch.
//
// Counter wraps any Getter to count requests and failures per domain.
package fetch
