// Package transport builds the HTTP client used to reach the LIS API.
//
// The LIS API serves an incomplete TLS certificate chain, so the client can
// skip certificate verification. This is a property of the data source and
// is exposed as an explicit option rather than hidden process-wide state.
// Traffic can optionally be routed through a SOCKS5 or HTTP proxy.
package transport
