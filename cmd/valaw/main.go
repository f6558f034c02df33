// Package main provides the entry point for the valaw CLI.
//
// valaw harvests the Virginia Legislative Information System (LIS) law API
// and writes one JSON document per legal domain: administrative code,
// authorities, charters, Code of Virginia, compacts, constitution, and
// uncodified acts.
//
// Usage:
//
//	valaw fetch
//	valaw fetch --domain constitution --timestamp
//
// See --help for all available options.
package main

// main is the entry point for valaw.
func main() {
	Execute()
}
