// Package report writes harvest output.
//
// FileWriter persists each assembled domain document as a JSON file and
// returns its SHA3-256 checksum. The run summary writers render a
// model.RunReport:
//   - SimpleWriter: human-readable text for terminal display
//   - JSONWriter: structured JSON for tool integration
//   - MarkdownWriter: summary.md committed alongside the archive
//
// Design decision: We separate report writing from report data structures
// (which are in the model package) so new output formats do not touch the
// pipeline.
package report
