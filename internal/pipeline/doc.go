// Package pipeline runs a harvest as a sequence of steps.
//
// A run is one DomainStep per selected domain (walk, write, record),
// optionally grouped in a BatchProcessor so domains run side by side,
// followed by a SummaryStep and a HistoryStep. Every step records its
// outcome in the shared model.RunReport.
//
// Design decision: We use a pipeline pattern instead of direct function calls
// because:
// 1. It allows easy addition/removal of steps without modifying core logic
// 2. It provides consistent error handling and logging across steps
// 3. It supports cancellation via context for long-running harvests
//
// Concurrency control uses errgroup.
package pipeline
