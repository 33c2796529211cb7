// Package compare orchestrates cross-execution comparisons.
//
// A Service validates the request, fetches the ordered sequences it needs
// from its collaborators, runs them through the align engine and shapes the
// result for callers:
//
//   - CompareTestRuns matches whole test runs across executions
//   - CompareSteps aligns test runs or log records positionally
//   - CompareScreenshots pairs test runs of two executions and rebuilds the
//     action tree of each pair with optional screenshot content
//
// Requests are rejected before any collaborator is called when they name the
// same id twice. Alignment results are never stored.
package compare
