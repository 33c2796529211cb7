// Package model provides the domain types shared by every execdiff package.
//
// The hierarchy is Execution → TestRun → Step (log record). Steps carry their
// ancestor chain closest-first so that the alignment engine can derive
// fingerprints without going back to storage.
//
// This package imports nothing internal. Key constraints:
//   - NO float types (durations are int64 milliseconds)
//   - Step kinds are a tagged variant (Kind), never a type hierarchy
//   - All JSON and YAML tags use snake_case
package model
