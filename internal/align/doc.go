// Package align implements the cross-execution record alignment engine.
//
// Given N ordered sequences of steps (one per execution) the engine builds a
// rectangular Matrix in which records representing the same step share a row
// and steps missing from a source occupy placeholder slots.
//
// PIPELINE:
//
//	Derive → Align → Order → ApplyDeltas → (BuildTree | flat table)
//
// Derive computes a fingerprint and structural path per record. Align is a
// single-pass greedy matcher: the baseline (source 0) seeds the rows and every
// later source scans the baseline monotonically from the highest position it
// has already matched. Order sorts rows by their highest original index and
// ApplyDeltas annotates each populated slot with its duration drift from the
// row's first populated slot. BuildTree regroups a two-source matrix under the
// owning ancestors for screenshot comparison. MatchTestRuns is a simpler keyed
// matcher for whole test runs.
//
// The package is pure: no package state, no goroutines, no I/O except through
// the ScreenshotFunc passed to BuildTree. Results are deterministic for a fixed
// input order and deliberately order-sensitive; reordering a source can change
// which rows its records land in.
package align
