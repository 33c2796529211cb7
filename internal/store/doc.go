// Package store provides SQLite-backed storage for test execution results.
//
// The store holds three tables:
//   - executions: one row per execution, with the owning test plan
//   - test_runs: test case runs, ordered within an execution by ord
//   - log_records: steps within a test run, parent-linked into a tree
//
// # Critical Patterns
//
// Deterministic Query Results
//   - Sequence queries include ORDER BY <position> ASC, id ASC COLLATE BINARY
//   - Re-reading the same execution always yields the same order, which the
//     alignment engine depends on
//
// Ancestor Chains
//   - LogRecordSequence attaches each record's ancestors closest-first,
//     resolved with a recursive CTE over parent_id
//
// Atomic Imports
//   - WriteExecutionAtomic writes an execution with all of its test runs and
//     records in a single transaction
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
