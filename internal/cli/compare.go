package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/execdiff/internal/compare"
)

// CompareOptions holds flags for the compare commands.
type CompareOptions struct {
	*RootOptions
	Scope string
}

// NewCompareCommand creates the compare command group.
func NewCompareCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare executions or test runs",
		Long: `Compare executions or test runs side by side.

The first id is the baseline. Deltas are measured against the first
populated cell of each row.`,
	}

	cmd.AddCommand(newCompareRunsCommand(rootOpts))
	cmd.AddCommand(newCompareStepsCommand(rootOpts))

	return cmd
}

func newCompareRunsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "runs <execution-id>...",
		Short: "Match whole test runs across executions",
		Long: `Match whole test runs across executions.

Runs are matched by test case when every execution belongs to the same test
plan and by name otherwise. Scope-driven executions are reordered into
prerequisite, execution and validation sections first.

Examples:
  execdiff compare runs 0192e0a1-... 0192e0b7-...`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompareRuns(rootOpts, cmd, args)
		},
	}
}

func newCompareStepsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompareOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "steps <id>...",
		Short: "Align steps across executions or test runs",
		Long: `Align steps positionally across sources.

With --scope test-run the ids are executions and their test runs are
aligned. With --scope log-record the ids are test runs and their log
records are aligned.

Examples:
  execdiff compare steps --scope log-record run-a run-b
  execdiff compare steps --scope test-run exec-1 exec-2 exec-3`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompareSteps(opts, cmd, args)
		},
	}

	cmd.Flags().StringVar(&opts.Scope, "scope", string(compare.ScopeLogRecord), "alignment scope (test-run|log-record)")

	return cmd
}

func runCompareRuns(opts *RootOptions, cmd *cobra.Command, ids []string) error {
	ctx := context.Background()

	sess, err := openSession(opts, false, false)
	if err != nil {
		return err
	}
	defer sess.Close()

	opts.formatter(cmd).VerboseLog("Matching test runs of %d execution(s)", len(ids))
	table, err := sess.service(opts).CompareTestRuns(ctx, ids)
	if err != nil {
		return comparisonError(err)
	}
	return outputTable(cmd, opts, table)
}

func runCompareSteps(opts *CompareOptions, cmd *cobra.Command, ids []string) error {
	ctx := context.Background()

	sess, err := openSession(opts.RootOptions, false, false)
	if err != nil {
		return err
	}
	defer sess.Close()

	opts.formatter(cmd).VerboseLog("Aligning %d source(s) at %s scope", len(ids), opts.Scope)
	table, err := sess.service(opts.RootOptions).CompareSteps(ctx, compare.Scope(opts.Scope), ids)
	if err != nil {
		return comparisonError(err)
	}
	return outputTable(cmd, opts.RootOptions, table)
}

func outputTable(cmd *cobra.Command, opts *RootOptions, table compare.Table) error {
	f := opts.formatter(cmd)
	if f.Format == "json" {
		return f.Success(table)
	}
	f.VerboseLog("%d row(s) across %d source(s)", len(table.Rows), len(table.Sources))
	if len(table.Rows) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing to compare")
		return nil
	}
	return renderTable(cmd.OutOrStdout(), table, opts.Verbose)
}
