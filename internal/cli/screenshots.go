package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/execdiff/internal/compare"
)

// ScreenshotsOptions holds flags for the screenshots command.
type ScreenshotsOptions struct {
	*RootOptions
	Content bool
}

// NewScreenshotsCommand creates the screenshots command.
func NewScreenshotsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScreenshotsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "screenshots <baseline-execution> <other-execution>",
		Short: "Compare screenshots of two executions",
		Long: `Pair the test runs of two executions and group their aligned steps
under the UI action that owns them.

A test run pair that cannot be rebuilt is logged and shown empty; the rest
of the comparison still completes. Use --content to include screenshot
bytes (JSON output only).

Examples:
  execdiff screenshots exec-41 exec-42
  execdiff screenshots exec-41 exec-42 --content --format json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScreenshots(opts, cmd, args)
		},
	}

	cmd.Flags().BoolVar(&opts.Content, "content", false, "include screenshot content")

	return cmd
}

func runScreenshots(opts *ScreenshotsOptions, cmd *cobra.Command, ids []string) error {
	ctx := context.Background()

	sess, err := openSession(opts.RootOptions, opts.Content, false)
	if err != nil {
		return err
	}
	defer sess.Close()

	opts.formatter(cmd).VerboseLog("Comparing screenshots of %s against %s", ids[0], ids[len(ids)-1])
	tree, err := sess.service(opts.RootOptions).CompareScreenshots(ctx, compare.ScreenshotRequest{
		ExecutionIDs: ids,
		WithContent:  opts.Content,
	})
	if err != nil {
		return comparisonError(err)
	}

	f := opts.formatter(cmd)
	if f.Format == "json" {
		return f.Success(tree)
	}
	renderTree(cmd.OutOrStdout(), tree)
	return nil
}
