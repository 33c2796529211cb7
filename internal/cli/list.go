package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List imported executions",
		Long: `List imported executions in import order.

Examples:
  execdiff list
  execdiff list --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, cmd)
		},
	}
}

func runList(opts *RootOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	sess, err := openSession(opts, false, false)
	if err != nil {
		return err
	}
	defer sess.Close()

	executions, err := sess.store.ListExecutions(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list executions", err)
	}

	f := opts.formatter(cmd)
	if f.Format == "json" {
		return f.Success(executions)
	}

	w := cmd.OutOrStdout()
	if len(executions) == 0 {
		fmt.Fprintln(w, "No executions imported")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tID\tNAME\tPLAN")
	for _, e := range executions {
		plan := e.TestPlanID
		if plan == "" {
			plan = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", e.Seq, e.ID, e.Name, plan)
	}
	return tw.Flush()
}
