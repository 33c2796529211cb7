package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/execdiff/internal/fixture"
	"github.com/roach88/execdiff/internal/model"
)

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	*RootOptions
	NoScreenshots bool
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <file>...",
		Short: "Import execution documents",
		Long: `Import one or more YAML execution documents into the database.

Each document is checked against the fixture schema before anything is
written. Screenshots referenced by log records are loaded relative to the
document and stored in the blob directory.

Examples:
  execdiff import nightly-41.yaml nightly-42.yaml
  execdiff import --db ./runs.db --blobs ./shots run.yaml`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(opts, cmd, args)
		},
	}

	cmd.Flags().BoolVar(&opts.NoScreenshots, "no-screenshots", false, "do not open the blob store (documents with screenshots are rejected)")

	return cmd
}

func runImport(opts *ImportOptions, cmd *cobra.Command, files []string) error {
	ctx := context.Background()

	sess, err := openSession(opts.RootOptions, !opts.NoScreenshots, true)
	if err != nil {
		return err
	}
	defer sess.Close()

	var blobs fixture.ScreenshotWriter
	if sess.blobs != nil {
		blobs = sess.blobs
	}
	im := fixture.NewImporter(sess.store, blobs, model.UUIDv7Generator{}, opts.logger())

	f := opts.formatter(cmd)
	results := make([]fixture.Result, 0, len(files))
	for _, path := range files {
		f.VerboseLog("Loading %s", path)
		doc, err := fixture.Load(path)
		if err != nil {
			if fixture.IsSchemaError(err) {
				return WrapExitError(ExitCommandError, "invalid document", err)
			}
			return WrapExitError(ExitCommandError, "failed to load document", err)
		}
		res, err := im.Import(ctx, doc)
		if err != nil {
			return WrapExitError(ExitFailure, fmt.Sprintf("failed to import %s", path), err)
		}
		f.VerboseLog("Imported %s as %s", path, res.Execution.ID)
		results = append(results, res)
	}

	if f.Format == "json" {
		return f.Success(results)
	}

	w := cmd.OutOrStdout()
	for _, r := range results {
		fmt.Fprintf(w, "Imported %s (#%d, %s): %d test runs, %d log records, %d screenshots\n",
			r.Execution.Name, r.Execution.Seq, r.Execution.ID,
			r.TestRuns, r.LogRecords, r.Screenshots)
	}
	return nil
}
