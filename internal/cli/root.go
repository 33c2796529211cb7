package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/execdiff/internal/config"
	"github.com/roach88/execdiff/internal/logging"
)

// RootOptions holds global flags for all commands, resolved against the
// config file and environment before any subcommand runs.
type RootOptions struct {
	Verbose     bool
	Format      string // "json" | "text"
	ConfigPath  string
	DB          string
	Blobs       string
	Concurrency int
	Color       string

	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the execdiff CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

// Run executes the CLI with args and returns the process exit code. Errors
// are reported in the resolved output format: a JSON error response on
// stdout for --format json, "Error [CODE]: ..." on stderr otherwise.
func Run(args []string, stdout, stderr io.Writer) int {
	opts := &RootOptions{}
	cmd := newRootCommand(opts)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	f := &OutputFormatter{Format: "text", Writer: stderr, Verbose: opts.Verbose}
	if opts.Format == "json" {
		f = &OutputFormatter{Format: "json", Writer: stdout}
	}
	_ = f.reportError(err)
	return GetExitCode(err)
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	defaults := config.Default()

	cmd := &cobra.Command{
		Use:   "execdiff",
		Short: "execdiff - compare test executions side by side",
		Long: `Import test execution results and compare them across executions.

Steps that represent the same action are aligned into one row even when
executions ran them in a different order or skipped some of them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", defaults.Format, "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to YAML config file")
	cmd.PersistentFlags().StringVar(&opts.DB, "db", defaults.DB, "path to SQLite database")
	cmd.PersistentFlags().StringVar(&opts.Blobs, "blobs", defaults.Blobs, "path to screenshot blob directory")
	cmd.PersistentFlags().IntVar(&opts.Concurrency, "concurrency", defaults.Concurrency, "parallel fetches per comparison")
	cmd.PersistentFlags().StringVar(&opts.Color, "color", defaults.Color, "colored logs (auto|always|never)")

	// Add subcommands
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewCompareCommand(opts))
	cmd.AddCommand(NewScreenshotsCommand(opts))

	return cmd
}

// resolve applies config file and environment values, then any flag the
// user set explicitly. Precedence: flag > env > file > default.
func (o *RootOptions) resolve(cmd *cobra.Command) error {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Format = o.Format
	}
	if flags.Changed("db") {
		cfg.DB = o.DB
	}
	if flags.Changed("blobs") {
		cfg.Blobs = o.Blobs
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency = o.Concurrency
	}
	if flags.Changed("color") {
		cfg.Color = o.Color
	}

	// Validate format flag
	if !isValidFormat(cfg.Format) {
		return fmt.Errorf("invalid format %q: must be one of %v", cfg.Format, ValidFormats)
	}
	if err := cfg.Validate(); err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	o.Format = cfg.Format
	o.DB = cfg.DB
	o.Blobs = cfg.Blobs
	o.Concurrency = cfg.Concurrency
	o.Color = cfg.Color
	o.Logger = logging.New(os.Stderr, logging.Options{
		Verbose: o.Verbose,
		Color:   cfg.ColorOverride(),
	})
	slog.SetDefault(o.Logger)
	return nil
}

// formatter returns the output formatter for cmd. Diagnostics go to stderr so
// they never mix with JSON on stdout.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// logger returns the resolved logger, or a discarding one when the command
// runs without the root (as in tests).
func (o *RootOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return logging.Discard()
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
