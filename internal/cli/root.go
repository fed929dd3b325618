package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/roach88/mongoexpr/internal/compiler"
	"github.com/roach88/mongoexpr/internal/mapping"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{FormatText, FormatJSON, FormatYAML}

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text" | "yaml"
	Tables  string // optional CUE table file

	// NewTraceID generates the trace id stamped on JSON responses.
	// Defaults to a UUIDv7.
	NewTraceID func() string

	logger *slog.Logger
}

// NewRootCommand creates the root command for the mongoexpr CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mongoexpr",
		Short: "mongoexpr - expressions to MongoDB documents",
		Long: `Compile JavaScript-style expressions into MongoDB filter and update documents.

Comparisons, && and || and field methods compile to filters:
  age >= 18 && tags.in("a", "b")

Comma-separated assignments, delete and ++ compile to updates:
  name = "x", visits += 1, delete tmp`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			opts.logger = newLogger(cmd.ErrOrStderr(), opts.Verbose)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", FormatText, "output format (json|text|yaml)")
	cmd.PersistentFlags().StringVar(&opts.Tables, "tables", "", "CUE file with operator and method tables")

	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewParseCommand(opts))
	cmd.AddCommand(NewTablesCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// newLogger logs to w at debug level when verbose, and nowhere otherwise.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func newTraceID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// formatter builds the output formatter for one command invocation.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	if o.NewTraceID == nil {
		o.NewTraceID = newTraceID
	}
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
		TraceID:   o.NewTraceID(),
	}
}

// log returns the command logger, which is silent before PersistentPreRunE.
func (o *RootOptions) log() *slog.Logger {
	if o.logger == nil {
		o.logger = newLogger(io.Discard, false)
	}
	return o.logger
}

// loadTables returns the tables named by --tables, or the embedded defaults.
func (o *RootOptions) loadTables() (*mapping.Tables, error) {
	if o.Tables == "" {
		t := mapping.Default()
		o.log().Debug("using embedded tables", "operators", len(t.Operators()), "methods", len(t.Methods()))
		return t, nil
	}

	t, err := mapping.Load(o.Tables)
	if err != nil {
		return nil, err
	}
	o.log().Debug("loaded tables", "path", o.Tables, "operators", len(t.Operators()), "methods", len(t.Methods()))
	return t, nil
}

// compiler returns a compiler over the configured tables.
func (o *RootOptions) compiler() (*compiler.Compiler, error) {
	t, err := o.loadTables()
	if err != nil {
		return nil, err
	}
	return compiler.New(t), nil
}
