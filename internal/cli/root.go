package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/roach88/swiss/internal/engine"
	"github.com/roach88/swiss/internal/pgstore"
	"github.com/roach88/swiss/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	Driver   string // "sqlite" | "postgres"
	Database string // SQLite path
	DSN      string // PostgreSQL DSN; falls back to $DATABASE_URL

	traceIDs TraceIDGenerator
	traceID  string
	logger   *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// ValidDrivers defines the supported store backends.
var ValidDrivers = []string{"sqlite", "postgres"}

// NewRootCommand creates the root command for the swiss CLI.
func NewRootCommand() *cobra.Command {
	return NewRootCommandWithTraceIDs(UUIDv7Generator{})
}

// NewRootCommandWithTraceIDs creates the root command with a custom trace id
// source. Tests pass a fixed generator for byte-stable JSON.
func NewRootCommandWithTraceIDs(traceIDs TraceIDGenerator) *cobra.Command {
	opts := &RootOptions{traceIDs: traceIDs}

	cmd := &cobra.Command{
		Use:   "swiss",
		Short: "Swiss-system tournament tracker",
		Long: `Track a Swiss-system tournament: register players, report match
results, read standings and generate the next round of pairings.

State lives in SQLite (default) or PostgreSQL. Every invocation is tagged
with a trace id that appears in JSON output and in logs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			if !contains(ValidDrivers, opts.Driver) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid driver %q: must be one of %v", opts.Driver, ValidDrivers))
			}

			level := slog.LevelInfo
			if opts.Verbose {
				level = slog.LevelDebug
			}
			opts.traceID = opts.traceIDs.Generate()
			handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
			opts.logger = slog.New(handler).With("trace_id", opts.traceID)

			// .env is optional; existing environment variables win
			if err := godotenv.Load(); err != nil {
				opts.logger.Debug("no .env file loaded", "error", err)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Driver, "driver", "sqlite", "store backend (sqlite|postgres)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "swiss.db", "path to SQLite database")
	cmd.PersistentFlags().StringVar(&opts.DSN, "dsn", "", "PostgreSQL DSN (default $DATABASE_URL)")

	// Add subcommands
	cmd.AddCommand(NewResetCommand(opts))
	cmd.AddCommand(NewRegisterCommand(opts))
	cmd.AddCommand(NewCountCommand(opts))
	cmd.AddCommand(NewStandingsCommand(opts))
	cmd.AddCommand(NewReportCommand(opts))
	cmd.AddCommand(NewPairCommand(opts))
	cmd.AddCommand(NewPairingsCommand(opts))
	cmd.AddCommand(NewMatchesCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewScenarioCommand(opts))

	return cmd
}

// formatter returns an OutputFormatter writing to the command's streams.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
		TraceID:   o.traceID,
	}
}

// openEngine opens the configured store and wraps it in an engine.
// The returned close function releases the store.
func (o *RootOptions) openEngine() (*engine.Engine, func(), error) {
	var st engine.Store
	switch o.Driver {
	case "postgres":
		dsn := o.DSN
		if dsn == "" {
			dsn = os.Getenv("DATABASE_URL")
		}
		if dsn == "" {
			return nil, nil, fmt.Errorf("postgres driver requires --dsn or DATABASE_URL")
		}
		pg, err := pgstore.Open(dsn)
		if err != nil {
			return nil, nil, err
		}
		st = pg
	default:
		sq, err := store.Open(o.Database)
		if err != nil {
			return nil, nil, err
		}
		st = sq
	}

	o.logger.Debug("store opened", "driver", o.Driver)
	closeFn := func() {
		if err := st.Close(); err != nil {
			o.logger.Error("error closing store", "error", err)
		}
	}
	return engine.New(st, engine.WithLogger(o.logger)), closeFn, nil
}

// withEngine opens the engine for one command and reports open failures
// as CONNECTION errors.
func (o *RootOptions) withEngine(cmd *cobra.Command, fn func(eng *engine.Engine, f *OutputFormatter) error) error {
	f := o.formatter(cmd)

	eng, closeFn, err := o.openEngine()
	if err != nil {
		_ = f.Error(string(engine.CodeConnection), err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open store", err)
	}
	defer closeFn()

	return fn(eng, f)
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
