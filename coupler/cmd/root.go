// Package cmd provides the command-line interface of coupler.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"slices"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
)

// rootOptions holds the flags every command shares.
type rootOptions struct {
	logLevel  string
	logFormat string
	envFile   string

	logger *slog.Logger
}

// NewRootCommand creates the coupler command with all its subcommands.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "coupler",
		Short: "Coupler drives time-stepped components in lockstep.",
		Long: `Coupler drives time-stepped components in lockstep. It reads a ` +
			`YAML description of the ports, the order they run in and the ` +
			`mappings between their grids, then advances every port to a ` +
			`common time.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.logLevel, "log-level", "warn",
		"log level (debug|info|warn|error), or COUPLER_LOG_LEVEL")
	flags.StringVar(&opts.logFormat, "log-format", "text",
		"log format (text|json), or COUPLER_LOG_FORMAT")
	flags.StringVar(&opts.envFile, "env-file", "",
		"file to load environment variables from (default .env if present)")

	rootCmd.AddCommand(
		newValidateCommand(opts),
		newScheduleCommand(opts),
		newRunCommand(opts),
		newReportCommand(opts),
	)

	return rootCmd
}

// setup loads the environment and builds the logger.
func (o *rootOptions) setup(cmd *cobra.Command) error {
	if err := loadEnv(o.envFile); err != nil {
		return err
	}

	flags := cmd.Flags()
	if !flags.Changed("log-level") {
		if v, ok := os.LookupEnv("COUPLER_LOG_LEVEL"); ok {
			o.logLevel = v
		}
	}

	if !flags.Changed("log-format") {
		if v, ok := os.LookupEnv("COUPLER_LOG_FORMAT"); ok {
			o.logFormat = v
		}
	}

	if !slices.Contains(logLevels, o.logLevel) {
		return fmt.Errorf("invalid log level %q: must be one of %v",
			o.logLevel, logLevels)
	}

	if !slices.Contains(logFormats, o.logFormat) {
		return fmt.Errorf("invalid log format %q: must be one of %v",
			o.logFormat, logFormats)
	}

	o.logger = newLogger(o.logLevel, o.logFormat, cmd.ErrOrStderr())

	return nil
}

// loadEnv reads an explicit env file, or .env when it exists. Variables
// already set in the environment win.
func loadEnv(file string) error {
	if file != "" {
		return godotenv.Load(file)
	}

	err := godotenv.Load()
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return err
}

func newLogger(level, format string, w io.Writer) *slog.Logger {
	var l slog.Level

	switch level {
	case "debug":
		l = slog.LevelDebug
	case "info":
		l = slog.LevelInfo
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelWarn
	}

	handlerOpts := &slog.HandlerOptions{Level: l}

	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}

	return slog.New(slog.NewTextHandler(w, handlerOpts))
}
