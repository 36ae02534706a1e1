// Package cmd implements the smartscript command tree.
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pacer/smartscript/internal/config"
	"github.com/pacer/smartscript/internal/script"
)

var (
	cfgFile   string
	verbose   bool
	logFormat string

	// cfg is loaded before any command runs.
	cfg     *config.Config
	logFile io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "smartscript [file]",
	Short: "Parse and re-serialize SmartScript documents",
	Long: `smartscript parses a SmartScript document, serializes the tree back to
text, then parses and serializes that text a second time. Both generations
are printed so they can be compared.

Without a file argument the configured default document is used, or the
built-in sample when none is configured. Use "-" to read from stdin.`,
	Args:              cobra.MaximumNArgs(1),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE:              runRoundTrip,
}

// Execute runs the root command and reports any error on stderr.
func Execute() error {
	defer closeLogFile()

	err := rootCmd.Execute()
	if err != nil {
		printError(rootCmd.ErrOrStderr(), err)
	}

	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: smartscript.yaml in the working directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text or json (overrides config)")
}

func setup(cmd *cobra.Command, _ []string) error {
	dir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolving working directory: %w", err)
	}

	loaded, err := config.LoadOrDefault(cfgFile, dir)
	if err != nil {
		return err
	}

	if verbose {
		loaded.Logging.Level = "debug"
	}

	if logFormat != "" {
		loaded.Logging.Format = logFormat
	}

	output := cmd.ErrOrStderr()

	if loaded.Logging.File != "" {
		file, err := config.OpenLogFile(loaded.ResolvePath(loaded.Logging.File))
		if err != nil {
			return err
		}

		closeLogFile()
		logFile = file
		output = file
	}

	logger, err := loaded.Logging.NewLogger(output)
	if err != nil {
		return err
	}

	slog.SetDefault(logger)
	cfg = loaded

	slog.Debug("configuration loaded",
		slog.String("base_dir", cfg.BaseDir),
		slog.String("config_file", cfgFile),
	)

	return nil
}

func closeLogFile() {
	if logFile == nil {
		return
	}

	_ = logFile.Close()
	logFile = nil
}

// printError writes err to w, with the 1-based position when the error
// carries a source range.
func printError(w io.Writer, err error) {
	if reach, ok := script.ErrorRange(err); ok {
		fmt.Fprintf(w, "Error: %v (line %d, column %d)\n", err, reach.Start.Line+1, reach.Start.Character+1)
		return
	}

	fmt.Fprintf(w, "Error: %v\n", err)
}
