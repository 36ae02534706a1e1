// Command smartscript-lsp provides a Language Server Protocol server for
// SmartScript documents over stdio.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pacer/smartscript/cmd/smartscript-lsp/lsp"
	"github.com/pacer/smartscript/internal/config"
)

// version is set at build time.
var version = "dev"

const (
	serverName = "SmartScript LSP"
	appName    = "smartscript-lsp"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfgFile     string
		showVersion bool
	)

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Language server for SmartScript documents",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if showVersion {
				fmt.Fprintf(cmd.OutOrStdout(), "%s -- version %s\n", serverName, version)
				return nil
			}

			dir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("resolving working directory: %w", err)
			}

			cfg, err := config.LoadOrDefault(cfgFile, dir)
			if err != nil {
				return err
			}

			closeLog, err := configureLogging(cfg)
			if err != nil {
				return err
			}
			defer closeLog()

			server := lsp.NewServer(serverName, version, cmd.OutOrStdout(), cfg)

			return server.Serve(cmd.InOrStdin())
		},
	}

	cmd.Flags().BoolVar(&showVersion, "version", false, "print the LSP version")
	cmd.Flags().StringVar(&cfgFile, "config", "", "config file (default: smartscript.yaml in the working directory)")

	return cmd
}

// configureLogging sets up structured logging. Stdout carries the protocol,
// so logs go to the configured file, then to the user cache directory, and
// to stderr as a last resort.
func configureLogging(cfg *config.Config) (func(), error) {
	output, closeLog := openLogOutput(cfg)

	logger, err := cfg.Logging.NewLogger(output)
	if err != nil {
		closeLog()
		return nil, err
	}

	slog.SetDefault(logger)

	return closeLog, nil
}

func openLogOutput(cfg *config.Config) (io.Writer, func()) {
	path := cfg.ResolvePath(cfg.Logging.File)

	if path == "" {
		cacheDir, err := os.UserCacheDir()
		if err != nil {
			return os.Stderr, func() {}
		}

		path = filepath.Join(cacheDir, appName, appName+".log")
	}

	file, err := config.OpenLogFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logging to stderr:", err)
		return os.Stderr, func() {}
	}

	return file, func() { _ = file.Close() }
}
