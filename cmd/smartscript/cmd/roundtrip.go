package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pacer/smartscript/internal/script"
)

var separator = strings.Repeat("-", 70)

var roundtripCmd = &cobra.Command{
	Use:   "roundtrip [file]",
	Short: "Parse, serialize and re-parse a document",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRoundTrip,
}

func init() {
	rootCmd.AddCommand(roundtripCmd)
}

func runRoundTrip(cmd *cobra.Command, args []string) error {
	name, source, err := loadDocument(cmd, args)
	if err != nil {
		return err
	}

	slog.Debug("round trip", slog.String("document", name), slog.Int("bytes", len(source)))

	result, err := script.RoundTrip(source)
	if err != nil {
		return fmt.Errorf("unable to parse document: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, result.First)
	fmt.Fprintln(out, separator)
	fmt.Fprintln(out, result.Second)

	if !result.Stable() {
		slog.Warn("serialized document changed after re-parsing", slog.String("document", name))
	}

	return nil
}
