package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pacer/smartscript/internal/script"
	"github.com/pacer/smartscript/internal/script/printer"
)

var treeFormat string

var treeCmd = &cobra.Command{
	Use:   "tree [file]",
	Short: "Print the document tree as YAML or JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTree,
}

func init() {
	treeCmd.Flags().StringVarP(&treeFormat, "format", "f", "", "output format: yaml or json (default from config)")
	rootCmd.AddCommand(treeCmd)
}

func runTree(cmd *cobra.Command, args []string) error {
	_, source, err := loadDocument(cmd, args)
	if err != nil {
		return err
	}

	document, err := script.ParseSingleFile(source)
	if err != nil {
		return fmt.Errorf("unable to parse document: %w", err)
	}

	format := treeFormat
	if format == "" {
		format = cfg.Tree.Format
	}

	return printer.WriteOutline(cmd.OutOrStdout(), document, format)
}
