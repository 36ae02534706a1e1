package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pacer/smartscript/internal/script/lexer"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens [file]",
	Short: "Print the token stream of a document",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)
}

func runTokens(cmd *cobra.Command, args []string) error {
	_, source, err := loadDocument(cmd, args)
	if err != nil {
		return err
	}

	tokens, lexErr := lexer.Tokenize(string(source))

	if err := writeTokens(cmd.OutOrStdout(), tokens); err != nil {
		return err
	}

	if lexErr != nil {
		return fmt.Errorf("unable to tokenize document: %w", lexErr)
	}

	return nil
}

func writeTokens(w io.Writer, tokens []lexer.Token) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	for _, token := range tokens {
		fmt.Fprintf(tw, "%d:%d-%d:%d\t%s\t%q\n",
			token.Range.Start.Line+1,
			token.Range.Start.Character+1,
			token.Range.End.Line+1,
			token.Range.End.Character+1,
			token.ID,
			token.Value,
		)
	}

	return tw.Flush()
}
