package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/pacer/smartscript/internal/script/parser"
	"github.com/pacer/smartscript/internal/script/printer"
)

const continuationPrompt = "... "

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Parse document lines interactively",
	Long: `repl reads document text line by line and prints each parsed line back in
serialized form. A line that opens a FOR loop without closing it keeps
collecting lines until the loop is closed. Type exit or quit, or press
Ctrl+D, to leave.`,
	Args: cobra.NoArgs,
	RunE: runREPL,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

var tagSnippets = []string{"{$FOR ", "{$END$}", "{$= "}

func runREPL(cmd *cobra.Command, _ []string) error {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(completeTag)

	historyPath := cfg.ResolvePath(cfg.REPL.HistoryFile)
	loadHistory(line, historyPath)
	defer saveHistory(line, historyPath)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "SmartScript REPL. Type exit or quit to leave.")

	var session replSession

	for {
		prompt := cfg.REPL.Prompt
		if session.pending() {
			prompt = continuationPrompt
		}

		input, err := line.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			if session.pending() {
				fmt.Fprintln(out, "^C (cleared)")
			} else {
				fmt.Fprintln(out, "^C")
			}

			session.reset()
			continue
		}

		if errors.Is(err, io.EOF) {
			fmt.Fprintln(out)
			return nil
		}

		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		trimmed := strings.TrimSpace(input)
		if !session.pending() {
			switch trimmed {
			case "":
				continue
			case "exit", "quit":
				return nil
			}
		}

		line.AppendHistory(input)
		session.eval(out, input)
	}
}

// replSession collects lines until they form a complete document.
type replSession struct {
	lines []string
}

func (s *replSession) pending() bool {
	return len(s.lines) > 0
}

func (s *replSession) reset() {
	s.lines = s.lines[:0]
}

// eval adds input to the session and prints the serialized document once
// it parses. An unclosed FOR loop waits for more lines; any other failure
// is printed and discards the collected lines.
func (s *replSession) eval(w io.Writer, input string) {
	s.lines = append(s.lines, input)

	document, err := parser.Parse(strings.Join(s.lines, "\n"))
	if errors.Is(err, parser.ErrUnclosedFor) {
		return
	}

	defer s.reset()

	if err != nil {
		fmt.Fprintf(w, "error: %v\n", err)
		return
	}

	fmt.Fprintln(w, printer.Serialize(document))
}

// completeTag offers tag snippets for the tag being typed at the end of line.
func completeTag(line string) []string {
	index := strings.LastIndex(line, "{")
	if index < 0 {
		return nil
	}

	prefix, partial := line[:index], strings.ToUpper(line[index:])

	var candidates []string
	for _, snippet := range tagSnippets {
		if strings.HasPrefix(snippet, partial) {
			candidates = append(candidates, prefix+snippet)
		}
	}

	return candidates
}

func loadHistory(line *liner.State, path string) {
	if path == "" {
		return
	}

	//nolint:gosec // history path comes from the config file
	file, err := os.Open(path)
	if err != nil {
		return
	}
	defer file.Close()

	if _, err := line.ReadHistory(file); err != nil {
		slog.Debug("unable to read history", slog.String("file", path), slog.Any("error", err))
	}
}

func saveHistory(line *liner.State, path string) {
	if path == "" {
		return
	}

	//nolint:gosec // history path comes from the config file
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		slog.Warn("unable to save history", slog.String("file", path), slog.Any("error", err))
		return
	}
	defer file.Close()

	if _, err := line.WriteHistory(file); err != nil {
		slog.Warn("unable to save history", slog.String("file", path), slog.Any("error", err))
	}
}
