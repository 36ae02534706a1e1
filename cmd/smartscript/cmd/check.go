package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"

	"github.com/spf13/cobra"

	"github.com/pacer/smartscript/internal/script"
)

var checkCmd = &cobra.Command{
	Use:   "check <path>...",
	Short: "Parse files and directories and report every failure",
	Long: `check parses every given file, and every document found below every given
directory, concurrently. Directories are filtered by the configured
extensions and descended at most workspace.max_depth levels.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}

	parsed, errs := script.ParseFilesInWorkspace(files, cfg.Workspace.Workers)

	slog.Debug("check finished",
		slog.Int("files", len(files)),
		slog.Int("parsed", len(parsed)),
		slog.Int("failed", len(errs)),
	)

	out := cmd.OutOrStdout()
	for _, fileErr := range errs {
		printFileError(out, fileErr)
	}

	fmt.Fprintf(out, "%d document(s) checked, %d failed\n", len(files), len(errs))

	if len(errs) > 0 {
		return fmt.Errorf("%d of %d documents failed to parse", len(errs), len(files))
	}

	return nil
}

func collectFiles(paths []string) (map[string][]byte, error) {
	files := make(map[string][]byte)

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("checking %s: %w", path, err)
		}

		if info.IsDir() {
			found, err := script.OpenProjectFiles(path, cfg.Workspace.Extensions, cfg.Workspace.MaxDepth)
			if err != nil {
				return nil, err
			}

			maps.Copy(files, found)
			continue
		}

		source, err := script.ReadSource(path)
		if err != nil {
			return nil, err
		}

		files[path] = source
	}

	return files, nil
}

// printFileError writes one failure in the file:line:column: message form
// understood by most editors.
func printFileError(w io.Writer, fileErr script.FileError) {
	reach, ok := script.ErrorRange(fileErr.Err)
	if !ok {
		fmt.Fprintf(w, "%s: %v\n", fileErr.FileName, fileErr.Err)
		return
	}

	fmt.Fprintf(w, "%s:%d:%d: %v\n",
		fileErr.FileName,
		reach.Start.Line+1,
		reach.Start.Character+1,
		fileErr.Err,
	)
}
