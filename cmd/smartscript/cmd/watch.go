package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/pacer/smartscript/internal/script"
	"github.com/pacer/smartscript/internal/script/parser"
)

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-parse a document every time it is written",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolving %s: %w", args[0], err)
	}

	return watchDocument(ctx, path, cfg.Watch.Debounce.Duration, cmd.OutOrStdout())
}

// watchDocument reports the parse status of path once, then again after
// every burst of writes, until ctx is done. The parent directory is watched
// since many editors save by replacing the file.
func watchDocument(ctx context.Context, path string, debounce time.Duration, out io.Writer) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(path), err)
	}

	slog.Info("watching document", slog.String("file", path), slog.Duration("debounce", debounce))
	reportDocument(out, path)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)

	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(event.Name) != path {
				continue
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			slog.Debug("document changed", slog.String("op", event.Op.String()))

			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}

			fire = timer.C

		case <-fire:
			fire = nil
			reportDocument(out, path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			slog.Warn("watcher error", slog.Any("error", err))
		}
	}
}

func reportDocument(out io.Writer, path string) {
	fmt.Fprintf(out, "[%s] %s\n", time.Now().Format(time.TimeOnly), describeDocument(path))
}

// describeDocument parses the file at path and summarizes the outcome in
// one line.
func describeDocument(path string) string {
	source, err := script.ReadSource(path)
	if err != nil {
		return fmt.Sprintf("%s: %v", path, err)
	}

	document, err := script.ParseSingleFile(source)
	if err != nil {
		if reach, ok := script.ErrorRange(err); ok {
			return fmt.Sprintf("%s:%d:%d: %v", path, reach.Start.Line+1, reach.Start.Character+1, err)
		}

		return script.FileError{FileName: path, Err: err}.Error()
	}

	nodes := 0
	parser.Inspect(document, func(parser.Node) bool {
		nodes++
		return true
	})

	return fmt.Sprintf("%s: ok, %d nodes, %d loops", path, nodes-1, len(script.FoldingRanges(document)))
}
