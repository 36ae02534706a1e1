package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pacer/smartscript/internal/script"
)

const (
	stdinName         = "-"
	builtinSampleName = "<built-in sample>"
)

// loadDocument returns the document named by args, falling back to the
// configured default document and then to the built-in sample.
func loadDocument(cmd *cobra.Command, args []string) (name string, source []byte, err error) {
	switch {
	case len(args) == 1 && args[0] == stdinName:
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return stdinName, nil, fmt.Errorf("reading stdin: %w", err)
		}

		source, err = script.DecodeSource(content)
		return stdinName, source, err

	case len(args) == 1:
		source, err = script.ReadSource(args[0])
		return args[0], source, err

	case cfg != nil && cfg.Document.Default != "":
		path := cfg.ResolvePath(cfg.Document.Default)
		source, err = script.ReadSource(path)
		return path, source, err
	}

	return builtinSampleName, []byte(script.DefaultDocument), nil
}
