// Command smartscript parses, checks and pretty prints SmartScript documents.
package main

import (
	"os"

	"github.com/pacer/smartscript/cmd/smartscript/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
