// Package main provides the entry point for the contentgraph CLI.
package main

import (
	"fmt"
	"os"

	"github.com/Aman-CERP/contentgraph/cmd/contentgraph/cmd"
	"github.com/Aman-CERP/contentgraph/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		_, _ = fmt.Fprint(os.Stderr, errors.FormatForCLI(err))
		os.Exit(1)
	}
}
