// Package main provides the entry point for the docsearch CLI.
package main

import (
	"fmt"
	"os"

	"github.com/doylet/docsearch/cmd/docsearch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
