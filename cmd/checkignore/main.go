// Package main provides the entry point for the checkignore CLI.
package main

import (
	"os"

	"github.com/Aman-CERP/checkignore/cmd/checkignore/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
