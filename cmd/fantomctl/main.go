// Package main is the entry point for the fantomctl CLI.
package main

import (
	"os"

	"github.com/kailas-cloud/fantom/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
