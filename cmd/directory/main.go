// Package main provides the directory command line client.
package main

import (
	"fmt"
	"os"

	"clubdirectory/internal/config"
)

func main() {
	cfg := config.Load()
	if err := rootCmd(cfg.DirectoryURL).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
