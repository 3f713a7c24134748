// Package main is the entry point for the steam-toolbox CLI.
package main

import (
	"os"

	"steam-toolbox/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
