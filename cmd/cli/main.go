// Package main is the entry point for the datapoint-pricing CLI.
package main

import (
	"os"

	"datapoint-pricing/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
