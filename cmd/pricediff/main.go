// Package main is the entry point for the pricediff CLI.
package main

import (
	"os"

	"github.com/donaldgifford/pricediff/cmd/pricediff/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
