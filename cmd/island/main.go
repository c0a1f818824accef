// Package main is the entry point of the island.
package main

import (
	"os"

	"github.com/genricoloni/island/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
