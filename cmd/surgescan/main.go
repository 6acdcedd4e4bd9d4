package main

import (
	"os"

	"github.com/surgescan/backend/cmd/surgescan/commands"
)

// main is the entry point for the surgescan CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
