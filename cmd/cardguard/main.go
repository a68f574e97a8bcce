package main

import (
	"os"

	"github.com/cardguard-dev/cardguard/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
