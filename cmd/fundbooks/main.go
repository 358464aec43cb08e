package main

import (
	"os"

	"github.com/fundbooks-dev/fundbooks/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
