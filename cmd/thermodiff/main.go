package main

import (
	"os"

	"github.com/ipqa-research/thermodiff/cmd/thermodiff/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
