package main

import (
	"os"

	"github.com/spherical-ai/scitrans/cmd/scitrans/commands"
	"github.com/spherical-ai/scitrans/cmd/scitrans/ui"
)

func main() {
	if err := commands.Execute(); err != nil {
		ui.Error("%v", err)
		os.Exit(1)
	}
}
