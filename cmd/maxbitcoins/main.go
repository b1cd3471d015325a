package main

import (
	"os"

	"maxbitcoins/cmd/maxbitcoins/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
