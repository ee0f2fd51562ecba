package main

import (
	"os"

	"github.com/rustyeddy/banksim/cmd/banksim/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
