package main

import (
	"os"

	"github.com/minminkikiki/kaia-sdk/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
