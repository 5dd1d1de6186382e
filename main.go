package main

import (
	"os"

	"github.com/fpdrill/fpdrill/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
