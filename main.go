package main

import (
	"os"

	"github.com/abhisek/iroquiz/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
