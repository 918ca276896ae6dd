package main

import (
	"os"

	"github.com/dvorn/feynman-tools/cmd"
)

func main() {
	if err := cmd.RootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
