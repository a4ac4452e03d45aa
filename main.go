package main

import (
	"os"

	"github.com/hbenali/pfeplan/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
