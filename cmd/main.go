package main

import (
	"os"

	"github.com/takak2166/appstruct/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
