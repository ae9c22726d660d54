package main

import (
	"os"

	"github.com/mll-dev/litassess/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
