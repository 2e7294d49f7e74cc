package main

import (
	"os"

	"github.com/bnema/bip-questionnaire/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
