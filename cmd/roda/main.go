package main

import (
	"fmt"
	"os"
	_ "time/tzdata"

	"github.com/benvon/roda-da-vida/cmd/roda/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
