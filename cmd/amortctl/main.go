package main

import (
	"os"

	"github.com/bibbank/bib/services/amortization-service/cmd/amortctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
