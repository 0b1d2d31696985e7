package main

import (
	"os"

	"github.com/ybekenov/hire-funnel/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
