package main

import (
	"fmt"
	"os"

	"github.com/danmuck/oscpack/internal/logging"
)

func main() {
	logging.ConfigureRuntime()
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "oscpack: %v\n", err)
		os.Exit(1)
	}
}
