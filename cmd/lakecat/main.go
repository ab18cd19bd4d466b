package main

import (
	"fmt"
	"os"

	"github.com/gear6io/lakecat/cli"
	"github.com/gear6io/lakecat/pkg/errors"
)

func main() {
	if err := cli.Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

// printError renders failures with their error code so scripted callers can
// match on it
func printError(err error) {
	if e, ok := err.(*errors.Error); ok {
		fmt.Fprintf(os.Stderr, "Error [%s]: %s\n", e.Code, e.Message)
		if e.Cause != nil {
			fmt.Fprintf(os.Stderr, "  caused by: %v\n", e.Cause)
		}
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}
