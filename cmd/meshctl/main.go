// Command meshctl runs command network snapshots through the orchestration
// pipeline and prints the results.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// Exit codes
const (
	ExitSuccess          = 0
	ExitError            = 1
	ExitValidationFailed = 2
)

func main() {
	if err := Execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, ErrValidationFailed) {
			os.Exit(ExitValidationFailed)
		}
		os.Exit(ExitError)
	}
	os.Exit(ExitSuccess)
}
