package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joseph-ayodele/catalog-extractor/internal/common"
)

func main() {
	if err := newRootCmd(&app{}).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode separates bad configuration (2) from an aborted run (1).
func exitCode(err error) int {
	if errors.Is(err, common.ErrInvalidInput) {
		return 2
	}
	return 1
}
