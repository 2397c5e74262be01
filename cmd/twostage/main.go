// Command twostage reads lines from stdin, runs them through stage A (case
// folding) and stage B (ROT13) and prints the provenance of every line once the
// sentinel line is read.
package main

import (
	"fmt"
	"os"

	"github.com/askiada/go-twostage/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	err = newRootCmd(cfg).Execute()
	if err != nil {
		os.Exit(1)
	}
}
