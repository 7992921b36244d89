// Command keyorder inspects dictionary key-order observations: it interns
// key orders, collapses observation files into one order and prunes them
// against a coverage cutoff.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
