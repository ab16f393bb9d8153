// Command rsyncdiff builds block signatures, computes deltas against them,
// and applies deltas to reconstruct a target file.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
