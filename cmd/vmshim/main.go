// Command vmshim runs Lea-chain guest modules with the host shim.
package main

import (
	"fmt"
	"os"

	"github.com/leachain/vm-shim/errors"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		// The shim already printed the abort message.
		if !errors.IsAbort(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
