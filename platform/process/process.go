// Package process builds a shim for native Go processes.
package process

import (
	"os"

	"github.com/leachain/vm-shim/entropy"
	"github.com/leachain/vm-shim/output"
	"github.com/leachain/vm-shim/shim"
)

// New creates a shim backed by process entropy. Unset fields of cfg get the
// process defaults: entropy.Process as the random source and a terminal sink
// on stdout.
func New(cfg shim.Config) (*shim.Shim, error) {
	if cfg.RandomBytes == nil {
		cfg.RandomBytes = entropy.Process
	}
	if cfg.Sink == nil {
		cfg.Sink = output.NewTerminalSink(os.Stdout)
	}
	return shim.New(cfg)
}
