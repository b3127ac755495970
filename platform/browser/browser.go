// Package browser builds a shim for js/wasm hosts running in a web page or
// worker.
package browser

import (
	"github.com/leachain/vm-shim/entropy"
	"github.com/leachain/vm-shim/output"
	"github.com/leachain/vm-shim/shim"
)

// New creates a shim backed by crypto.getRandomValues with console output.
// Outside a browser the random source fails at call time with an
// unavailable error.
func New(cfg shim.Config) (*shim.Shim, error) {
	if cfg.RandomBytes == nil {
		cfg.RandomBytes = entropy.Browser
	}
	if cfg.Sink == nil {
		cfg.Sink = output.NewConsoleSink()
	}
	return shim.New(cfg)
}
