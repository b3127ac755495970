//go:build !(js && wasm)

package output

import (
	"os"
)

// ConsoleSink has no browser console outside js/wasm and falls back to
// uncolored standard output.
type ConsoleSink struct {
	*TerminalSink
}

func NewConsoleSink() *ConsoleSink {
	return &ConsoleSink{TerminalSink: NewTerminalSink(os.Stdout, WithColor(false))}
}
