//go:build js && wasm

package output

import (
	"syscall/js"
)

// ConsoleSink logs through the browser console with CSS coloring.
type ConsoleSink struct {
	console js.Value
}

func NewConsoleSink() *ConsoleSink {
	return &ConsoleSink{console: js.Global().Get("console")}
}

func (s *ConsoleSink) Write(msg string, sev Severity) {
	if s.console.IsUndefined() {
		return
	}
	s.console.Call("log", "%c"+msg, "color: "+sev.CSS())
}
