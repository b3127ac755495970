// Package output renders guest-facing messages by severity.
//
// Every message has one of four severities, each tied to a color:
//
//	SeverityAbort    red     (ANSI 196)
//	SeverityLog      orange  (ANSI 208)
//	SeveritySuccess  green   (ANSI 46)
//	SeverityInfo     blue    (ANSI 33)
//
// A Sink decides how a message is presented. TerminalSink writes ANSI-colored
// text, ConsoleSink calls console.log with CSS styling on js/wasm, ZapSink
// forwards to a structured logger and Recorder keeps messages in memory.
// Printer is the color-named front end the shim exposes to callers.
package output
