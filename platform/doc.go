// Package platform holds the composition roots that build a shim for a host
// environment.
//
// The builds differ only in their random byte source and default output sink:
//
//   - process: crypto/rand entropy, colored terminal output on stdout
//   - browser: crypto.getRandomValues entropy, browser console output
//
// Both leave abort handling to the caller. The default handler returns an
// error that errors.IsAbort recognises; a CLI that wants the process to exit
// decides so itself.
package platform
