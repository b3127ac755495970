package runtime

import (
	"io"
)

// Option configures a Runtime.
type Option func(*config)

type config struct {
	stdin              io.Reader
	stdout             io.Writer
	stderr             io.Writer
	memoryLimitPages   uint32
	wasi               bool
	closeOnContextDone bool
}

// WithWASI instantiates wasi_snapshot_preview1 for guests built against a libc.
func WithWASI() Option {
	return func(c *config) {
		c.wasi = true
	}
}

// WithStdio sets the guest's WASI standard streams. Nil values keep the default (none).
func WithStdio(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(c *config) {
		c.stdin = stdin
		c.stdout = stdout
		c.stderr = stderr
	}
}

// WithMemoryLimitPages caps guest memory at pages of 64 KiB.
func WithMemoryLimitPages(pages uint32) Option {
	return func(c *config) {
		c.memoryLimitPages = pages
	}
}

// WithCloseOnContextDone interrupts guest calls when their context is done.
func WithCloseOnContextDone() Option {
	return func(c *config) {
		c.closeOnContextDone = true
	}
}
