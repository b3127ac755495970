// Package errors provides structured error types for the VM shim.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries an optional location path, the offending value, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseHost, errors.KindOutOfBounds).
//		Path("env", "__lea_log").
//		Value(ptr).
//		Detail("cannot read %d bytes", n).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.MissingRandomSource()
//	err := errors.Abort("[ABORT] at line 42\n")
//
// Guest aborts and integrity violations are ordinary values: the shim returns
// them and the composition root decides whether to exit, throw, or log.
//
//	if errors.IsAbort(err) {
//	    os.Exit(1)
//	}
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
