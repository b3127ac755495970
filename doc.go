// Package vmshim supplies Lea-chain virtual machine guest modules with the host
// imports they need: abort signaling, diagnostic logging, cryptographically
// strong random bytes, and instrumentation hooks for gas accounting, address
// registration, and execution-stack tracing.
//
// # Architecture Overview
//
//	vmshim/             Root package with the Memory interface and CString
//	├── shim/           Host import table and memory binder
//	├── runtime/        wazero-backed loader that drives instantiate → bind → run
//	├── memory/         wazero linear memory adapter
//	├── entropy/        Random byte sources (process, browser, fixed)
//	├── output/         Severity-classified output sinks and the Printer
//	├── platform/       Composition roots for process and browser hosts
//	├── errors/         Structured error types
//	└── cmd/vmshim/     CLI for running and inspecting guest modules
//
// # Quick Start
//
//	sh, err := process.New(shim.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	rt, err := runtime.New(ctx, sh)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close(ctx)
//
//	mod, err := rt.LoadWASM(ctx, wasmBytes)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	inst, err := mod.Instantiate(ctx) // binds guest memory before any entry point
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer inst.Close(ctx)
//
//	if err := inst.Run(ctx); errors.IsAbort(err) {
//	    os.Exit(1)
//	}
//
// # Memory Binding
//
// Host imports read guest memory through a cell that is written after
// instantiation; rebinding replaces it. Imports invoked before binding degrade to no-ops (or trap,
// in strict mode), except the abort paths which always reach the abort handler.
//
// # Thread Safety
//
// A Shim may be shared, but a guest instance calls its imports from a single
// goroutine. Guest memory is accessed without locks.
package vmshim
