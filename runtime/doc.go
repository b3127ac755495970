// Package runtime runs Lea-chain guest modules on wazero with a shim.
//
// It drives the host-side control flow in the only safe order:
//
//  1. New registers the shim's import table as the "env" host module.
//  2. LoadWASM compiles the guest and checks its env imports.
//  3. Module.Instantiate instantiates without running any entry point, then
//     binds the guest's exported memory to the shim.
//  4. Instance.Run or Instance.Call enters the guest.
//
// A wasm start section still runs during step 3, before binding; imports it
// calls take their unbound paths.
//
// # Usage
//
//	rt, err := runtime.New(ctx, sh, runtime.WithWASI())
//	if err != nil {
//	    return err
//	}
//	defer rt.Close(ctx)
//
//	mod, err := rt.LoadWASM(ctx, wasmBytes)
//	if err != nil {
//	    return err
//	}
//
//	inst, err := mod.Instantiate(ctx)
//	if err != nil {
//	    return err
//	}
//	defer inst.Close(ctx)
//
//	results, err := inst.Call(ctx, "add", 1, 2)
//
// # Instances
//
// A shim has a single memory cell, so only the most recently instantiated
// instance of a Runtime sees its own memory from the imports. Run one instance
// at a time per Runtime, or give each instance its own Runtime and shim.
package runtime
