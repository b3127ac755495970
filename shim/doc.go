// Package shim implements the host side of the Lea-chain VM import protocol.
//
// A Shim owns three things: the host import table exposed to the guest under
// the "env" namespace, a memory cell that the binder fills once the guest is
// instantiated, and the Printer used for guest-facing output.
//
//	sh, err := shim.New(shim.Config{RandomBytes: entropy.Process})
//	if err != nil {
//	    return err
//	}
//	if _, err := sh.Instantiate(ctx, r); err != nil { // registers "env"
//	    return err
//	}
//	mod, err := r.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithStartFunctions())
//	if err != nil {
//	    return err
//	}
//	sh.BindInstance(mod) // before the guest entry point runs
//
// # Imports
//
//	__lea_abort(line i32)
//	__lea_log(ptr i32, len i32)
//	__lea_ubsen(name i32, filename i32, line i32, column i32)
//	__lea_randombytes(ptr i32, len i32)
//	__execution_limit(gas_price i64, gas_limit i64)
//	__address_add(address_data i32, address_size i32)
//	__execution_stack_add(target_index i32, instruction_data i32, instruction_size i32)
//
// Every import reads the memory cell when it is called, never at construction.
// Before binding, log and random-bytes calls are dropped (or trap in strict
// mode); the integrity-violation import reports an unknown location.
//
// # Abort Policy
//
// The abort handler returns an error instead of terminating the process. A
// non-nil error traps the guest: wazero unwinds it and the error comes back
// from the guest call, where errors.IsAbort recognises it. Composition roots
// decide whether that ends the process.
package shim
