package shim

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	vmshim "github.com/leachain/vm-shim"
	"github.com/leachain/vm-shim/errors"
)

// Import names in the env namespace.
const (
	ImportAbort             = "__lea_abort"
	ImportLog               = "__lea_log"
	ImportUbsan             = "__lea_ubsen"
	ImportRandomBytes       = "__lea_randombytes"
	ImportExecutionLimit    = "__execution_limit"
	ImportAddressAdd        = "__address_add"
	ImportExecutionStackAdd = "__execution_stack_add"
)

var (
	i32 = api.ValueTypeI32
	i64 = api.ValueTypeI64
)

func (s *Shim) builtinImports() ImportTable {
	return ImportTable{
		ImportAbort: {
			Fn: api.GoModuleFunc(func(_ context.Context, _ api.Module, stack []uint64) {
				trap(s.Abort(api.DecodeI32(stack[0])))
			}),
			Params: []api.ValueType{i32},
		},
		ImportLog: {
			Fn: api.GoModuleFunc(func(_ context.Context, _ api.Module, stack []uint64) {
				trap(s.Log(api.DecodeU32(stack[0]), api.DecodeU32(stack[1])))
			}),
			Params: []api.ValueType{i32, i32},
		},
		ImportUbsan: {
			Fn: api.GoModuleFunc(func(_ context.Context, _ api.Module, stack []uint64) {
				trap(s.Ubsan(api.DecodeU32(stack[0]), api.DecodeU32(stack[1]),
					api.DecodeI32(stack[2]), api.DecodeI32(stack[3])))
			}),
			Params: []api.ValueType{i32, i32, i32, i32},
		},
		ImportRandomBytes: {
			Fn: api.GoModuleFunc(func(_ context.Context, _ api.Module, stack []uint64) {
				trap(s.RandomBytes(api.DecodeU32(stack[0]), api.DecodeU32(stack[1])))
			}),
			Params: []api.ValueType{i32, i32},
		},
		ImportExecutionLimit: {
			Fn: api.GoModuleFunc(func(_ context.Context, _ api.Module, stack []uint64) {
				s.ExecutionLimit(int64(stack[0]), int64(stack[1]))
			}),
			Params: []api.ValueType{i64, i64},
		},
		ImportAddressAdd: {
			Fn: api.GoModuleFunc(func(_ context.Context, _ api.Module, stack []uint64) {
				s.AddressAdd(api.DecodeI32(stack[0]), api.DecodeI32(stack[1]))
			}),
			Params: []api.ValueType{i32, i32},
		},
		ImportExecutionStackAdd: {
			Fn: api.GoModuleFunc(func(_ context.Context, _ api.Module, stack []uint64) {
				s.ExecutionStackAdd(api.DecodeI32(stack[0]), api.DecodeI32(stack[1]), api.DecodeI32(stack[2]))
			}),
			Params: []api.ValueType{i32, i32, i32},
		},
	}
}

// trap unwinds the guest with err. wazero recovers the panic and returns err
// (wrapped) from the guest call.
func trap(err error) {
	if err != nil {
		panic(err)
	}
}

// unbound handles a memory-touching call made before binding.
func (s *Shim) unbound(name string) error {
	Logger().Debug("guest memory not bound", zap.String("import", name))
	if s.strict {
		err := errors.NotInitialized(errors.PhaseBind, "guest memory")
		err.Path = []string{Namespace, name}
		return err
	}
	return nil
}

// Abort implements __lea_abort.
func (s *Shim) Abort(line int32) error {
	return s.fail(fmt.Sprintf("[ABORT] at line %d\n", line), false)
}

// Log implements __lea_log: it prints length bytes at ptr as a diagnostic.
func (s *Shim) Log(ptr, length uint32) error {
	mem := s.Memory()
	if mem == nil {
		return s.unbound(ImportLog)
	}
	data, err := mem.Read(ptr, length)
	if err != nil {
		return errors.OutOfBounds(errors.PhaseHost, []string{Namespace, ImportLog}, ptr, length, err)
	}
	s.print.Orange(vmshim.DecodeUTF8(data))
	return nil
}

// Ubsan implements __lea_ubsen, the integrity-violation trap.
func (s *Shim) Ubsan(namePtr, filenamePtr uint32, line, column int32) error {
	mem := s.Memory()
	if mem == nil {
		return s.fail("[UBSEN] at unknown location (memory not bound)\n", true)
	}
	name := vmshim.CString(mem, namePtr)
	filename := vmshim.CString(mem, filenamePtr)
	return s.fail(fmt.Sprintf("[UBSEN] %s at %s:%d:%d\n", name, filename, line, column), true)
}

// RandomBytes implements __lea_randombytes: it fills length bytes at ptr.
func (s *Shim) RandomBytes(ptr, length uint32) error {
	s.print.Blue(fmt.Sprintf("[VM] __lea_randombytes requested %d bytes\n", length))

	mem := s.Memory()
	if mem == nil {
		return s.unbound(ImportRandomBytes)
	}

	data, err := s.random(int(length))
	if err != nil {
		return err
	}
	if len(data) < int(length) {
		return errors.ShortRead(errors.PhaseEntropy, int(length), len(data))
	}
	if err := mem.Write(ptr, data[:length]); err != nil {
		return errors.OutOfBounds(errors.PhaseHost, []string{Namespace, ImportRandomBytes}, ptr, length, err)
	}
	return nil
}

// ExecutionLimit implements __execution_limit. It only reports the call.
func (s *Shim) ExecutionLimit(gasPrice, gasLimit int64) {
	s.print.Blue(fmt.Sprintf("[VM] __execution_limit called with gas_price=%d, gas_limit=%d\n", gasPrice, gasLimit))
}

// AddressAdd implements __address_add. It only reports the call.
func (s *Shim) AddressAdd(addressData, addressSize int32) {
	s.print.Blue(fmt.Sprintf("[VM] __address_add called with address_data=%d, address_size=%d\n", addressData, addressSize))
}

// ExecutionStackAdd implements __execution_stack_add. It only reports the call.
func (s *Shim) ExecutionStackAdd(targetIndex, instructionData, instructionSize int32) {
	s.print.Blue(fmt.Sprintf("[VM] __execution_stack_add called with target_index=%d, instruction_data=%d, instruction_size=%d\n",
		targetIndex, instructionData, instructionSize))
}
