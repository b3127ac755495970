package shim

import (
	"context"
	"sort"
	"sync/atomic"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	vmshim "github.com/leachain/vm-shim"
	"github.com/leachain/vm-shim/entropy"
	"github.com/leachain/vm-shim/errors"
	"github.com/leachain/vm-shim/memory"
	"github.com/leachain/vm-shim/output"
)

// Namespace is the import module name guests use for the shim.
const Namespace = "env"

// MemoryExport is the export name the binder looks up.
const MemoryExport = "memory"

// Exporter is the part of an instantiated guest the binder needs.
// wazero's api.Module satisfies it.
type Exporter interface {
	ExportedMemory(name string) api.Memory
}

// ImportTable maps import names to host functions.
type ImportTable map[string]HostFunc

// Names returns the import names in sorted order.
func (t ImportTable) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type memoryCell struct {
	mem vmshim.Memory
}

type Shim struct {
	onAbort AbortHandler
	random  entropy.Source
	print   *output.Printer
	imports ImportTable
	mem     atomic.Pointer[memoryCell]
	strict  bool
}

// New creates a shim. It fails if cfg has no random byte source.
func New(cfg Config) (*Shim, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	s := &Shim{
		onAbort: cfg.OnAbort,
		random:  cfg.RandomBytes,
		print:   output.NewPrinter(cfg.Sink),
		strict:  cfg.Strict,
	}

	s.imports = s.builtinImports()
	for name, hf := range cfg.CustomEnv {
		s.imports[name] = hf
	}

	return s, nil
}

// fail routes a guest abort or integrity violation to the abort handler. The
// default handler prints the message in red and returns it as an error.
func (s *Shim) fail(message string, violation bool) error {
	if s.onAbort != nil {
		return s.onAbort(message)
	}
	s.print.Red(message)
	if violation {
		return errors.Violation(message)
	}
	return errors.Abort(message)
}

// Imports returns a copy of the host import table.
func (s *Shim) Imports() ImportTable {
	out := make(ImportTable, len(s.imports))
	for name, hf := range s.imports {
		out[name] = hf
	}
	return out
}

// Print returns the printer the shim writes guest-facing output to.
func (s *Shim) Print() *output.Printer {
	return s.print
}

// Instantiate registers the import table as the "env" host module in r.
// Must be called before instantiating guests that import it.
func (s *Shim) Instantiate(ctx context.Context, r wazero.Runtime) (api.Module, error) {
	builder := r.NewHostModuleBuilder(Namespace)
	for _, name := range s.imports.Names() {
		hf := s.imports[name]
		builder.NewFunctionBuilder().
			WithGoModuleFunction(hf.Fn, hf.Params, hf.Results).
			WithName(name).
			Export(name)
	}

	mod, err := builder.Instantiate(ctx)
	if err != nil {
		return nil, errors.Registration(Namespace, "*", err)
	}
	return mod, nil
}

// BindInstance makes the guest's exported memory visible to the imports.
// A guest without an exported memory is bound as "no memory" and a warning
// is emitted; rebinding replaces the previous memory.
func (s *Shim) BindInstance(inst Exporter) {
	var mem api.Memory
	if inst != nil {
		mem = inst.ExportedMemory(MemoryExport)
	}
	if mem == nil {
		Logger().Warn("guest instance has no exported memory", zap.String("export", MemoryExport))
		s.print.Orange("Warning: WebAssembly instance has no exported memory.\n")
		s.mem.Store(nil)
		return
	}
	s.BindMemory(memory.Wrap(mem))
}

// BindMemory binds mem directly. A nil mem unbinds.
func (s *Shim) BindMemory(mem vmshim.Memory) {
	if mem == nil {
		s.mem.Store(nil)
		return
	}
	s.mem.Store(&memoryCell{mem: mem})
}

// Memory returns the bound memory, or nil before binding.
func (s *Shim) Memory() vmshim.Memory {
	if c := s.mem.Load(); c != nil {
		return c.mem
	}
	return nil
}
