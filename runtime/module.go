package runtime

import (
	"context"
	"sort"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/leachain/vm-shim/errors"
	"github.com/leachain/vm-shim/shim"
)

type Module struct {
	runtime  *Runtime
	compiled wazero.CompiledModule
}

// Function describes an exported guest function.
type Function struct {
	Name    string
	Params  []api.ValueType
	Results []api.ValueType
}

// Exports returns the exported functions sorted by name.
func (m *Module) Exports() []Function {
	defs := m.compiled.ExportedFunctions()
	out := make([]Function, 0, len(defs))
	for name, def := range defs {
		out = append(out, Function{
			Name:    name,
			Params:  def.ParamTypes(),
			Results: def.ResultTypes(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// MissingImports lists env imports of the module that the shim lacks.
func (m *Module) MissingImports() []string {
	table := m.runtime.shim.Imports()
	var missing []string
	for _, def := range m.compiled.ImportedFunctions() {
		moduleName, name, _ := def.Import()
		if moduleName != shim.Namespace {
			continue
		}
		if _, ok := table[name]; !ok {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}

// HasMemory reports whether the module exports a memory named "memory".
func (m *Module) HasMemory() bool {
	_, ok := m.compiled.ExportedMemories()[shim.MemoryExport]
	return ok
}

// Instantiate creates an instance and binds its memory to the shim before
// any exported entry point can run.
func (m *Module) Instantiate(ctx context.Context) (*Instance, error) {
	cfg := wazero.NewModuleConfig().
		WithName("").
		WithStartFunctions()

	rc := m.runtime.config
	if rc.stdin != nil {
		cfg = cfg.WithStdin(rc.stdin)
	}
	if rc.stdout != nil {
		cfg = cfg.WithStdout(rc.stdout)
	}
	if rc.stderr != nil {
		cfg = cfg.WithStderr(rc.stderr)
	}

	mod, err := m.runtime.engine.InstantiateModule(ctx, m.compiled, cfg)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseRuntime, errors.KindInstantiation, err, "instantiate module")
	}

	m.runtime.shim.BindInstance(mod)

	return &Instance{module: m, mod: mod}, nil
}

// Close releases the compiled module.
func (m *Module) Close(ctx context.Context) error {
	return m.compiled.Close(ctx)
}
