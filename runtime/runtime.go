package runtime

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"

	"github.com/leachain/vm-shim/errors"
	"github.com/leachain/vm-shim/shim"
)

type Runtime struct {
	engine wazero.Runtime
	shim   *shim.Shim
	config config
}

// New creates a wazero runtime with sh registered as the env host module.
func New(ctx context.Context, sh *shim.Shim, opts ...Option) (*Runtime, error) {
	if sh == nil {
		return nil, errors.InvalidInput(errors.PhaseRuntime, "shim cannot be nil")
	}

	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	rc := wazero.NewRuntimeConfig().WithCloseOnContextDone(cfg.closeOnContextDone)
	if cfg.memoryLimitPages > 0 {
		rc = rc.WithMemoryLimitPages(cfg.memoryLimitPages)
	}
	eng := wazero.NewRuntimeWithConfig(ctx, rc)

	if _, err := sh.Instantiate(ctx, eng); err != nil {
		_ = eng.Close(ctx)
		return nil, err
	}

	if cfg.wasi {
		if _, err := wasi_snapshot_preview1.Instantiate(ctx, eng); err != nil {
			_ = eng.Close(ctx)
			return nil, errors.Registration(wasi_snapshot_preview1.ModuleName, "*", err)
		}
	}

	return &Runtime{
		engine: eng,
		shim:   sh,
		config: cfg,
	}, nil
}

// Close releases all runtime resources, including live instances.
func (r *Runtime) Close(ctx context.Context) error {
	return r.engine.Close(ctx)
}

func (r *Runtime) Shim() *shim.Shim {
	return r.shim
}

// LoadWASM compiles a core WebAssembly module. It fails if the module imports
// env functions the shim does not provide.
func (r *Runtime) LoadWASM(ctx context.Context, wasm []byte) (*Module, error) {
	compiled, err := r.engine.CompileModule(ctx, wasm)
	if err != nil {
		return nil, errors.Load("compile module", err)
	}

	mod := &Module{runtime: r, compiled: compiled}
	if missing := mod.MissingImports(); len(missing) > 0 {
		_ = compiled.Close(ctx)
		return nil, errors.New(errors.PhaseLoad, errors.KindNotFound).
			Path(shim.Namespace).
			Value(missing).
			Detail("guest imports functions the shim does not provide: %v", missing).
			Build()
	}
	return mod, nil
}
