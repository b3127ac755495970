package runtime

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/sys"

	"github.com/leachain/vm-shim/errors"
)

// EntryPoints are the exports Run tries, in order.
var EntryPoints = []string{"_start", "main"}

type Instance struct {
	module *Module
	mod    api.Module
}

// Call invokes an exported function with raw wasm values.
// Guest aborts come back as errors recognised by errors.IsAbort.
func (i *Instance) Call(ctx context.Context, name string, args ...uint64) ([]uint64, error) {
	fn := i.mod.ExportedFunction(name)
	if fn == nil {
		return nil, errors.New(errors.PhaseRuntime, errors.KindNotFound).
			Path(name).
			Detail("exported function %q not found", name).
			Build()
	}

	if want := len(fn.Definition().ParamTypes()); want != len(args) {
		return nil, errors.New(errors.PhaseRuntime, errors.KindInvalidInput).
			Path(name).
			Value(len(args)).
			Detail("expected %d arguments, got %d", want, len(args)).
			Build()
	}

	results, err := fn.Call(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", name, err)
	}
	return results, nil
}

// Run calls the first entry point the guest exports. A WASI exit with
// status 0 counts as success.
func (i *Instance) Run(ctx context.Context) error {
	for _, name := range EntryPoints {
		if i.mod.ExportedFunction(name) == nil {
			continue
		}
		_, err := i.Call(ctx, name)
		var exitErr *sys.ExitError
		if stderrors.As(err, &exitErr) && exitErr.ExitCode() == 0 {
			return nil
		}
		return err
	}
	return errors.New(errors.PhaseRuntime, errors.KindNotFound).
		Value(EntryPoints).
		Detail("no entry point found (tried %v)", EntryPoints).
		Build()
}

// Module returns the underlying wazero module.
func (i *Instance) Module() api.Module {
	return i.mod
}

func (i *Instance) Close(ctx context.Context) error {
	return i.mod.Close(ctx)
}
