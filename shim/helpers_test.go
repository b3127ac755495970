package shim

import (
	"context"
	"testing"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/leachain/vm-shim/entropy"
	"github.com/leachain/vm-shim/internal/wasmtest"
	"github.com/leachain/vm-shim/output"
)

func guestImports() []wasmtest.Import {
	sig := func(params ...api.ValueType) wasmtest.FuncType {
		return wasmtest.FuncType{Params: params}
	}
	return []wasmtest.Import{
		{Module: Namespace, Name: ImportAbort, Type: sig(i32)},
		{Module: Namespace, Name: ImportLog, Type: sig(i32, i32)},
		{Module: Namespace, Name: ImportUbsan, Type: sig(i32, i32, i32, i32)},
		{Module: Namespace, Name: ImportRandomBytes, Type: sig(i32, i32)},
		{Module: Namespace, Name: ImportExecutionLimit, Type: sig(i64, i64)},
		{Module: Namespace, Name: ImportAddressAdd, Type: sig(i32, i32)},
		{Module: Namespace, Name: ImportExecutionStackAdd, Type: sig(i32, i32, i32)},
	}
}

type harness struct {
	ctx   context.Context
	rt    wazero.Runtime
	shim  *Shim
	rec   *output.Recorder
	guest api.Module
}

func newShim(t *testing.T, cfg Config) (*Shim, *output.Recorder) {
	t.Helper()
	rec := output.NewRecorder()
	if cfg.Sink == nil {
		cfg.Sink = rec
	}
	if cfg.RandomBytes == nil {
		cfg.RandomBytes = entropy.Process
	}
	sh, err := New(cfg)
	if err != nil {
		t.Fatalf("create shim: %v", err)
	}
	return sh, rec
}

// newHarness instantiates a forwarding guest against a fresh shim. The guest
// is not bound; call bind() when the test needs memory.
func newHarness(t *testing.T, cfg Config, mod *wasmtest.Module) *harness {
	t.Helper()
	ctx := context.Background()
	sh, rec := newShim(t, cfg)

	rt := wazero.NewRuntime(ctx)
	t.Cleanup(func() { rt.Close(ctx) })

	if _, err := sh.Instantiate(ctx, rt); err != nil {
		t.Fatalf("register env: %v", err)
	}

	compiled, err := rt.CompileModule(ctx, mod.Encode())
	if err != nil {
		t.Fatalf("compile guest: %v", err)
	}
	guest, err := rt.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithStartFunctions())
	if err != nil {
		t.Fatalf("instantiate guest: %v", err)
	}

	return &harness{ctx: ctx, rt: rt, shim: sh, rec: rec, guest: guest}
}

func defaultGuest(data ...wasmtest.Data) *wasmtest.Module {
	return wasmtest.ForwardingModule(guestImports(), 1, data...)
}

func (h *harness) bind() {
	h.shim.BindInstance(h.guest)
}

func (h *harness) call(name string, args ...uint64) error {
	_, err := h.guest.ExportedFunction(name).Call(h.ctx, args...)
	return err
}

func (h *harness) read(t *testing.T, offset, length uint32) []byte {
	t.Helper()
	data, ok := h.guest.ExportedMemory("memory").Read(offset, length)
	if !ok {
		t.Fatalf("read guest memory at %d+%d", offset, length)
	}
	out := make([]byte, length)
	copy(out, data)
	return out
}
