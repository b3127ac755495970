package runtime

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/tetratelabs/wazero/api"

	"github.com/leachain/vm-shim/entropy"
	"github.com/leachain/vm-shim/errors"
	"github.com/leachain/vm-shim/internal/wasmtest"
	"github.com/leachain/vm-shim/output"
	"github.com/leachain/vm-shim/shim"
)

const (
	i32 = api.ValueTypeI32
	i64 = api.ValueTypeI64

	opI32Add = 0x6a
)

var (
	abortImport = wasmtest.Import{
		Module: shim.Namespace,
		Name:   shim.ImportAbort,
		Type:   wasmtest.FuncType{Params: []api.ValueType{i32}},
	}
	logImport = wasmtest.Import{
		Module: shim.Namespace,
		Name:   shim.ImportLog,
		Type:   wasmtest.FuncType{Params: []api.ValueType{i32, i32}},
	}
)

func newRuntime(t *testing.T, opts ...Option) (*Runtime, *output.Recorder) {
	t.Helper()
	ctx := context.Background()
	rec := output.NewRecorder()
	sh, err := shim.New(shim.Config{RandomBytes: entropy.Process, Sink: rec})
	if err != nil {
		t.Fatalf("create shim: %v", err)
	}
	rt, err := New(ctx, sh, opts...)
	if err != nil {
		t.Fatalf("create runtime: %v", err)
	}
	t.Cleanup(func() { rt.Close(ctx) })
	return rt, rec
}

func instantiate(t *testing.T, rt *Runtime, mod *wasmtest.Module) *Instance {
	t.Helper()
	ctx := context.Background()
	m, err := rt.LoadWASM(ctx, mod.Encode())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	inst, err := m.Instantiate(ctx)
	if err != nil {
		t.Fatalf("instantiate: %v", err)
	}
	return inst
}

// addModule exports add(i32, i32) -> i32.
func addModule() *wasmtest.Module {
	return &wasmtest.Module{
		Funcs: []wasmtest.Func{{
			Export: "add",
			Type:   wasmtest.FuncType{Params: []api.ValueType{i32, i32}, Results: []api.ValueType{i32}},
			Body:   []byte{wasmtest.OpLocalGet, 0, wasmtest.OpLocalGet, 1, opI32Add},
		}},
	}
}

func TestNewRequiresShim(t *testing.T) {
	_, err := New(context.Background(), nil)
	if err == nil {
		t.Fatal("expected error for nil shim")
	}
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Kind != errors.KindInvalidInput {
		t.Errorf("expected invalid_input, got %v", err)
	}
}

func TestLoadInvalidWASM(t *testing.T) {
	rt, _ := newRuntime(t)
	_, err := rt.LoadWASM(context.Background(), []byte("not wasm"))
	if err == nil {
		t.Fatal("expected error for invalid module")
	}
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Phase != errors.PhaseLoad {
		t.Errorf("expected load phase error, got %v", err)
	}
}

func TestLoadRejectsUnknownEnvImports(t *testing.T) {
	rt, _ := newRuntime(t)
	mod := &wasmtest.Module{
		Imports: []wasmtest.Import{
			abortImport,
			{Module: shim.Namespace, Name: "__lea_missing", Type: wasmtest.FuncType{}},
		},
	}
	_, err := rt.LoadWASM(context.Background(), mod.Encode())
	if err == nil {
		t.Fatal("expected error for missing import")
	}
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Kind != errors.KindNotFound {
		t.Fatalf("expected not_found, got %v", err)
	}
	if !strings.Contains(err.Error(), "__lea_missing") {
		t.Errorf("error should name the missing import: %v", err)
	}
}

func TestModuleExports(t *testing.T) {
	rt, _ := newRuntime(t)
	mod := addModule()
	mod.Funcs = append(mod.Funcs, wasmtest.Func{Export: "_start"})

	m, err := rt.LoadWASM(context.Background(), mod.Encode())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	exports := m.Exports()
	if len(exports) != 2 {
		t.Fatalf("expected 2 exports, got %d", len(exports))
	}
	if exports[0].Name != "_start" || exports[1].Name != "add" {
		t.Errorf("exports not sorted: %+v", exports)
	}
	if len(exports[1].Params) != 2 || len(exports[1].Results) != 1 {
		t.Errorf("add signature = %v -> %v", exports[1].Params, exports[1].Results)
	}
	if m.HasMemory() {
		t.Error("module without memory reports HasMemory")
	}
}

func TestCall(t *testing.T) {
	rt, _ := newRuntime(t)
	inst := instantiate(t, rt, addModule())
	ctx := context.Background()

	results, err := inst.Call(ctx, "add", 40, 2)
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if len(results) != 1 || api.DecodeI32(results[0]) != 42 {
		t.Errorf("add(40, 2) = %v", results)
	}

	_, err = inst.Call(ctx, "sub", 1, 2)
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Kind != errors.KindNotFound {
		t.Errorf("expected not_found for unknown export, got %v", err)
	}

	_, err = inst.Call(ctx, "add", 1)
	if !stderrors.As(err, &e) || e.Kind != errors.KindInvalidInput {
		t.Errorf("expected invalid_input for wrong arity, got %v", err)
	}
}

func TestInstantiateBindsMemoryBeforeEntry(t *testing.T) {
	rt, rec := newRuntime(t)
	mod := &wasmtest.Module{
		Imports:      []wasmtest.Import{logImport},
		MemoryPages:  1,
		ExportMemory: true,
		Data:         []wasmtest.Data{{Offset: 16, Bytes: []byte("hello")}},
		Funcs: []wasmtest.Func{{
			Export: "main",
			Body:   wasmtest.Call(0, 16, 5),
		}},
	}
	inst := instantiate(t, rt, mod)

	if rt.Shim().Memory() == nil {
		t.Fatal("memory not bound after instantiate")
	}
	if err := inst.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	entries := rec.Entries()
	if len(entries) != 1 || entries[0].Message != "hello" || entries[0].Severity != output.SeverityLog {
		t.Errorf("unexpected output: %+v", entries)
	}
}

func TestStartSectionRunsUnbound(t *testing.T) {
	rt, rec := newRuntime(t)
	mod := &wasmtest.Module{
		Imports:      []wasmtest.Import{logImport},
		MemoryPages:  1,
		ExportMemory: true,
		Data:         []wasmtest.Data{{Offset: 0, Bytes: []byte("early")}},
		StartBody:    wasmtest.Call(0, 0, 5),
	}
	instantiate(t, rt, mod)

	if got := rec.String(); got != "" {
		t.Errorf("log before binding should be a no-op, got %q", got)
	}
	if rt.Shim().Memory() == nil {
		t.Error("memory not bound after instantiate")
	}
}

func TestInstantiateWithoutMemory(t *testing.T) {
	rt, rec := newRuntime(t)
	instantiate(t, rt, addModule())

	if rt.Shim().Memory() != nil {
		t.Error("expected no bound memory")
	}
	if !strings.Contains(rec.String(), "no exported memory") {
		t.Errorf("expected warning, got %q", rec.String())
	}
}

func TestRunPrefersStart(t *testing.T) {
	rt, _ := newRuntime(t)
	mod := &wasmtest.Module{
		Imports: []wasmtest.Import{abortImport},
		Funcs: []wasmtest.Func{
			{Export: "main", Body: wasmtest.Call(0, 1)},
			{Export: "_start"},
		},
	}
	inst := instantiate(t, rt, mod)

	if err := inst.Run(context.Background()); err != nil {
		t.Fatalf("run should call _start, got %v", err)
	}
}

func TestRunWithoutEntryPoint(t *testing.T) {
	rt, _ := newRuntime(t)
	inst := instantiate(t, rt, addModule())

	err := inst.Run(context.Background())
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Kind != errors.KindNotFound {
		t.Errorf("expected not_found, got %v", err)
	}
}

func TestGuestAbort(t *testing.T) {
	rt, rec := newRuntime(t)
	mod := &wasmtest.Module{
		Imports:      []wasmtest.Import{abortImport},
		MemoryPages:  1,
		ExportMemory: true,
		Funcs: []wasmtest.Func{{
			Export: "main",
			Body:   wasmtest.Call(0, 42),
		}},
	}
	inst := instantiate(t, rt, mod)
	if got := rec.String(); got != "" {
		t.Fatalf("guest with memory should bind silently, got %q", got)
	}

	err := inst.Run(context.Background())
	if !errors.IsAbort(err) {
		t.Fatalf("expected abort, got %v", err)
	}
	if msg := errors.AbortMessage(err); msg != "[ABORT] at line 42\n" {
		t.Errorf("abort message = %q", msg)
	}
	if !strings.HasPrefix(err.Error(), "call main: ") {
		t.Errorf("error should name the export: %v", err)
	}

	entries := rec.Entries()
	if len(entries) != 1 || entries[0].Severity != output.SeverityAbort || entries[0].Message != "[ABORT] at line 42\n" {
		t.Errorf("unexpected output: %+v", entries)
	}
}

func TestGuestAbortWithoutMemory(t *testing.T) {
	rt, rec := newRuntime(t)
	mod := &wasmtest.Module{
		Imports: []wasmtest.Import{abortImport},
		Funcs: []wasmtest.Func{{
			Export: "main",
			Body:   wasmtest.Call(0, 7),
		}},
	}
	inst := instantiate(t, rt, mod)

	if err := inst.Run(context.Background()); !errors.IsAbort(err) {
		t.Fatalf("expected abort, got %v", err)
	}

	entries := rec.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected warning and abort, got %+v", entries)
	}
	if entries[0].Severity != output.SeverityLog || !strings.Contains(entries[0].Message, "no exported memory") {
		t.Errorf("first entry should be the binder warning: %+v", entries[0])
	}
	if entries[1].Severity != output.SeverityAbort || entries[1].Message != "[ABORT] at line 7\n" {
		t.Errorf("second entry should be the abort: %+v", entries[1])
	}
}

func TestWASIExitZero(t *testing.T) {
	rt, _ := newRuntime(t, WithWASI())
	mod := &wasmtest.Module{
		Imports: []wasmtest.Import{{
			Module: "wasi_snapshot_preview1",
			Name:   "proc_exit",
			Type:   wasmtest.FuncType{Params: []api.ValueType{i32}},
		}},
		Funcs: []wasmtest.Func{{
			Export: "_start",
			Body:   wasmtest.Call(0, 0),
		}},
	}
	inst := instantiate(t, rt, mod)

	if err := inst.Run(context.Background()); err != nil {
		t.Errorf("exit 0 should be success, got %v", err)
	}
}

func TestExecutionLimitThroughRuntime(t *testing.T) {
	rt, rec := newRuntime(t)
	limit := wasmtest.Import{
		Module: shim.Namespace,
		Name:   shim.ImportExecutionLimit,
		Type:   wasmtest.FuncType{Params: []api.ValueType{i64, i64}},
	}
	inst := instantiate(t, rt, wasmtest.ForwardingModule([]wasmtest.Import{limit}, 0))

	if _, err := inst.Call(context.Background(), shim.ImportExecutionLimit, 7, 1000000); err != nil {
		t.Fatalf("call: %v", err)
	}
	want := "[VM] __execution_limit called with gas_price=7, gas_limit=1000000\n"
	if got := rec.String(); !strings.HasSuffix(got, want) {
		t.Errorf("output = %q, want suffix %q", got, want)
	}
}

func TestMemoryLimit(t *testing.T) {
	rt, _ := newRuntime(t, WithMemoryLimitPages(1))
	mod := &wasmtest.Module{MemoryPages: 2, ExportMemory: true}

	m, err := rt.LoadWASM(context.Background(), mod.Encode())
	if err == nil {
		_, err = m.Instantiate(context.Background())
	}
	if err == nil {
		t.Error("expected memory limit to reject 2 pages")
	}
}
