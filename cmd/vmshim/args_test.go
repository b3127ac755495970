package main

import (
	"testing"

	"github.com/tetratelabs/wazero/api"

	"github.com/leachain/vm-shim/runtime"
)

func TestParseArgs(t *testing.T) {
	params := []api.ValueType{api.ValueTypeI32, api.ValueTypeI32, api.ValueTypeI64, api.ValueTypeF64}
	got, err := parseArgs([]string{"7", "-1", "-2", "1.5"}, params)
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	want := []uint64{7, api.EncodeI32(-1), api.EncodeI64(-2), api.EncodeF64(1.5)}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("arg %d = %#x, want %#x", i, got[i], want[i])
		}
	}
}

func TestParseArgsErrors(t *testing.T) {
	i32 := []api.ValueType{api.ValueTypeI32}

	tests := []struct {
		name   string
		values []string
		params []api.ValueType
	}{
		{"arity", []string{"1", "2"}, i32},
		{"not a number", []string{"x"}, i32},
		{"overflow", []string{"4294967296"}, i32},
		{"negative overflow", []string{"-2147483649"}, i32},
		{"unsupported", []string{"0"}, []api.ValueType{api.ValueTypeExternref}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseArgs(tt.values, tt.params); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestFormatResults(t *testing.T) {
	results := []uint64{api.EncodeI32(-3), 5, api.EncodeF32(0.5)}
	types := []api.ValueType{api.ValueTypeI32, api.ValueTypeI64, api.ValueTypeF32}
	if got := formatResults(results, types); got != "-3, 5, 0.5" {
		t.Errorf("formatResults = %q", got)
	}
}

func TestFormatSignature(t *testing.T) {
	f := runtime.Function{
		Name:    "add",
		Params:  []api.ValueType{api.ValueTypeI32, api.ValueTypeI32},
		Results: []api.ValueType{api.ValueTypeI32},
	}
	if got := formatSignature(f); got != "add(i32, i32) -> i32" {
		t.Errorf("formatSignature = %q", got)
	}

	f = runtime.Function{Name: "_start"}
	if got := formatSignature(f); got != "_start()" {
		t.Errorf("formatSignature = %q", got)
	}
}
