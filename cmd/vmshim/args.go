package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tetratelabs/wazero/api"

	"github.com/leachain/vm-shim/runtime"
)

// parseArgs converts textual arguments to wasm values for the given params.
// Integers accept both signed and unsigned forms.
func parseArgs(values []string, params []api.ValueType) ([]uint64, error) {
	if len(values) != len(params) {
		return nil, fmt.Errorf("expected %d arguments, got %d", len(params), len(values))
	}

	out := make([]uint64, len(values))
	for i, v := range values {
		v = strings.TrimSpace(v)
		var err error
		switch params[i] {
		case api.ValueTypeI32:
			out[i], err = parseInt(v, 32)
		case api.ValueTypeI64:
			out[i], err = parseInt(v, 64)
		case api.ValueTypeF32:
			var f float64
			f, err = strconv.ParseFloat(v, 32)
			out[i] = api.EncodeF32(float32(f))
		case api.ValueTypeF64:
			var f float64
			f, err = strconv.ParseFloat(v, 64)
			out[i] = api.EncodeF64(f)
		default:
			err = fmt.Errorf("unsupported type %s", api.ValueTypeName(params[i]))
		}
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
	}
	return out, nil
}

func parseInt(v string, bits int) (uint64, error) {
	if strings.HasPrefix(v, "-") {
		n, err := strconv.ParseInt(v, 10, bits)
		if err != nil {
			return 0, err
		}
		if bits == 32 {
			return api.EncodeI32(int32(n)), nil
		}
		return api.EncodeI64(n), nil
	}
	return strconv.ParseUint(v, 10, bits)
}

// formatResults renders results according to their wasm types.
func formatResults(results []uint64, types []api.ValueType) string {
	parts := make([]string, len(results))
	for i, r := range results {
		t := api.ValueTypeI64
		if i < len(types) {
			t = types[i]
		}
		switch t {
		case api.ValueTypeI32:
			parts[i] = strconv.FormatInt(int64(api.DecodeI32(r)), 10)
		case api.ValueTypeF32:
			parts[i] = strconv.FormatFloat(float64(api.DecodeF32(r)), 'g', -1, 32)
		case api.ValueTypeF64:
			parts[i] = strconv.FormatFloat(api.DecodeF64(r), 'g', -1, 64)
		default:
			parts[i] = strconv.FormatInt(int64(r), 10)
		}
	}
	return strings.Join(parts, ", ")
}

func formatTypes(types []api.ValueType) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = api.ValueTypeName(t)
	}
	return strings.Join(names, ", ")
}

// formatSignature renders a function as name(i32, i32) -> i32.
func formatSignature(f runtime.Function) string {
	s := f.Name + "(" + formatTypes(f.Params) + ")"
	if len(f.Results) > 0 {
		s += " -> " + formatTypes(f.Results)
	}
	return s
}

func findFunction(funcs []runtime.Function, name string) (runtime.Function, bool) {
	for _, f := range funcs {
		if f.Name == name {
			return f, true
		}
	}
	return runtime.Function{}, false
}
