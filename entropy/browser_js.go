//go:build js && wasm

package entropy

import (
	"syscall/js"

	"github.com/leachain/vm-shim/errors"
)

// Browser fills n bytes with crypto.getRandomValues.
func Browser(n int) ([]byte, error) {
	if n < 0 {
		return nil, errors.InvalidInput(errors.PhaseEntropy, "negative byte count")
	}
	crypto := js.Global().Get("crypto")
	if crypto.IsUndefined() || crypto.IsNull() || crypto.Get("getRandomValues").Type() != js.TypeFunction {
		return nil, errors.Unavailable(errors.PhaseEntropy, "browser crypto API")
	}

	// getRandomValues rejects requests above 65536 bytes.
	const maxChunk = 65536
	out := make([]byte, n)
	for off := 0; off < n; off += maxChunk {
		end := min(off+maxChunk, n)
		arr := js.Global().Get("Uint8Array").New(end - off)
		crypto.Call("getRandomValues", arr)
		js.CopyBytesToGo(out[off:end], arr)
	}
	return out, nil
}
