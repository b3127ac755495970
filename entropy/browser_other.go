//go:build !(js && wasm)

package entropy

import (
	"github.com/leachain/vm-shim/errors"
)

// Browser always fails outside a js/wasm build: there is no browser crypto API to call.
func Browser(n int) ([]byte, error) {
	return nil, errors.Unavailable(errors.PhaseEntropy, "browser crypto API")
}
