// Package entropy provides random byte sources for the shim.
//
// A Source returns exactly the number of bytes requested or an error; it never
// returns a short result. Two environment realizations exist:
//   - Process reads the process entropy source (crypto/rand).
//   - Browser calls crypto.getRandomValues through syscall/js. Outside a
//     js/wasm build, or when the browser API is missing, it fails at call time.
//
// The shim never picks a source by inspecting its environment; composition
// roots in the platform packages inject one.
package entropy
