// Package memory adapts wazero linear memory to vmshim.Memory.
package memory

import (
	"fmt"

	"github.com/tetratelabs/wazero/api"

	vmshim "github.com/leachain/vm-shim"
)

// Wrap wraps a wazero api.Memory to implement vmshim.Memory.
// A nil mem yields a nil Memory so callers can test for "not bound".
func Wrap(mem api.Memory) vmshim.Memory {
	if mem == nil {
		return nil
	}
	return &Wrapper{Mem: mem}
}

// Wrapper adapts wazero api.Memory to the vmshim.Memory interface.
type Wrapper struct {
	Mem api.Memory
}

// Read returns a view of guest memory. Writes through the returned slice are
// visible to the guest until the memory grows.
func (m *Wrapper) Read(offset uint32, length uint32) ([]byte, error) {
	data, ok := m.Mem.Read(offset, length)
	if !ok {
		return nil, fmt.Errorf("memory read out of bounds: offset=%d, length=%d", offset, length)
	}
	return data, nil
}

// Write writes bytes to memory.
func (m *Wrapper) Write(offset uint32, data []byte) error {
	if !m.Mem.Write(offset, data) {
		return fmt.Errorf("memory write out of bounds: offset=%d, length=%d", offset, len(data))
	}
	return nil
}

// ReadU8 reads a single byte.
func (m *Wrapper) ReadU8(offset uint32) (uint8, error) {
	v, ok := m.Mem.ReadByte(offset)
	if !ok {
		return 0, fmt.Errorf("memory read out of bounds: offset=%d", offset)
	}
	return v, nil
}

// Size returns the current size of the memory in bytes.
func (m *Wrapper) Size() uint32 {
	return m.Mem.Size()
}
