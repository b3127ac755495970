package vmshim

import (
	"fmt"
)

// Buffer is a Memory backed by a plain byte slice. It stands in for guest
// memory in tooling that works on memory dumps, and in tests.
type Buffer struct {
	data []byte
}

// NewBuffer allocates a zeroed buffer of size bytes.
func NewBuffer(size uint32) *Buffer {
	return &Buffer{data: make([]byte, size)}
}

// BufferOf wraps data without copying.
func BufferOf(data []byte) *Buffer {
	return &Buffer{data: data}
}

func (b *Buffer) Read(offset uint32, length uint32) ([]byte, error) {
	end := uint64(offset) + uint64(length)
	if end > uint64(len(b.data)) {
		return nil, fmt.Errorf("memory read out of bounds: offset=%d, length=%d", offset, length)
	}
	return b.data[offset:end], nil
}

func (b *Buffer) Write(offset uint32, data []byte) error {
	end := uint64(offset) + uint64(len(data))
	if end > uint64(len(b.data)) {
		return fmt.Errorf("memory write out of bounds: offset=%d, length=%d", offset, len(data))
	}
	copy(b.data[offset:end], data)
	return nil
}

func (b *Buffer) ReadU8(offset uint32) (uint8, error) {
	if uint64(offset) >= uint64(len(b.data)) {
		return 0, fmt.Errorf("memory read out of bounds: offset=%d", offset)
	}
	return b.data[offset], nil
}

func (b *Buffer) Size() uint32 {
	return uint32(len(b.data))
}

// Bytes returns the backing slice.
func (b *Buffer) Bytes() []byte {
	return b.data
}
