// Package wasmtest assembles small core wasm modules for tests.
//
// It covers just enough of the binary format to describe guests that import
// host functions, export a memory, carry data segments and forward their
// exported functions to imports.
package wasmtest

import (
	"bytes"

	"github.com/tetratelabs/wazero/api"
)

const (
	sectionType     = 1
	sectionImport   = 2
	sectionFunction = 3
	sectionMemory   = 5
	sectionExport   = 7
	sectionStart    = 8
	sectionCode     = 10
	sectionData     = 11

	kindFunc   = 0x00
	kindMemory = 0x02

	funcTypeByte = 0x60
)

// Instructions
const (
	OpUnreachable = 0x00
	OpEnd         = 0x0b
	OpCall        = 0x10
	OpLocalGet    = 0x20
	OpI32Const    = 0x41
	OpI64Const    = 0x42
)

// FuncType is a function signature.
type FuncType struct {
	Params  []api.ValueType
	Results []api.ValueType
}

// Import is a function import.
type Import struct {
	Module string
	Name   string
	Type   FuncType
}

// Func is a defined function. Body excludes the final end opcode.
type Func struct {
	Export string
	Type   FuncType
	Body   []byte
}

// Data is an active data segment in memory 0.
type Data struct {
	Offset uint32
	Bytes  []byte
}

// Module describes a guest module.
type Module struct {
	Imports      []Import
	Funcs        []Func
	Data         []Data
	MemoryPages  uint32
	ExportMemory bool
	// StartBody, when set, becomes a non-exported function run as the start function.
	StartBody []byte
}

// Encode returns the module in wasm binary format.
func (m *Module) Encode() []byte {
	funcs := m.Funcs
	startIdx := -1
	if m.StartBody != nil {
		startIdx = len(m.Imports) + len(funcs)
		funcs = append(append([]Func(nil), funcs...), Func{Body: m.StartBody})
	}

	w := &writer{}
	w.bytes([]byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00})

	// One type per import and per function; duplicates are valid.
	types := &writer{}
	types.u32(uint32(len(m.Imports) + len(funcs)))
	for _, imp := range m.Imports {
		writeFuncType(types, imp.Type)
	}
	for _, f := range funcs {
		writeFuncType(types, f.Type)
	}
	w.section(sectionType, types)

	if len(m.Imports) > 0 {
		sec := &writer{}
		sec.u32(uint32(len(m.Imports)))
		for i, imp := range m.Imports {
			sec.name(imp.Module)
			sec.name(imp.Name)
			sec.byte(kindFunc)
			sec.u32(uint32(i))
		}
		w.section(sectionImport, sec)
	}

	if len(funcs) > 0 {
		sec := &writer{}
		sec.u32(uint32(len(funcs)))
		for i := range funcs {
			sec.u32(uint32(len(m.Imports) + i))
		}
		w.section(sectionFunction, sec)
	}

	if m.MemoryPages > 0 {
		sec := &writer{}
		sec.u32(1)
		sec.byte(0x00) // no maximum
		sec.u32(m.MemoryPages)
		w.section(sectionMemory, sec)
	}

	exports := &writer{}
	count := uint32(0)
	for i, f := range funcs {
		if f.Export == "" {
			continue
		}
		exports.name(f.Export)
		exports.byte(kindFunc)
		exports.u32(uint32(len(m.Imports) + i))
		count++
	}
	if m.MemoryPages > 0 && m.ExportMemory {
		exports.name("memory")
		exports.byte(kindMemory)
		exports.u32(0)
		count++
	}
	if count > 0 {
		sec := &writer{}
		sec.u32(count)
		sec.bytes(exports.buf.Bytes())
		w.section(sectionExport, sec)
	}

	if startIdx >= 0 {
		sec := &writer{}
		sec.u32(uint32(startIdx))
		w.section(sectionStart, sec)
	}

	if len(funcs) > 0 {
		sec := &writer{}
		sec.u32(uint32(len(funcs)))
		for _, f := range funcs {
			body := &writer{}
			body.u32(0) // no locals
			body.bytes(f.Body)
			body.byte(OpEnd)
			sec.u32(uint32(body.buf.Len()))
			sec.bytes(body.buf.Bytes())
		}
		w.section(sectionCode, sec)
	}

	if len(m.Data) > 0 {
		sec := &writer{}
		sec.u32(uint32(len(m.Data)))
		for _, d := range m.Data {
			sec.u32(0) // active, memory 0
			sec.byte(OpI32Const)
			sec.s64(int64(int32(d.Offset)))
			sec.byte(OpEnd)
			sec.u32(uint32(len(d.Bytes)))
			sec.bytes(d.Bytes)
		}
		w.section(sectionData, sec)
	}

	return w.buf.Bytes()
}

func writeFuncType(w *writer, ft FuncType) {
	w.byte(funcTypeByte)
	w.u32(uint32(len(ft.Params)))
	w.bytes(ft.Params)
	w.u32(uint32(len(ft.Results)))
	w.bytes(ft.Results)
}

// Forward returns a body that passes its params straight to function idx.
func Forward(idx uint32, params int) []byte {
	w := &writer{}
	for i := 0; i < params; i++ {
		w.byte(OpLocalGet)
		w.u32(uint32(i))
	}
	w.byte(OpCall)
	w.u32(idx)
	return w.buf.Bytes()
}

// Call returns a body that calls function idx with constant i32 arguments.
func Call(idx uint32, args ...int32) []byte {
	w := &writer{}
	for _, a := range args {
		w.byte(OpI32Const)
		w.s64(int64(a))
	}
	w.byte(OpCall)
	w.u32(idx)
	return w.buf.Bytes()
}

// ForwardingModule builds a module that imports every function in imports and
// exports a forwarder for each one under the import's name.
func ForwardingModule(imports []Import, memoryPages uint32, data ...Data) *Module {
	m := &Module{
		Imports:      imports,
		Data:         data,
		MemoryPages:  memoryPages,
		ExportMemory: memoryPages > 0,
	}
	for i, imp := range imports {
		m.Funcs = append(m.Funcs, Func{
			Export: imp.Name,
			Type:   FuncType{Params: imp.Type.Params},
			Body:   Forward(uint32(i), len(imp.Type.Params)),
		})
	}
	return m
}

type writer struct {
	buf bytes.Buffer
}

func (w *writer) byte(b byte) {
	w.buf.WriteByte(b)
}

func (w *writer) bytes(b []byte) {
	w.buf.Write(b)
}

// u32 writes an unsigned LEB128 value.
func (w *writer) u32(v uint32) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		w.buf.WriteByte(b)
		if v == 0 {
			break
		}
	}
}

// s64 writes a signed LEB128 value.
func (w *writer) s64(v int64) {
	more := true
	for more {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && (b&0x40) == 0) || (v == -1 && (b&0x40) != 0) {
			more = false
		} else {
			b |= 0x80
		}
		w.buf.WriteByte(b)
	}
}

func (w *writer) name(s string) {
	w.u32(uint32(len(s)))
	w.buf.WriteString(s)
}

func (w *writer) section(id byte, data *writer) {
	w.byte(id)
	w.u32(uint32(data.buf.Len()))
	w.bytes(data.buf.Bytes())
}
