package memory

import (
	"context"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/ascabi"
	"github.com/wippyai/ascabi/errors"
)

// WrapMemory wraps a wazero api.Memory to implement ascabi.Memory.
func WrapMemory(mem api.Memory) *Wrapper {
	if mem == nil {
		return nil
	}
	return &Wrapper{Mem: mem}
}

// WrapAllocator wraps a guest's exported allocate function to implement
// ascabi.Allocator.
func WrapAllocator(ctx context.Context, fn api.Function) ascabi.Allocator {
	if fn == nil {
		return nil
	}
	return &ExportAllocator{Ctx: ctx, Fn: fn}
}

// Wrapper adapts wazero api.Memory to the ascabi.Memory interface.
type Wrapper struct {
	Mem api.Memory
}

// Size returns the memory size in bytes.
func (m *Wrapper) Size() uint32 {
	return m.Mem.Size()
}

// Read reads bytes from memory. The slice aliases guest memory.
func (m *Wrapper) Read(offset uint32, length uint32) ([]byte, error) {
	data, ok := m.Mem.Read(offset, length)
	if !ok {
		return nil, errors.MemoryOutOfBounds(offset, length)
	}
	return data, nil
}

// Write writes bytes to memory.
func (m *Wrapper) Write(offset uint32, data []byte) error {
	if !m.Mem.Write(offset, data) {
		return errors.MemoryOutOfBounds(offset, uint32(len(data)))
	}
	return nil
}

// ReadU8 reads an unsigned 8-bit value.
func (m *Wrapper) ReadU8(offset uint32) (uint8, error) {
	v, ok := m.Mem.ReadByte(offset)
	if !ok {
		return 0, errors.MemoryOutOfBounds(offset, 1)
	}
	return v, nil
}

// ReadU16 reads an unsigned 16-bit little-endian value.
func (m *Wrapper) ReadU16(offset uint32) (uint16, error) {
	v, ok := m.Mem.ReadUint16Le(offset)
	if !ok {
		return 0, errors.MemoryOutOfBounds(offset, 2)
	}
	return v, nil
}

// ReadU32 reads an unsigned 32-bit little-endian value.
func (m *Wrapper) ReadU32(offset uint32) (uint32, error) {
	v, ok := m.Mem.ReadUint32Le(offset)
	if !ok {
		return 0, errors.MemoryOutOfBounds(offset, 4)
	}
	return v, nil
}

// ReadU64 reads an unsigned 64-bit little-endian value.
func (m *Wrapper) ReadU64(offset uint32) (uint64, error) {
	v, ok := m.Mem.ReadUint64Le(offset)
	if !ok {
		return 0, errors.MemoryOutOfBounds(offset, 8)
	}
	return v, nil
}

// WriteU8 writes an unsigned 8-bit value.
func (m *Wrapper) WriteU8(offset uint32, value uint8) error {
	if !m.Mem.WriteByte(offset, value) {
		return errors.MemoryOutOfBounds(offset, 1)
	}
	return nil
}

// WriteU16 writes an unsigned 16-bit little-endian value.
func (m *Wrapper) WriteU16(offset uint32, value uint16) error {
	if !m.Mem.WriteUint16Le(offset, value) {
		return errors.MemoryOutOfBounds(offset, 2)
	}
	return nil
}

// WriteU32 writes an unsigned 32-bit little-endian value.
func (m *Wrapper) WriteU32(offset uint32, value uint32) error {
	if !m.Mem.WriteUint32Le(offset, value) {
		return errors.MemoryOutOfBounds(offset, 4)
	}
	return nil
}

// WriteU64 writes an unsigned 64-bit little-endian value.
func (m *Wrapper) WriteU64(offset uint32, value uint64) error {
	if !m.Mem.WriteUint64Le(offset, value) {
		return errors.MemoryOutOfBounds(offset, 8)
	}
	return nil
}

// ExportAllocator adapts the guest's `allocate(n: usize): usize` export to
// ascabi.Allocator.
type ExportAllocator struct {
	Ctx context.Context
	Fn  api.Function
}

// Alloc reserves size bytes inside the guest. A guest that traps or returns
// the null offset has failed to allocate.
func (a *ExportAllocator) Alloc(size uint32) (uint32, error) {
	results, err := a.Fn.Call(a.Ctx, uint64(size))
	if err != nil {
		return 0, errors.AllocationFailed(errors.PhaseAlloc, size, err)
	}
	if len(results) == 0 {
		return 0, errors.AllocationFailed(errors.PhaseAlloc, size, nil)
	}
	ptr := uint32(results[0])
	if ptr == 0 {
		return 0, errors.AllocationFailed(errors.PhaseAlloc, size, nil)
	}
	return ptr, nil
}
