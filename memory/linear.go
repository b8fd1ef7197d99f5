package memory

import (
	"encoding/binary"

	"github.com/wippyai/ascabi/errors"
)

// PageSize is the WebAssembly page size in bytes.
const PageSize = 65536

// MaxPages is the largest page count addressable with 32-bit offsets.
const MaxPages = 65536

// Linear is an in-process linear memory. It is not safe for concurrent use.
type Linear struct {
	data     []byte
	maxPages uint32
}

// NewLinear creates a memory of initialPages that may grow up to maxPages.
// A maxPages of 0 means MaxPages.
func NewLinear(initialPages, maxPages uint32) (*Linear, error) {
	if maxPages == 0 || maxPages > MaxPages {
		maxPages = MaxPages
	}
	if initialPages > maxPages {
		return nil, errors.InvalidInput(errors.PhaseAlloc, "initial pages exceed page limit")
	}
	return &Linear{
		data:     make([]byte, uint64(initialPages)*PageSize),
		maxPages: maxPages,
	}, nil
}

// Size returns the memory size in bytes. A full 4GiB memory reports
// 0xFFFFFFFF bytes.
func (m *Linear) Size() uint32 {
	if uint64(len(m.data)) > 0xFFFFFFFF {
		return 0xFFFFFFFF
	}
	return uint32(len(m.data))
}

// Pages returns the current page count.
func (m *Linear) Pages() uint32 {
	return uint32(uint64(len(m.data)) / PageSize)
}

// Grow adds delta pages and returns the previous page count. It reports
// false when the page limit would be exceeded; the memory is then unchanged.
func (m *Linear) Grow(delta uint32) (uint32, bool) {
	prev := m.Pages()
	if uint64(prev)+uint64(delta) > uint64(m.maxPages) {
		return prev, false
	}
	if delta == 0 {
		return prev, true
	}
	grown := make([]byte, (uint64(prev)+uint64(delta))*PageSize)
	copy(grown, m.data)
	m.data = grown
	return prev, true
}

func (m *Linear) hasSize(offset uint32, length uint64) bool {
	return uint64(offset)+length <= uint64(len(m.data))
}

// span returns the slice bounds of [offset, offset+length). The end is
// computed in 64 bits because a range may end exactly at 4 GiB.
func span(offset, length uint32) (lo, hi uint64) {
	return uint64(offset), uint64(offset) + uint64(length)
}

// Read returns the bytes at [offset, offset+length). The slice aliases the
// memory until the next Grow, the same contract as wazero's api.Memory.
func (m *Linear) Read(offset uint32, length uint32) ([]byte, error) {
	if !m.hasSize(offset, uint64(length)) {
		return nil, errors.MemoryOutOfBounds(offset, length)
	}
	lo, hi := span(offset, length)
	return m.data[lo:hi:hi], nil
}

// Write copies data into memory at offset.
func (m *Linear) Write(offset uint32, data []byte) error {
	if !m.hasSize(offset, uint64(len(data))) {
		return errors.MemoryOutOfBounds(offset, uint32(len(data)))
	}
	copy(m.data[offset:], data)
	return nil
}

// Copy moves length bytes from src to dst. Overlapping ranges are handled
// like memory.copy.
func (m *Linear) Copy(dst, src, length uint32) error {
	if !m.hasSize(src, uint64(length)) {
		return errors.MemoryOutOfBounds(src, length)
	}
	if !m.hasSize(dst, uint64(length)) {
		return errors.MemoryOutOfBounds(dst, length)
	}
	dlo, dhi := span(dst, length)
	slo, shi := span(src, length)
	copy(m.data[dlo:dhi], m.data[slo:shi])
	return nil
}

// ReadU8 reads an unsigned 8-bit value.
func (m *Linear) ReadU8(offset uint32) (uint8, error) {
	if !m.hasSize(offset, 1) {
		return 0, errors.MemoryOutOfBounds(offset, 1)
	}
	return m.data[offset], nil
}

// ReadU16 reads an unsigned 16-bit little-endian value.
func (m *Linear) ReadU16(offset uint32) (uint16, error) {
	if !m.hasSize(offset, 2) {
		return 0, errors.MemoryOutOfBounds(offset, 2)
	}
	return binary.LittleEndian.Uint16(m.data[offset:]), nil
}

// ReadU32 reads an unsigned 32-bit little-endian value.
func (m *Linear) ReadU32(offset uint32) (uint32, error) {
	if !m.hasSize(offset, 4) {
		return 0, errors.MemoryOutOfBounds(offset, 4)
	}
	return binary.LittleEndian.Uint32(m.data[offset:]), nil
}

// ReadU64 reads an unsigned 64-bit little-endian value.
func (m *Linear) ReadU64(offset uint32) (uint64, error) {
	if !m.hasSize(offset, 8) {
		return 0, errors.MemoryOutOfBounds(offset, 8)
	}
	return binary.LittleEndian.Uint64(m.data[offset:]), nil
}

// WriteU8 writes an unsigned 8-bit value.
func (m *Linear) WriteU8(offset uint32, value uint8) error {
	if !m.hasSize(offset, 1) {
		return errors.MemoryOutOfBounds(offset, 1)
	}
	m.data[offset] = value
	return nil
}

// WriteU16 writes an unsigned 16-bit little-endian value.
func (m *Linear) WriteU16(offset uint32, value uint16) error {
	if !m.hasSize(offset, 2) {
		return errors.MemoryOutOfBounds(offset, 2)
	}
	binary.LittleEndian.PutUint16(m.data[offset:], value)
	return nil
}

// WriteU32 writes an unsigned 32-bit little-endian value.
func (m *Linear) WriteU32(offset uint32, value uint32) error {
	if !m.hasSize(offset, 4) {
		return errors.MemoryOutOfBounds(offset, 4)
	}
	binary.LittleEndian.PutUint32(m.data[offset:], value)
	return nil
}

// WriteU64 writes an unsigned 64-bit little-endian value.
func (m *Linear) WriteU64(offset uint32, value uint64) error {
	if !m.hasSize(offset, 8) {
		return errors.MemoryOutOfBounds(offset, 8)
	}
	binary.LittleEndian.PutUint64(m.data[offset:], value)
	return nil
}
