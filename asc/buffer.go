package asc

import (
	"encoding/binary"

	"github.com/wippyai/ascabi"
	"github.com/wippyai/ascabi/errors"
)

// BufferHeaderSize is the number of bytes between an ArrayBuffer pointer
// and its first content byte.
const BufferHeaderSize = 8

// AllocArrayBuffer reserves a zero-filled ArrayBuffer of n bytes.
func AllocArrayBuffer(h Heap, n uint32) (Ptr, error) {
	return NewArrayBuffer(h, make([]byte, n))
}

// NewArrayBuffer copies data into a fresh ArrayBuffer.
func NewArrayBuffer(h Heap, data []byte) (Ptr, error) {
	if uint64(len(data))+BufferHeaderSize+HeaderSize > 0xFFFFFFFF {
		return Null, errors.AllocationFailed(errors.PhaseEncode, uint32(len(data)), nil)
	}
	body := make([]byte, BufferHeaderSize+len(data))
	binary.LittleEndian.PutUint32(body, uint32(len(data)))
	copy(body[BufferHeaderSize:], data)
	return NewObject(h, h.Types().IDOf(TagArrayBuffer), body)
}

// ArrayBufferLen returns the byte length of the buffer at p.
func ArrayBufferLen(mem ascabi.Memory, p Ptr) (uint32, error) {
	if err := checkNull(p, "ArrayBuffer"); err != nil {
		return 0, err
	}
	return mem.ReadU32(uint32(p))
}

// ArrayBufferData returns the offset of the first content byte and the byte
// length of the buffer at p.
func ArrayBufferData(mem ascabi.Memory, p Ptr) (uint32, uint32, error) {
	n, err := ArrayBufferLen(mem, p)
	if err != nil {
		return 0, 0, err
	}
	return p.Offset(BufferHeaderSize), n, nil
}

// ReadArrayBuffer returns a copy of the buffer's content.
func ReadArrayBuffer(mem ascabi.Memory, p Ptr) ([]byte, error) {
	start, n, err := ArrayBufferData(mem, p)
	if err != nil {
		return nil, err
	}
	raw, err := mem.Read(start, n)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), raw...), nil
}
