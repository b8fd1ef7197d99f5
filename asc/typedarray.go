package asc

import (
	"encoding/binary"

	"github.com/wippyai/ascabi"
	"github.com/wippyai/ascabi/errors"
)

// TypedArraySize is the body size of a Uint8Array.
const TypedArraySize = 12

// TypedArray is the decoded body of a Uint8Array: a window onto an
// ArrayBuffer.
type TypedArray struct {
	Buffer     Ptr
	ByteOffset uint32
	ByteLength uint32
}

// DataOffset returns the memory offset of the first byte of the window.
func (ta TypedArray) DataOffset() uint32 {
	return ta.Buffer.Offset(BufferHeaderSize + ta.ByteOffset)
}

func (ta TypedArray) encode() []byte {
	body := make([]byte, TypedArraySize)
	binary.LittleEndian.PutUint32(body[0:], uint32(ta.Buffer))
	binary.LittleEndian.PutUint32(body[4:], ta.ByteOffset)
	binary.LittleEndian.PutUint32(body[8:], ta.ByteLength)
	return body
}

// NewUint8Array copies data into a fresh buffer and returns a Uint8Array
// covering all of it.
func NewUint8Array(h Heap, data []byte) (Ptr, error) {
	buf, err := NewArrayBuffer(h, data)
	if err != nil {
		return Null, err
	}
	return NewUint8ArrayView(h, buf, 0, uint32(len(data)))
}

// NewUint8ArrayView creates a Uint8Array over [offset, offset+length) of an
// existing buffer. No bytes are copied; the view shares the buffer's storage.
func NewUint8ArrayView(h Heap, buffer Ptr, offset, length uint32) (Ptr, error) {
	n, err := ArrayBufferLen(h, buffer)
	if err != nil {
		return Null, err
	}
	if uint64(offset)+uint64(length) > uint64(n) {
		return Null, errors.New(errors.PhaseEncode, errors.KindOutOfBounds).
			AscType("Uint8Array").
			Detail("view [%d, %d) exceeds buffer length %d", offset, uint64(offset)+uint64(length), n).
			Build()
	}
	ta := TypedArray{Buffer: buffer, ByteOffset: offset, ByteLength: length}
	return NewObject(h, h.Types().IDOf(TagUint8Array), ta.encode())
}

// ReadTypedArray decodes the Uint8Array body at p.
func ReadTypedArray(mem ascabi.Memory, p Ptr) (TypedArray, error) {
	if err := checkNull(p, "Uint8Array"); err != nil {
		return TypedArray{}, err
	}
	raw, err := mem.Read(uint32(p), TypedArraySize)
	if err != nil {
		return TypedArray{}, err
	}
	return TypedArray{
		Buffer:     Ptr(binary.LittleEndian.Uint32(raw[0:])),
		ByteOffset: binary.LittleEndian.Uint32(raw[4:]),
		ByteLength: binary.LittleEndian.Uint32(raw[8:]),
	}, nil
}

// ReadUint8Array returns a copy of the bytes the Uint8Array at p covers.
func ReadUint8Array(mem ascabi.Memory, p Ptr) ([]byte, error) {
	ta, err := ReadTypedArray(mem, p)
	if err != nil {
		return nil, err
	}
	raw, err := mem.Read(ta.DataOffset(), ta.ByteLength)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, nil
}
