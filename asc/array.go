package asc

import (
	"encoding/binary"

	"github.com/wippyai/ascabi"
	"github.com/wippyai/ascabi/errors"
)

// ArraySize is the body size of an Array<T>.
const ArraySize = 8

// NewPtrArray writes an array of references. tag names the array class
// (TagArrayString, TagArrayUint8Array); arrays of Values pass TagNone.
func NewPtrArray(h Heap, tag TypeTag, elems []Ptr) (Ptr, error) {
	data := make([]byte, 4*len(elems))
	for i, e := range elems {
		binary.LittleEndian.PutUint32(data[4*i:], uint32(e))
	}
	buf, err := NewArrayBuffer(h, data)
	if err != nil {
		return Null, err
	}
	body := make([]byte, ArraySize)
	binary.LittleEndian.PutUint32(body[0:], uint32(buf))
	binary.LittleEndian.PutUint32(body[4:], uint32(len(elems)))
	return NewObject(h, h.Types().IDOf(tag), body)
}

// ReadPtrArray returns the element pointers of the array at p.
func ReadPtrArray(mem ascabi.Memory, p Ptr) ([]Ptr, error) {
	if err := checkNull(p, "Array"); err != nil {
		return nil, err
	}
	raw, err := mem.Read(uint32(p), ArraySize)
	if err != nil {
		return nil, err
	}
	buf := Ptr(binary.LittleEndian.Uint32(raw[0:]))
	length := binary.LittleEndian.Uint32(raw[4:])

	start, n, err := ArrayBufferData(mem, buf)
	if err != nil {
		return nil, err
	}
	if uint64(length)*4 > uint64(n) {
		return nil, errors.New(errors.PhaseDecode, errors.KindOutOfBounds).
			AscType("Array").
			Detail("length %d exceeds backing buffer of %d bytes", length, n).
			Build()
	}
	data, err := mem.Read(start, length*4)
	if err != nil {
		return nil, err
	}
	elems := make([]Ptr, length)
	for i := range elems {
		elems[i] = Ptr(binary.LittleEndian.Uint32(data[4*i:]))
	}
	return elems, nil
}

// NewStringArray writes an Array<String>.
func NewStringArray(h Heap, items []string) (Ptr, error) {
	elems := make([]Ptr, len(items))
	for i, s := range items {
		p, err := NewString(h, s)
		if err != nil {
			return Null, err
		}
		elems[i] = p
	}
	return NewPtrArray(h, TagArrayString, elems)
}

// ReadStringArray decodes an Array<String>.
func ReadStringArray(mem ascabi.Memory, p Ptr) ([]string, error) {
	elems, err := ReadPtrArray(mem, p)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(elems))
	for i, e := range elems {
		if out[i], err = ReadString(mem, e); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// NewBytesArray writes an Array<Uint8Array>.
func NewBytesArray(h Heap, items [][]byte) (Ptr, error) {
	elems := make([]Ptr, len(items))
	for i, b := range items {
		p, err := NewUint8Array(h, b)
		if err != nil {
			return Null, err
		}
		elems[i] = p
	}
	return NewPtrArray(h, TagArrayUint8Array, elems)
}

// ReadBytesArray decodes an Array<Uint8Array>.
func ReadBytesArray(mem ascabi.Memory, p Ptr) ([][]byte, error) {
	elems, err := ReadPtrArray(mem, p)
	if err != nil {
		return nil, err
	}
	out := make([][]byte, len(elems))
	for i, e := range elems {
		if out[i], err = ReadUint8Array(mem, e); err != nil {
			return nil, err
		}
	}
	return out, nil
}
