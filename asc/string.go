package asc

import (
	"encoding/binary"

	"golang.org/x/text/encoding/unicode"

	"github.com/wippyai/ascabi"
	"github.com/wippyai/ascabi/errors"
)

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// EncodeUTF16 converts s to UTF-16LE code units. Invalid UTF-8 becomes
// U+FFFD.
func EncodeUTF16(s string) ([]byte, error) {
	return utf16le.NewEncoder().Bytes([]byte(s))
}

// DecodeUTF16 converts UTF-16LE code units to a Go string. Unpaired
// surrogates become U+FFFD.
func DecodeUTF16(units []byte) (string, error) {
	out, err := utf16le.NewDecoder().Bytes(units)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// NewString writes s as an AssemblyScript string.
func NewString(h Heap, s string) (Ptr, error) {
	units, err := EncodeUTF16(s)
	if err != nil {
		return Null, errors.Wrap(errors.PhaseEncode, errors.KindInvalidData, err, "encode string")
	}
	return NewStringUnits(h, units)
}

// NewStringUnits writes raw UTF-16LE code units as a string object.
func NewStringUnits(h Heap, units []byte) (Ptr, error) {
	if len(units)%2 != 0 {
		return Null, errors.InvalidData(errors.PhaseEncode, nil, "odd number of UTF-16 bytes")
	}
	body := make([]byte, 4+len(units))
	binary.LittleEndian.PutUint32(body, uint32(len(units)/2))
	copy(body[4:], units)
	return NewObject(h, h.Types().IDOf(TagString), body)
}

// StringUnits returns a copy of the string's UTF-16LE code units.
func StringUnits(mem ascabi.Memory, p Ptr) ([]byte, error) {
	if err := checkNull(p, "String"); err != nil {
		return nil, err
	}
	n, err := mem.ReadU32(uint32(p))
	if err != nil {
		return nil, err
	}
	if uint64(n)*2 > 0xFFFFFFFF {
		return nil, errors.MemoryOutOfBounds(p.Offset(4), n)
	}
	raw, err := mem.Read(p.Offset(4), n*2)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), raw...), nil
}

// ReadString decodes the string object at p.
func ReadString(mem ascabi.Memory, p Ptr) (string, error) {
	units, err := StringUnits(mem, p)
	if err != nil {
		return "", err
	}
	s, err := DecodeUTF16(units)
	if err != nil {
		return "", errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, err, "decode string")
	}
	return s, nil
}
