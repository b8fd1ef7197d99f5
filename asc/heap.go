package asc

import (
	"encoding/binary"

	"github.com/wippyai/ascabi"
	"github.com/wippyai/ascabi/errors"
)

// HeaderSize is the size of the common object header.
const HeaderSize = 20

// Heap is a guest memory that can also reserve blocks and knows the guest's
// type ids.
type Heap interface {
	ascabi.Memory
	ascabi.Allocator
	Types() *Registry
}

// Header is the common header preceding every managed object.
type Header struct {
	MMInfo  uint32
	GCInfo  uint32
	GCInfo2 uint32
	RtID    TypeID
	RtSize  uint32
}

// Encode returns the 20-byte wire form of h.
func (h Header) Encode() []byte {
	buf := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(buf[0:], h.MMInfo)
	binary.LittleEndian.PutUint32(buf[4:], h.GCInfo)
	binary.LittleEndian.PutUint32(buf[8:], h.GCInfo2)
	binary.LittleEndian.PutUint32(buf[12:], uint32(h.RtID))
	binary.LittleEndian.PutUint32(buf[16:], h.RtSize)
	return buf
}

// ReadHeader reads the header of the object at p.
func ReadHeader(mem ascabi.Memory, p Ptr) (Header, error) {
	if uint32(p) < HeaderSize {
		return Header{}, errors.New(errors.PhaseDecode, errors.KindOutOfBounds).
			Detail("pointer %s has no room for an object header", p).
			Value(uint32(p)).
			Build()
	}
	raw, err := mem.Read(uint32(p)-HeaderSize, HeaderSize)
	if err != nil {
		return Header{}, err
	}
	return Header{
		MMInfo:  binary.LittleEndian.Uint32(raw[0:]),
		GCInfo:  binary.LittleEndian.Uint32(raw[4:]),
		GCInfo2: binary.LittleEndian.Uint32(raw[8:]),
		RtID:    TypeID(binary.LittleEndian.Uint32(raw[12:])),
		RtSize:  binary.LittleEndian.Uint32(raw[16:]),
	}, nil
}

// NewObject allocates a header plus body and returns a pointer to the body.
// Tagless objects (Value, BigDecimal) pass NoTypeID.
func NewObject(h Heap, id TypeID, body []byte) (Ptr, error) {
	size := uint32(len(body))
	if uint64(size)+HeaderSize > 0xFFFFFFFF {
		return Null, errors.AllocationFailed(errors.PhaseEncode, size, nil)
	}
	block, err := h.Alloc(HeaderSize + size)
	if err != nil {
		return Null, err
	}
	hdr := Header{MMInfo: HeaderSize + size, RtID: id, RtSize: size}
	if err := h.Write(block, hdr.Encode()); err != nil {
		return Null, err
	}
	p := Ptr(block + HeaderSize)
	if err := h.Write(uint32(p), body); err != nil {
		return Null, err
	}
	return p, nil
}

// ObjectSize returns the body size recorded in the object's header.
func ObjectSize(mem ascabi.Memory, p Ptr) (uint32, error) {
	hdr, err := ReadHeader(mem, p)
	if err != nil {
		return 0, err
	}
	return hdr.RtSize, nil
}

// ObjectTag identifies the object's class through the registry. ok is false
// for tagless objects and for ids the registry does not know.
func ObjectTag(mem ascabi.Memory, types *Registry, p Ptr) (TypeTag, bool, error) {
	hdr, err := ReadHeader(mem, p)
	if err != nil {
		return 0, false, err
	}
	tag, ok := types.TagOf(hdr.RtID)
	return tag, ok, nil
}

// CheckTag verifies that the object at p carries the id of want. Tags the
// registry has no id for cannot be checked and pass.
func CheckTag(mem ascabi.Memory, types *Registry, p Ptr, want TypeTag) error {
	wantID := types.IDOf(want)
	if wantID == NoTypeID {
		return nil
	}
	hdr, err := ReadHeader(mem, p)
	if err != nil {
		return err
	}
	if hdr.RtID != wantID {
		got := "unknown"
		if tag, ok := types.TagOf(hdr.RtID); ok {
			got = tag.String()
		}
		return errors.New(errors.PhaseDecode, errors.KindTypeMismatch).
			AscType(want.String()).
			Detail("object at %s is %s (id %d)", p, got, hdr.RtID).
			Build()
	}
	return nil
}

func checkNull(p Ptr, ascType string) error {
	if p.IsNull() {
		return errors.NullPointer(errors.PhaseDecode, ascType)
	}
	return nil
}
