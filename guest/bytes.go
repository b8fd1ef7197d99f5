package guest

import (
	"github.com/wippyai/ascabi/asc"
	"github.com/wippyai/ascabi/errors"
)

// Mode tells whether a Bytes handle owns its storage or borrows a range of
// another sequence's storage.
type Mode uint8

const (
	// Owned sequences cover a whole buffer of their own.
	Owned Mode = iota
	// View sequences share a sub-range of an existing buffer. Writes through
	// a view are visible through every other reference to the buffer.
	View
)

func (m Mode) String() string {
	if m == View {
		return "view"
	}
	return "owned"
}

// Bytes is a handle to a Uint8Array in guest memory. Every failure while
// using it traps.
type Bytes struct {
	m    *Module
	ptr  asc.Ptr
	ta   asc.TypedArray
	mode Mode
}

// NewBytes copies data into a fresh owned sequence.
func (m *Module) NewBytes(data []byte) Bytes {
	p, err := asc.NewUint8Array(m, data)
	errors.Throw(err)
	return m.LoadBytes(p)
}

// AllocBytes returns a zero-filled owned sequence of n bytes.
func (m *Module) AllocBytes(n int) Bytes {
	if n < 0 {
		errors.Abort(errors.KindInvalidInput, "negative length %d", n)
	}
	buf, err := asc.AllocArrayBuffer(m, uint32(n))
	errors.Throw(err)
	p, err := asc.NewUint8ArrayView(m, buf, 0, uint32(n))
	errors.Throw(err)
	return m.LoadBytes(p)
}

// LoadBytes wraps the Uint8Array at p. Objects made by Subarray load as
// views. Any other object is a view only if it does not span its whole
// buffer.
func (m *Module) LoadBytes(p asc.Ptr) Bytes {
	errors.Throw(asc.CheckTag(m, m.types, p, asc.TagUint8Array))
	ta, err := asc.ReadTypedArray(m, p)
	errors.Throw(err)
	n, err := asc.ArrayBufferLen(m, ta.Buffer)
	errors.Throw(err)
	if uint64(ta.ByteOffset)+uint64(ta.ByteLength) > uint64(n) {
		errors.Abort(errors.KindOutOfBounds, "Uint8Array [%d, +%d) exceeds buffer of %d bytes",
			ta.ByteOffset, ta.ByteLength, n)
	}
	mode := Owned
	if _, ok := m.views[p]; ok || ta.ByteOffset != 0 || ta.ByteLength != n {
		mode = View
	}
	return Bytes{m: m, ptr: p, ta: ta, mode: mode}
}

// Ptr returns the Uint8Array object pointer.
func (b Bytes) Ptr() asc.Ptr {
	return b.ptr
}

// Mode reports whether b owns its buffer.
func (b Bytes) Mode() Mode {
	return b.mode
}

// Buffer returns the backing ArrayBuffer.
func (b Bytes) Buffer() asc.Ptr {
	return b.ta.Buffer
}

// Len returns the length in bytes.
func (b Bytes) Len() int {
	return int(b.ta.ByteLength)
}

func (b Bytes) check(i int) uint32 {
	if i < 0 || i >= b.Len() {
		panic(&errors.Trap{
			Kind:  errors.KindOutOfBounds,
			Cause: errors.OutOfBounds(errors.PhaseGuest, []string{"Uint8Array"}, i, b.Len()),
		})
	}
	return b.ta.DataOffset() + uint32(i)
}

// At returns the byte at index i.
func (b Bytes) At(i int) byte {
	v, err := b.m.ReadU8(b.check(i))
	errors.Throw(err)
	return v
}

// Set stores v at index i.
func (b Bytes) Set(i int, v byte) {
	errors.Throw(b.m.WriteU8(b.check(i), v))
}

// Subarray returns a view of [begin, end). Negative indices count from the
// end and both bounds are clamped to the sequence, as in
// TypedArray.prototype.subarray.
func (b Bytes) Subarray(begin, end int) Bytes {
	n := b.Len()
	begin, end = clamp(begin, n), clamp(end, n)
	if end < begin {
		end = begin
	}
	p, err := asc.NewUint8ArrayView(b.m, b.ta.Buffer, b.ta.ByteOffset+uint32(begin), uint32(end-begin))
	errors.Throw(err)
	b.m.views[p] = struct{}{}
	return b.m.LoadBytes(p)
}

func clamp(i, n int) int {
	if i < 0 {
		i += n
		if i < 0 {
			return 0
		}
	}
	if i > n {
		return n
	}
	return i
}

// Data returns a copy of the bytes.
func (b Bytes) Data() []byte {
	raw, err := b.m.Read(b.ta.DataOffset(), b.ta.ByteLength)
	errors.Throw(err)
	return append(make([]byte, 0, len(raw)), raw...)
}

// Clone returns an owned copy of b.
func (b Bytes) Clone() Bytes {
	return b.Concat()
}

// Concat returns a fresh owned sequence holding b followed by each of rest.
// The result shares no storage with any input.
func (b Bytes) Concat(rest ...Bytes) Bytes {
	total := uint64(b.ta.ByteLength)
	for _, r := range rest {
		total += uint64(r.ta.ByteLength)
	}
	if total > 0xFFFFFFFF {
		errors.Abort(errors.KindAllocation, "concatenated length %d overflows", total)
	}

	out := b.m.AllocBytes(int(total))
	dst := out.ta.DataOffset()
	for _, part := range append([]Bytes{b}, rest...) {
		errors.Throw(b.m.Copy(dst, part.ta.DataOffset(), part.ta.ByteLength))
		dst += part.ta.ByteLength
	}
	return out
}
