package asc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/ascabi/errors"
)

func TestArrayBuffer(t *testing.T) {
	h := newTestHeap(t)

	p, err := NewArrayBuffer(h, []byte{9, 8, 7})
	require.NoError(t, err)

	n, err := ArrayBufferLen(h, p)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), n)

	start, n, err := ArrayBufferData(h, p)
	require.NoError(t, err)
	assert.Equal(t, uint32(p)+BufferHeaderSize, start)
	assert.Equal(t, uint32(3), n)

	data, err := ReadArrayBuffer(h, p)
	require.NoError(t, err)
	assert.Equal(t, []byte{9, 8, 7}, data)

	tag, ok, err := ObjectTag(h, h.types, p)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, TagArrayBuffer, tag)
}

func TestAllocArrayBuffer_ZeroFilled(t *testing.T) {
	h := newTestHeap(t)

	p, err := AllocArrayBuffer(h, 16)
	require.NoError(t, err)
	data, err := ReadArrayBuffer(h, p)
	require.NoError(t, err)
	assert.Equal(t, make([]byte, 16), data)
}

func TestArrayBuffer_Null(t *testing.T) {
	h := newTestHeap(t)
	_, err := ReadArrayBuffer(h, Null)
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindNullPointer})
}

func TestUint8Array(t *testing.T) {
	h := newTestHeap(t)

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", []byte{}},
		{"one byte", []byte{0xff}},
		{"address", make([]byte, 20)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewUint8Array(h, tt.data)
			require.NoError(t, err)

			ta, err := ReadTypedArray(h, p)
			require.NoError(t, err)
			assert.Equal(t, uint32(0), ta.ByteOffset)
			assert.Equal(t, uint32(len(tt.data)), ta.ByteLength)

			got, err := ReadUint8Array(h, p)
			require.NoError(t, err)
			assert.Equal(t, tt.data, got)
		})
	}
}

func TestUint8ArrayView_SharesBuffer(t *testing.T) {
	h := newTestHeap(t)

	buf, err := NewArrayBuffer(h, []byte{0, 1, 2, 3, 4, 5, 6, 7})
	require.NoError(t, err)

	view, err := NewUint8ArrayView(h, buf, 2, 3)
	require.NoError(t, err)

	got, err := ReadUint8Array(h, view)
	require.NoError(t, err)
	assert.Equal(t, []byte{2, 3, 4}, got)

	// writes through the buffer are seen by the view
	require.NoError(t, h.WriteU8(uint32(buf)+BufferHeaderSize+3, 0xAA))
	got, err = ReadUint8Array(h, view)
	require.NoError(t, err)
	assert.Equal(t, []byte{2, 0xAA, 4}, got)

	ta, err := ReadTypedArray(h, view)
	require.NoError(t, err)
	assert.Equal(t, buf, ta.Buffer)
	assert.Equal(t, uint32(buf)+BufferHeaderSize+2, ta.DataOffset())
}

func TestUint8ArrayView_OutOfBounds(t *testing.T) {
	h := newTestHeap(t)

	buf, err := NewArrayBuffer(h, []byte{1, 2, 3, 4})
	require.NoError(t, err)

	_, err = NewUint8ArrayView(h, buf, 2, 3)
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseEncode, Kind: errors.KindOutOfBounds})

	_, err = NewUint8ArrayView(h, buf, 4, 0)
	assert.NoError(t, err)
}
