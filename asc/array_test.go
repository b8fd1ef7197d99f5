package asc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/ascabi/errors"
)

func TestStringArray(t *testing.T) {
	h := newTestHeap(t)

	for _, items := range [][]string{{}, {"a"}, {"1", "2", "3", "4", "5", "6", "7"}} {
		p, err := NewStringArray(h, items)
		require.NoError(t, err)

		tag, ok, err := ObjectTag(h, h.types, p)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, TagArrayString, tag)

		got, err := ReadStringArray(h, p)
		require.NoError(t, err)
		assert.Equal(t, items, got)
	}
}

func TestBytesArray(t *testing.T) {
	h := newTestHeap(t)

	items := [][]byte{{1}, {}, {2, 3, 4}}
	p, err := NewBytesArray(h, items)
	require.NoError(t, err)

	got, err := ReadBytesArray(h, p)
	require.NoError(t, err)
	assert.Equal(t, items, got)
}

func TestReadPtrArray_LengthExceedsBuffer(t *testing.T) {
	h := newTestHeap(t)

	p, err := NewPtrArray(h, TagNone, []Ptr{1024, 2048})
	require.NoError(t, err)
	require.NoError(t, h.WriteU32(uint32(p)+4, 3))

	_, err = ReadPtrArray(h, p)
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindOutOfBounds})
}

func TestNewPtrArray_Untagged(t *testing.T) {
	h := newTestHeap(t)

	p, err := NewPtrArray(h, TagNone, []Ptr{8, 16})
	require.NoError(t, err)

	hdr, err := ReadHeader(h, p)
	require.NoError(t, err)
	assert.Equal(t, NoTypeID, hdr.RtID)

	elems, err := ReadPtrArray(h, p)
	require.NoError(t, err)
	assert.Equal(t, []Ptr{8, 16}, elems)
}
