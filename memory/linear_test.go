package memory

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/ascabi"
	"github.com/wippyai/ascabi/errors"
)

var _ ascabi.Memory = (*Linear)(nil)
var _ ascabi.MemorySizer = (*Linear)(nil)

func TestNewLinear(t *testing.T) {
	mem, err := NewLinear(1, 4)
	require.NoError(t, err)
	assert.Equal(t, uint32(PageSize), mem.Size())
	assert.Equal(t, uint32(1), mem.Pages())

	_, err = NewLinear(5, 4)
	assert.Error(t, err)
}

func TestLinear_Grow(t *testing.T) {
	mem, err := NewLinear(1, 3)
	require.NoError(t, err)
	require.NoError(t, mem.WriteU32(100, 0xdeadbeef))

	prev, ok := mem.Grow(2)
	require.True(t, ok)
	assert.Equal(t, uint32(1), prev)
	assert.Equal(t, uint32(3), mem.Pages())

	v, err := mem.ReadU32(100)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xdeadbeef), v, "grow must preserve contents")

	_, ok = mem.Grow(1)
	assert.False(t, ok)
	assert.Equal(t, uint32(3), mem.Pages())
}

func TestLinear_ReadWrite(t *testing.T) {
	mem, err := NewLinear(1, 1)
	require.NoError(t, err)

	require.NoError(t, mem.Write(10, []byte{1, 2, 3, 4}))
	got, err := mem.Read(10, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, got)

	// Read returns a view of memory.
	got[0] = 9
	b, err := mem.ReadU8(10)
	require.NoError(t, err)
	assert.Equal(t, uint8(9), b)

	require.NoError(t, mem.WriteU16(20, 0xBEEF))
	u16, err := mem.ReadU16(20)
	require.NoError(t, err)
	assert.Equal(t, uint16(0xBEEF), u16)

	require.NoError(t, mem.WriteU64(32, 0x0102030405060708))
	u64, err := mem.ReadU64(32)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0102030405060708), u64)

	lo, err := mem.ReadU8(32)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x08), lo, "values are little-endian")
}

func TestLinear_OutOfBounds(t *testing.T) {
	mem, err := NewLinear(1, 1)
	require.NoError(t, err)

	tests := []struct {
		name string
		op   func() error
	}{
		{"read past end", func() error { _, err := mem.Read(PageSize-2, 4); return err }},
		{"write past end", func() error { return mem.Write(PageSize-1, []byte{1, 2}) }},
		{"u32 at end", func() error { _, err := mem.ReadU32(PageSize - 3); return err }},
		{"u64 write at end", func() error { return mem.WriteU64(PageSize-4, 1) }},
		{"offset overflow", func() error { _, err := mem.Read(0xFFFFFFFF, 2); return err }},
		{"copy source", func() error { return mem.Copy(0, PageSize-1, 2) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.op()
			require.Error(t, err)
			var e *errors.Error
			require.True(t, stderrors.As(err, &e))
			assert.Equal(t, errors.KindOutOfBounds, e.Kind)
		})
	}
}

func TestLinear_Copy(t *testing.T) {
	mem, err := NewLinear(1, 1)
	require.NoError(t, err)
	require.NoError(t, mem.Write(0, []byte{1, 2, 3, 4, 5}))

	require.NoError(t, mem.Copy(2, 0, 3))
	got, err := mem.Read(0, 5)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 1, 2, 3}, got)
}

func TestSpan_EndAtFourGiB(t *testing.T) {
	tests := []struct {
		offset, length uint32
		lo, hi         uint64
	}{
		{0, 0, 0, 0},
		{100, 4, 100, 104},
		{0xFFFFFFF0, 0x10, 0xFFFFFFF0, 1 << 32},
		{0xFFFFFFFF, 1, 0xFFFFFFFF, 1 << 32},
		{0, 0xFFFFFFFF, 0, 0xFFFFFFFF},
	}

	for _, tt := range tests {
		lo, hi := span(tt.offset, tt.length)
		if lo != tt.lo || hi != tt.hi {
			t.Fatalf("span(%#x, %#x) = [%#x, %#x), want [%#x, %#x)", tt.offset, tt.length, lo, hi, tt.lo, tt.hi)
		}
		if hi < lo {
			t.Fatalf("span(%#x, %#x) wrapped", tt.offset, tt.length)
		}
	}
}

func TestLinear_ReadAtEnd(t *testing.T) {
	mem, err := NewLinear(1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := mem.Write(PageSize-4, []byte{1, 2, 3, 4}); err != nil {
		t.Fatalf("write at end: %v", err)
	}
	got, err := mem.Read(PageSize-4, 4)
	if err != nil {
		t.Fatalf("read at end: %v", err)
	}
	if len(got) != 4 || cap(got) != 4 || got[3] != 4 {
		t.Fatalf("read at end = %v (cap %d)", got, cap(got))
	}
	if err := mem.Copy(0, PageSize-4, 4); err != nil {
		t.Fatalf("copy from end: %v", err)
	}
	if _, err := mem.Read(PageSize-3, 4); err == nil {
		t.Fatal("read past end should fail")
	}
}
