package asc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/ascabi/errors"
)

func TestString_RoundTrip(t *testing.T) {
	h := newTestHeap(t)

	tests := []struct {
		name  string
		in    string
		units uint32
	}{
		{"empty", "", 0},
		{"ascii", "hello", 5},
		{"latin", "héllo", 5},
		{"cjk", "世界", 2},
		{"surrogate pair", "a😀b", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewString(h, tt.in)
			require.NoError(t, err)

			n, err := h.ReadU32(uint32(p))
			require.NoError(t, err)
			assert.Equal(t, tt.units, n, "length counts UTF-16 units")

			got, err := ReadString(h, p)
			require.NoError(t, err)
			assert.Equal(t, tt.in, got)
		})
	}
}

func TestStringUnits(t *testing.T) {
	h := newTestHeap(t)

	p, err := NewString(h, "ab")
	require.NoError(t, err)
	units, err := StringUnits(h, p)
	require.NoError(t, err)
	assert.Equal(t, []byte{'a', 0, 'b', 0}, units)

	_, err = NewStringUnits(h, []byte{1, 2, 3})
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseEncode, Kind: errors.KindInvalidData})
}

func TestReadString_LengthBeyondMemory(t *testing.T) {
	h := newTestHeap(t)

	p, err := NewString(h, "x")
	require.NoError(t, err)
	require.NoError(t, h.WriteU32(uint32(p), 1<<30))

	_, err = ReadString(h, p)
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindOutOfBounds})
}
