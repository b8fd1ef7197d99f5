package guest

import (
	"context"

	"github.com/wippyai/ascabi/asc"
	"github.com/wippyai/ascabi/errors"
)

// Export names.
const (
	ExportAllocate              = "allocate"
	ExportIDOfType              = "id_of_type"
	ExportTestAddress           = "test_address"
	ExportTestUint              = "test_uint"
	ExportByteArrayThirdQuarter = "byte_array_third_quarter"
	ExportConcat                = "concat"
	ExportRepeatTwice           = "repeat_twice"
	ExportTestArray             = "test_array"
	ExportHash                  = "hash"
	ExportBigIntToHex           = "big_int_to_hex"
	ExportBigIntToString        = "big_int_to_string"
	ExportBytesToBase58         = "bytes_to_base58"
	ExportCallContract          = "callContract"
	ExportDataSourceCreate      = "dataSourceCreate"
)

func (m *Module) exportTable() map[string]export {
	unary := func(f func(asc.Ptr) asc.Ptr) export {
		return export{params: 1, results: 1, fn: func(_ context.Context, args []uint64) []uint64 {
			return []uint64{uint64(f(asc.Ptr(args[0])))}
		}}
	}
	forward := func(f func(context.Context, asc.Ptr) asc.Ptr) export {
		return export{params: 1, results: 1, fn: func(ctx context.Context, args []uint64) []uint64 {
			return []uint64{uint64(f(ctx, asc.Ptr(args[0])))}
		}}
	}

	return map[string]export{
		ExportAllocate: {params: 1, results: 1, fn: func(_ context.Context, args []uint64) []uint64 {
			return []uint64{uint64(m.Allocate(uint32(args[0])))}
		}},
		ExportIDOfType: {params: 1, results: 1, fn: func(_ context.Context, args []uint64) []uint64 {
			return []uint64{uint64(m.IDOfType(uint32(args[0])))}
		}},
		ExportTestAddress:           unary(m.TestAddress),
		ExportTestUint:              unary(m.TestUint),
		ExportByteArrayThirdQuarter: unary(m.ByteArrayThirdQuarter),
		ExportConcat: {params: 2, results: 1, fn: func(_ context.Context, args []uint64) []uint64 {
			return []uint64{uint64(m.Concat(asc.Ptr(args[0]), asc.Ptr(args[1])))}
		}},
		ExportRepeatTwice: unary(m.RepeatTwice),
		ExportTestArray:   unary(m.TestArray),

		ExportHash:           forward(m.Hash),
		ExportBigIntToHex:    forward(m.BigIntToHex),
		ExportBigIntToString: forward(m.BigIntToString),
		ExportBytesToBase58:  forward(m.BytesToBase58),
		ExportCallContract:   forward(m.CallContract),
		ExportDataSourceCreate: {params: 2, results: 0, fn: func(ctx context.Context, args []uint64) []uint64 {
			m.DataSourceCreate(ctx, asc.Ptr(args[0]), asc.Ptr(args[1]))
			return nil
		}},
	}
}

// Allocate reserves size bytes and returns their offset. Exhaustion traps.
func (m *Module) Allocate(size uint32) uint32 {
	p, err := m.alloc.Alloc(size)
	errors.Throw(err)
	return p
}

// IDOfType reports the class id for a type tag, 0 for tags it does not know.
func (m *Module) IDOfType(tag uint32) uint32 {
	return uint32(m.types.IDOf(asc.TypeTag(tag)))
}

// TestAddress increments the first and last byte of a view over the input
// and returns that view. The caller's sequence sees both increments.
func (m *Module) TestAddress(a asc.Ptr) asc.Ptr {
	in := m.LoadBytes(a)
	view := in.Subarray(0, in.Len())
	last := view.Len() - 1
	view.Set(0, view.At(0)+1)
	view.Set(last, view.At(last)+1)
	return view.Ptr()
}

// TestUint increments the first byte of a view over the input and returns
// that view.
func (m *Module) TestUint(u asc.Ptr) asc.Ptr {
	in := m.LoadBytes(u)
	view := in.Subarray(0, in.Len())
	view.Set(0, view.At(0)+1)
	return view.Ptr()
}

// ByteArrayThirdQuarter returns a view over [n*2/4, n*3/4) of the input.
func (m *Module) ByteArrayThirdQuarter(b asc.Ptr) asc.Ptr {
	in := m.LoadBytes(b)
	n := in.Len()
	return in.Subarray(n*2/4, n*3/4).Ptr()
}

// Concat copies a then b into a fresh sequence.
func (m *Module) Concat(a, b asc.Ptr) asc.Ptr {
	return m.LoadBytes(a).Concat(m.LoadBytes(b)).Ptr()
}

// TestArray returns an Int Value holding the fourth byte of b. Inputs
// shorter than four bytes trap.
func (m *Module) TestArray(b asc.Ptr) asc.Ptr {
	in := m.LoadBytes(b)
	p, err := asc.WriteValue(m, asc.IntValue(int32(in.At(3))))
	errors.Throw(err)
	return p
}
