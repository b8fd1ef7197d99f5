package wasmgen

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

func TestWriter_LEB128(t *testing.T) {
	tests := []struct {
		name  string
		write func(w *Writer)
		want  []byte
	}{
		{"u32 zero", func(w *Writer) { w.WriteU32(0) }, []byte{0x00}},
		{"u32 127", func(w *Writer) { w.WriteU32(127) }, []byte{0x7f}},
		{"u32 128", func(w *Writer) { w.WriteU32(128) }, []byte{0x80, 0x01}},
		{"u32 624485", func(w *Writer) { w.WriteU32(624485) }, []byte{0xe5, 0x8e, 0x26}},
		{"s32 -1", func(w *Writer) { w.WriteS32(-1) }, []byte{0x7f}},
		{"s32 -8", func(w *Writer) { w.WriteS32(-8) }, []byte{0x78}},
		{"s32 63", func(w *Writer) { w.WriteS32(63) }, []byte{0x3f}},
		{"s32 64", func(w *Writer) { w.WriteS32(64) }, []byte{0xc0, 0x00}},
		{"s32 -123456", func(w *Writer) { w.WriteS32(-123456) }, []byte{0xc0, 0xbb, 0x78}},
		{"name", func(w *Writer) { w.WriteName("env") }, []byte{0x03, 'e', 'n', 'v'}},
		{"u32 le", func(w *Writer) { w.WriteU32LE(Magic) }, []byte{0x00, 'a', 's', 'm'}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &Writer{}
			tt.write(w)
			assert.Equal(t, tt.want, w.Bytes())
		})
	}
}

func TestEncode_Empty(t *testing.T) {
	m := &Module{}
	assert.Equal(t, []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}, m.Encode())
}

func TestWriteLocals_Groups(t *testing.T) {
	w := &Writer{}
	writeLocals(w, []byte{ValI32, ValI32, ValI64, ValI32})
	assert.Equal(t, []byte{3, 2, ValI32, 1, ValI64, 1, ValI32}, w.Bytes())
}

func TestReferenceGuest_Compiles(t *testing.T) {
	ctx := context.Background()
	r := wazero.NewRuntime(ctx)
	defer r.Close(ctx)

	compiled, err := r.CompileModule(ctx, ReferenceGuest(GuestOptions{}))
	require.NoError(t, err)

	exports := compiled.ExportedFunctions()
	for _, name := range []string{
		"allocate", "id_of_type", "test_address", "test_uint", "hash", "big_int_to_hex",
		"big_int_to_string", "bytes_to_base58", "callContract", "dataSourceCreate", "abort_now",
	} {
		assert.Contains(t, exports, name)
	}
	assert.Contains(t, compiled.ExportedMemories(), "memory")

	var imports []string
	for _, f := range compiled.ImportedFunctions() {
		mod, name, _ := f.Import()
		assert.Equal(t, "env", mod)
		imports = append(imports, name)
	}
	assert.Equal(t, []string{
		"crypto.keccak256", "typeConversion.bigIntToHex", "typeConversion.bigIntToString",
		"typeConversion.bytesToBase58", "ethereum.call", "dataSource.create", "abort",
	}, imports)
}

// instantiate links the reference guest against an env module whose
// functions return their first argument.
func instantiate(t *testing.T, opts GuestOptions) api.Module {
	t.Helper()
	ctx := context.Background()
	r := wazero.NewRuntime(ctx)
	t.Cleanup(func() { r.Close(ctx) })

	echo := func(_ context.Context, stack []uint64) {}
	drop := func(_ context.Context, stack []uint64) {}
	i32 := api.ValueTypeI32
	b := r.NewHostModuleBuilder("env")
	for _, name := range []string{
		"crypto.keccak256", "typeConversion.bigIntToHex", "typeConversion.bigIntToString",
		"typeConversion.bytesToBase58", "ethereum.call",
	} {
		b.NewFunctionBuilder().
			WithGoFunction(api.GoFunc(echo), []api.ValueType{i32}, []api.ValueType{i32}).
			Export(name)
	}
	b.NewFunctionBuilder().
		WithGoFunction(api.GoFunc(drop), []api.ValueType{i32, i32}, nil).
		Export("dataSource.create")
	b.NewFunctionBuilder().
		WithGoFunction(api.GoFunc(func(context.Context, []uint64) { panic("abort") }),
			[]api.ValueType{i32, i32, i32, i32}, nil).
		Export("abort")
	_, err := b.Instantiate(ctx)
	require.NoError(t, err)

	mod, err := r.Instantiate(ctx, ReferenceGuest(opts))
	require.NoError(t, err)
	return mod
}

func call1(t *testing.T, mod api.Module, name string, arg uint64) uint64 {
	t.Helper()
	res, err := mod.ExportedFunction(name).Call(context.Background(), arg)
	require.NoError(t, err)
	require.Len(t, res, 1)
	return res[0]
}

func TestReferenceGuest_Allocate(t *testing.T) {
	mod := instantiate(t, GuestOptions{MinPages: 1})

	a := call1(t, mod, "allocate", 5)
	b := call1(t, mod, "allocate", 0)
	c := call1(t, mod, "allocate", 16)
	d := call1(t, mod, "allocate", 0)
	assert.Equal(t, uint64(HeapBase), a)
	assert.Equal(t, a+8, b)
	assert.Equal(t, b+8, c)
	assert.Equal(t, c+16, d)

	_, err := mod.ExportedFunction("allocate").Call(context.Background(), 70000)
	assert.Error(t, err, "larger than memory")

	_, err = mod.ExportedFunction("allocate").Call(context.Background(), 65536-1024)
	assert.Error(t, err, "past the end")
}

func TestReferenceGuest_IDOfType(t *testing.T) {
	mod := instantiate(t, GuestOptions{})

	for tag := uint64(0); tag < knownTags; tag++ {
		assert.Equal(t, tag+TypeIDOffset, call1(t, mod, "id_of_type", tag))
		assert.Equal(t, tag+TypeIDOffset, call1(t, mod, "id_of_type", tag))
	}
	assert.Zero(t, call1(t, mod, "id_of_type", 5))
	assert.Zero(t, call1(t, mod, "id_of_type", 0xFFFFFFFF))
}

func TestReferenceGuest_TestAddress(t *testing.T) {
	mod := instantiate(t, GuestOptions{})
	mem := mod.Memory()

	// Uint8Array at 2048 over a buffer at 2100 with byteOffset 4, length 3
	require.True(t, mem.WriteUint32Le(2048, 2100))
	require.True(t, mem.WriteUint32Le(2052, 4))
	require.True(t, mem.WriteUint32Le(2056, 3))
	require.True(t, mem.Write(2100+8+4, []byte{0xff, 5, 9}))

	assert.Equal(t, uint64(2048), call1(t, mod, "test_address", 2048))
	got, ok := mem.Read(2100+8+4, 3)
	require.True(t, ok)
	assert.Equal(t, []byte{0x00, 5, 10}, got)

	call1(t, mod, "test_uint", 2048)
	got, _ = mem.Read(2100+8+4, 3)
	assert.Equal(t, []byte{0x01, 5, 10}, got)

	require.True(t, mem.WriteUint32Le(2056, 0))
	_, err := mod.ExportedFunction("test_uint").Call(context.Background(), 2048)
	assert.Error(t, err)
}

func TestReferenceGuest_Forwarders(t *testing.T) {
	mod := instantiate(t, GuestOptions{})

	for _, name := range []string{"hash", "big_int_to_hex", "big_int_to_string", "bytes_to_base58", "callContract"} {
		assert.Equal(t, uint64(77), call1(t, mod, name, 77), name)
	}
	_, err := mod.ExportedFunction("dataSourceCreate").Call(context.Background(), 1, 2)
	assert.NoError(t, err)
	_, err = mod.ExportedFunction("abort_now").Call(context.Background())
	assert.Error(t, err)
}
