package runtime

import (
	"context"
	stderrors "errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/ascabi/asc"
	"github.com/wippyai/ascabi/engine"
	"github.com/wippyai/ascabi/errors"
	"github.com/wippyai/ascabi/guest"
	"github.com/wippyai/ascabi/host"
	"github.com/wippyai/ascabi/internal/wasmgen"
)

type backend struct {
	name string
	open func(t *testing.T, r *Runtime) *Instance
}

var backends = []backend{
	{"in-process", func(t *testing.T, r *Runtime) *Instance {
		inst, err := r.NewGuest()
		require.NoError(t, err)
		return inst
	}},
	{"wasm", func(t *testing.T, r *Runtime) *Instance {
		ctx := context.Background()
		mod, err := r.Load(ctx, wasmgen.ReferenceGuest(wasmgen.GuestOptions{}))
		require.NoError(t, err)
		inst, err := mod.Instantiate(ctx)
		require.NoError(t, err)
		t.Cleanup(func() { _ = inst.Close(ctx) })
		return inst
	}},
}

func newRuntime(t *testing.T, caller host.ContractCaller) *Runtime {
	t.Helper()
	ctx := context.Background()
	r, err := New(ctx, engine.DefaultConfig(), caller)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close(ctx) })
	return r
}

func eachBackend(t *testing.T, caller host.ContractCaller, fn func(t *testing.T, r *Runtime, inst *Instance)) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			r := newRuntime(t, caller)
			fn(t, r, b.open(t, r))
		})
	}
}

func TestInstance_Hash(t *testing.T) {
	eachBackend(t, nil, func(t *testing.T, _ *Runtime, inst *Instance) {
		got, err := inst.CallBytes(context.Background(), guest.ExportHash, []byte{})
		require.NoError(t, err)
		assert.Len(t, got, 32)
		assert.Equal(t, byte(0xc5), got[0])
	})
}

func TestInstance_Conversions(t *testing.T) {
	eachBackend(t, nil, func(t *testing.T, _ *Runtime, inst *Instance) {
		ctx := context.Background()
		n, _ := new(big.Int).SetString("123456789012345678901234567890", 10)

		s, err := inst.CallStringFromBytes(ctx, guest.ExportBigIntToString, asc.BigIntToBytes(n))
		require.NoError(t, err)
		assert.Equal(t, "123456789012345678901234567890", s)

		s, err = inst.CallStringFromBytes(ctx, guest.ExportBigIntToHex, asc.BigIntToBytes(big.NewInt(4096)))
		require.NoError(t, err)
		assert.Equal(t, "0x1000", s)

		s, err = inst.CallStringFromBytes(ctx, guest.ExportBytesToBase58, []byte{0, 0, 1})
		require.NoError(t, err)
		assert.Equal(t, "112", s)
	})
}

func TestInstance_TestAddressAliasesInput(t *testing.T) {
	eachBackend(t, nil, func(t *testing.T, _ *Runtime, inst *Instance) {
		in, err := asc.NewUint8Array(inst.Heap(), []byte{1, 2, 3, 4})
		require.NoError(t, err)

		out, err := inst.CallBytes(context.Background(), guest.ExportTestAddress, in)
		require.NoError(t, err)
		assert.Equal(t, []byte{2, 2, 3, 5}, out)

		got, err := asc.ReadUint8Array(inst.Heap(), in)
		require.NoError(t, err)
		assert.Equal(t, []byte{2, 2, 3, 5}, got)
	})
}

func TestInstance_CallAddresses(t *testing.T) {
	caller := host.NewStaticCaller()
	caller.Set([]byte{0xaa}, [][]byte{{1}, {2, 3}})
	caller.Set([]byte{0xbb}, [][]byte{})

	eachBackend(t, caller, func(t *testing.T, _ *Runtime, inst *Instance) {
		ctx := context.Background()

		items, ok, err := inst.CallAddresses(ctx, guest.ExportCallContract, []byte{0xaa})
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, [][]byte{{1}, {2, 3}}, items)

		items, ok, err = inst.CallAddresses(ctx, guest.ExportCallContract, []byte{0xbb})
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Empty(t, items)

		_, ok, err = inst.CallAddresses(ctx, guest.ExportCallContract, []byte{0xcc})
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestInstance_CallVoidDataSource(t *testing.T) {
	eachBackend(t, nil, func(t *testing.T, r *Runtime, inst *Instance) {
		err := inst.CallVoid(context.Background(), guest.ExportDataSourceCreate, "Pool", []string{"0x01"})
		require.NoError(t, err)

		all, err := r.DataSources().All()
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, "Pool", all[0].Name)
		assert.Equal(t, []string{"0x01"}, all[0].Params)
	})
}

func TestInstance_ImportFailure(t *testing.T) {
	eachBackend(t, nil, func(t *testing.T, _ *Runtime, inst *Instance) {
		_, _, err := inst.CallAddresses(context.Background(), guest.ExportCallContract, []byte{1})
		var trap *errors.Trap
		require.True(t, stderrors.As(err, &trap), "got %v", err)
		assert.Equal(t, errors.KindImportFailed, trap.Kind)
	})
}

func TestInstance_ResultTypeChecked(t *testing.T) {
	eachBackend(t, nil, func(t *testing.T, _ *Runtime, inst *Instance) {
		_, err := inst.CallString(context.Background(), guest.ExportHash, []byte{1})
		assert.True(t, stderrors.Is(err, &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindTypeMismatch}), "got %v", err)
	})
}

func TestInstance_UnsupportedArgument(t *testing.T) {
	eachBackend(t, nil, func(t *testing.T, _ *Runtime, inst *Instance) {
		_, err := inst.Call(context.Background(), guest.ExportHash, 3.5)
		var e *errors.Error
		require.True(t, stderrors.As(err, &e))
		assert.Equal(t, errors.KindInvalidInput, e.Kind)
		assert.Equal(t, []string{guest.ExportHash, "arg0"}, e.Path)
	})
}

func TestInstance_Close(t *testing.T) {
	eachBackend(t, nil, func(t *testing.T, _ *Runtime, inst *Instance) {
		ctx := context.Background()
		require.NoError(t, inst.Close(ctx))
		require.NoError(t, inst.Close(ctx))
		_, err := inst.CallBytes(ctx, guest.ExportHash, []byte{})
		assert.True(t, stderrors.Is(err, &errors.Error{Phase: errors.PhaseGuest, Kind: errors.KindNotInitialized}))
	})
}

func TestInstance_InProcessOnlyExports(t *testing.T) {
	r := newRuntime(t, nil)
	inst, err := r.NewGuest()
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("third quarter", func(t *testing.T) {
		got, err := inst.CallBytes(ctx, guest.ExportByteArrayThirdQuarter, []byte{0, 1, 2, 3, 4, 5, 6, 7})
		require.NoError(t, err)
		assert.Equal(t, []byte{4, 5}, got)
	})

	t.Run("concat", func(t *testing.T) {
		got, err := inst.CallBytes(ctx, guest.ExportConcat, []byte{1, 2}, []byte{3})
		require.NoError(t, err)
		assert.Equal(t, []byte{1, 2, 3}, got)
	})

	t.Run("repeat twice", func(t *testing.T) {
		got, err := inst.CallString(ctx, guest.ExportRepeatTwice, "ab")
		require.NoError(t, err)
		assert.Equal(t, "abab", got)

		got, err = inst.CallString(ctx, guest.ExportRepeatTwice, "")
		require.NoError(t, err)
		assert.Equal(t, "", got)
	})

	t.Run("test array", func(t *testing.T) {
		v, err := inst.CallValue(ctx, guest.ExportTestArray, []byte{9, 8, 7, 6, 5})
		require.NoError(t, err)
		assert.Equal(t, asc.KindInt, v.Kind())

		decoded, err := inst.Decode(v)
		require.NoError(t, err)
		assert.Equal(t, int32(6), decoded)

		_, err = v.Bool()
		assert.Error(t, err)
	})

	t.Run("short test array traps", func(t *testing.T) {
		_, err := inst.CallValue(ctx, guest.ExportTestArray, []byte{1, 2})
		var trap *errors.Trap
		require.True(t, stderrors.As(err, &trap))
		assert.Equal(t, errors.KindOutOfBounds, trap.Kind)
	})
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(context.Background(), engine.Config{LogLevel: "loud"}, nil)
	assert.True(t, stderrors.Is(err, &errors.Error{Phase: errors.PhaseConfig, Kind: errors.KindInvalidInput}))
}

type ctxKey struct{}

// recordingGuest notes the context each allocation runs under.
type recordingGuest struct {
	*guest.Module
	ctx  context.Context
	seen []any
}

func (g *recordingGuest) SetContext(ctx context.Context) {
	g.ctx = ctx
}

func (g *recordingGuest) Alloc(size uint32) (uint32, error) {
	var v any
	if g.ctx != nil {
		v = g.ctx.Value(ctxKey{})
	}
	g.seen = append(g.seen, v)
	return g.Module.Alloc(size)
}

func TestInstance_ArgumentsAllocateUnderCallContext(t *testing.T) {
	m, err := guest.New(nil, guest.DefaultOptions())
	require.NoError(t, err)
	g := &recordingGuest{Module: m}
	inst := NewInstance(g, nil)

	for _, call := range []string{"first", "second"} {
		g.seen = nil
		ctx := context.WithValue(context.Background(), ctxKey{}, call)
		_, err := inst.CallBytes(ctx, guest.ExportConcat, []byte{1}, []byte{2})
		require.NoError(t, err)

		require.NotEmpty(t, g.seen)
		for _, v := range g.seen {
			assert.Equal(t, call, v)
		}
	}
}
