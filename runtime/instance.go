package runtime

import (
	"context"
	"fmt"

	"github.com/wippyai/ascabi/asc"
	"github.com/wippyai/ascabi/errors"
)

// Callee is a guest that can be marshaled into and called by export name.
// engine.Instance and guest.Module both satisfy it.
type Callee interface {
	asc.Heap
	Call(ctx context.Context, name string, args ...uint64) ([]uint64, error)
}

// contextSetter is implemented by callees whose allocator runs guest code
// and therefore needs the caller's context.
type contextSetter interface {
	SetContext(ctx context.Context)
}

// Instance wraps a Callee with typed calls. It is not safe for concurrent
// use.
type Instance struct {
	callee Callee
	closer func(context.Context) error
}

// NewInstance wraps c. closer runs on Close and may be nil.
func NewInstance(c Callee, closer func(context.Context) error) *Instance {
	return &Instance{callee: c, closer: closer}
}

// Heap exposes the guest memory for direct marshaling.
func (i *Instance) Heap() asc.Heap {
	return i.callee
}

// Call invokes name after marshaling args and returns the raw result
// pointer, or asc.Null for exports without a result.
func (i *Instance) Call(ctx context.Context, name string, args ...any) (asc.Ptr, error) {
	if i.callee == nil {
		return asc.Null, errors.NotInitialized(errors.PhaseGuest, "instance")
	}
	if cs, ok := i.callee.(contextSetter); ok {
		cs.SetContext(ctx)
	}
	raw := make([]uint64, len(args))
	for n, arg := range args {
		p, err := i.encodeArg(arg)
		if err != nil {
			return asc.Null, errors.New(errors.PhaseEncode, errors.KindInvalidInput).
				Path(name, fmt.Sprintf("arg%d", n)).
				Cause(err).
				Build()
		}
		raw[n] = uint64(p)
	}
	results, err := i.callee.Call(ctx, name, raw...)
	if err != nil {
		return asc.Null, err
	}
	if len(results) == 0 {
		return asc.Null, nil
	}
	return asc.Ptr(uint32(results[0])), nil
}

func (i *Instance) encodeArg(arg any) (asc.Ptr, error) {
	h := i.callee
	switch v := arg.(type) {
	case asc.Ptr:
		return v, nil
	case []byte:
		return asc.NewUint8Array(h, v)
	case string:
		return asc.NewString(h, v)
	case []string:
		return asc.NewStringArray(h, v)
	case [][]byte:
		return asc.NewBytesArray(h, v)
	case asc.Value:
		return asc.WriteValue(h, v)
	}
	return asc.Null, errors.TypeMismatch(errors.PhaseEncode, nil, fmt.Sprintf("%T", arg), "argument")
}

// result checks that the object at p is of class tag.
func (i *Instance) result(name string, p asc.Ptr, tag asc.TypeTag) error {
	if err := asc.CheckTag(i.callee, i.callee.Types(), p, tag); err != nil {
		return errors.New(errors.PhaseDecode, errors.KindTypeMismatch).
			Path(name, "result").
			AscType(tag.String()).
			Cause(err).
			Build()
	}
	return nil
}

// CallBytes calls an export returning a Uint8Array and copies its bytes.
func (i *Instance) CallBytes(ctx context.Context, name string, args ...any) ([]byte, error) {
	p, err := i.Call(ctx, name, args...)
	if err != nil {
		return nil, err
	}
	if err := i.result(name, p, asc.TagUint8Array); err != nil {
		return nil, err
	}
	return asc.ReadUint8Array(i.callee, p)
}

// CallString calls an export returning a String.
func (i *Instance) CallString(ctx context.Context, name string, args ...any) (string, error) {
	p, err := i.Call(ctx, name, args...)
	if err != nil {
		return "", err
	}
	if err := i.result(name, p, asc.TagString); err != nil {
		return "", err
	}
	return asc.ReadString(i.callee, p)
}

// CallStringFromBytes passes b as a Uint8Array and reads a String back, the
// shape of the conversion imports.
func (i *Instance) CallStringFromBytes(ctx context.Context, name string, b []byte) (string, error) {
	return i.CallString(ctx, name, b)
}

// CallValue calls an export returning a Value.
func (i *Instance) CallValue(ctx context.Context, name string, args ...any) (asc.Value, error) {
	p, err := i.Call(ctx, name, args...)
	if err != nil {
		return asc.Value{}, err
	}
	return asc.ReadValue(i.callee, p)
}

// Decode turns v into a Go value; see asc.DecodeValue.
func (i *Instance) Decode(v asc.Value) (any, error) {
	return asc.DecodeValue(i.callee, v)
}

// CallAddresses calls an export returning a nullable Array<Uint8Array>.
// A null result reports false.
func (i *Instance) CallAddresses(ctx context.Context, name string, args ...any) ([][]byte, bool, error) {
	p, err := i.Call(ctx, name, args...)
	if err != nil {
		return nil, false, err
	}
	if p.IsNull() {
		return nil, false, nil
	}
	if err := i.result(name, p, asc.TagArrayUint8Array); err != nil {
		return nil, false, err
	}
	items, err := asc.ReadBytesArray(i.callee, p)
	if err != nil {
		return nil, false, err
	}
	return items, true, nil
}

// CallVoid calls an export and ignores any result.
func (i *Instance) CallVoid(ctx context.Context, name string, args ...any) error {
	_, err := i.Call(ctx, name, args...)
	return err
}

// Close releases the guest. Later calls fail.
func (i *Instance) Close(ctx context.Context) error {
	i.callee = nil
	if i.closer == nil {
		return nil
	}
	closer := i.closer
	i.closer = nil
	return closer(ctx)
}
