package engine

import (
	"context"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/ascabi/asc"
	"github.com/wippyai/ascabi/errors"
	"github.com/wippyai/ascabi/memory"
)

// Instance is a running guest. It implements asc.Heap over the guest's
// exported memory and allocate function, with a registry built from its
// id_of_type. It is NOT safe for concurrent use.
type Instance struct {
	*memory.Wrapper
	engine *Engine
	mod    api.Module
	name   string
	alloc  *memory.ExportAllocator
	types  *asc.Registry
}

// Name returns the wazero module name.
func (i *Instance) Name() string {
	return i.name
}

// Alloc reserves size bytes through the guest's allocate export.
func (i *Instance) Alloc(size uint32) (uint32, error) {
	return i.alloc.Alloc(size)
}

// Types returns the registry built at instantiation.
func (i *Instance) Types() *asc.Registry {
	return i.types
}

// SetContext sets the context guest allocations run under until the next
// Call. Marshal arguments after SetContext so their allocate calls see the
// caller's context.
func (i *Instance) SetContext(ctx context.Context) {
	i.alloc.Ctx = ctx
}

// Call invokes an export with raw i32 arguments. A guest trap, including one
// raised by a host import, is returned as an error carrying *errors.Trap.
func (i *Instance) Call(ctx context.Context, name string, args ...uint64) ([]uint64, error) {
	if i.mod == nil {
		return nil, errors.NotInitialized(errors.PhaseGuest, "instance")
	}
	fn := i.mod.ExportedFunction(name)
	if fn == nil {
		return nil, errors.NotFound(errors.PhaseGuest, "export", name)
	}
	if want := len(fn.Definition().ParamTypes()); want != len(args) {
		return nil, errors.New(errors.PhaseGuest, errors.KindInvalidInput).
			Detail("%s takes %d argument(s), got %d", name, want, len(args)).
			Build()
	}

	i.SetContext(ctx)
	results, err := fn.Call(ctx, args...)
	if err != nil {
		if !errors.IsTrap(err) {
			err = &errors.Trap{Kind: errors.KindGuestTrap, Detail: name, Cause: err}
		}
		Logger().Warn("guest call trapped",
			zap.String("module", i.name),
			zap.String("export", name),
			zap.Error(err))
		return nil, err
	}
	return results, nil
}

// Close releases the guest.
func (i *Instance) Close(ctx context.Context) error {
	if i.mod == nil {
		return nil
	}
	i.engine.instances.Delete(i.name)
	err := i.mod.Close(ctx)
	i.mod = nil
	return err
}
