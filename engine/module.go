package engine

import (
	"context"
	"sort"

	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"

	"github.com/wippyai/ascabi/asc"
	"github.com/wippyai/ascabi/errors"
	"github.com/wippyai/ascabi/guest"
	"github.com/wippyai/ascabi/memory"
)

// Module is a compiled guest. It is safe for concurrent use and may be
// instantiated any number of times.
type Module struct {
	engine   *Engine
	compiled wazero.CompiledModule
}

// Exports lists the exported function names.
func (m *Module) Exports() []string {
	funcs := m.compiled.ExportedFunctions()
	names := make([]string, 0, len(funcs))
	for name := range funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Instantiate creates a running instance and builds its type registry by
// asking id_of_type once per known tag.
func (m *Module) Instantiate(ctx context.Context) (*Instance, error) {
	name := m.engine.nextName()
	mod, err := m.engine.runtime.InstantiateModule(ctx, m.compiled, wazero.NewModuleConfig().WithName(name))
	if err != nil {
		return nil, errors.Instantiation(err)
	}

	inst := &Instance{
		Wrapper: memory.WrapMemory(mod.ExportedMemory(ExportMemory)),
		engine:  m.engine,
		mod:     mod,
		name:    name,
		alloc:   &memory.ExportAllocator{Ctx: ctx, Fn: mod.ExportedFunction(guest.ExportAllocate)},
	}

	idOf := mod.ExportedFunction(guest.ExportIDOfType)
	inst.types, err = asc.BuildRegistry(func(tag asc.TypeTag) (asc.TypeID, error) {
		res, err := idOf.Call(ctx, uint64(tag))
		if err != nil {
			return asc.NoTypeID, err
		}
		if len(res) == 0 {
			return asc.NoTypeID, errors.InvalidData(errors.PhaseRegistry, []string{guest.ExportIDOfType}, "no result")
		}
		return asc.TypeID(uint32(res[0])), nil
	})
	if err != nil {
		_ = mod.Close(ctx)
		return nil, errors.Wrap(errors.PhaseRegistry, errors.KindUnknownType, err, "build type registry")
	}

	m.engine.instances.Store(name, inst)
	Logger().Debug("instantiated guest",
		zap.String("module", name),
		zap.Uint32("memory", inst.Size()),
		zap.Int("types", len(inst.types.Tags())))
	return inst, nil
}

// Close releases the compiled code.
func (m *Module) Close(ctx context.Context) error {
	return m.compiled.Close(ctx)
}
