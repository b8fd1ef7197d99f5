package runtime

import (
	"context"

	"github.com/wippyai/ascabi/engine"
	"github.com/wippyai/ascabi/errors"
)

// Module is a compiled guest.
type Module struct {
	mod *engine.Module
}

// Exports lists the exported function names.
func (m *Module) Exports() []string {
	return m.mod.Exports()
}

// Instantiate creates a running instance.
func (m *Module) Instantiate(ctx context.Context) (*Instance, error) {
	if m.mod == nil {
		return nil, errors.NotInitialized(errors.PhaseLoad, "module")
	}
	inst, err := m.mod.Instantiate(ctx)
	if err != nil {
		return nil, err
	}
	return NewInstance(inst, inst.Close), nil
}

// Close releases the compiled code. Running instances are unaffected.
func (m *Module) Close(ctx context.Context) error {
	return m.mod.Close(ctx)
}
