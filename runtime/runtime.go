package runtime

import (
	"context"

	"github.com/wippyai/ascabi/engine"
	"github.com/wippyai/ascabi/errors"
	"github.com/wippyai/ascabi/guest"
	"github.com/wippyai/ascabi/host"
)

// Runtime owns an engine and the host bindings its guests link against.
// It is safe for concurrent use.
type Runtime struct {
	engine   *engine.Engine
	bindings *host.Bindings
	config   engine.Config
}

// New creates a runtime. caller serves ethereum.call and may be nil, in
// which case that import fails.
func New(ctx context.Context, cfg engine.Config, caller host.ContractCaller) (*Runtime, error) {
	if cfg.LogLevel != "" {
		l, err := cfg.NewLogger()
		if err != nil {
			return nil, err
		}
		engine.SetLogger(l)
		host.SetLogger(l)
	}

	bindings, err := host.NewBindings(caller)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindNotInitialized, err, "create host bindings")
	}
	eng, err := engine.New(ctx, cfg, bindings)
	if err != nil {
		return nil, err
	}

	return &Runtime{
		engine:   eng,
		bindings: bindings,
		config:   cfg,
	}, nil
}

// Bindings returns the host imports shared by every guest.
func (r *Runtime) Bindings() *host.Bindings {
	return r.bindings
}

// DataSources returns the registry dataSource.create writes to.
func (r *Runtime) DataSources() *host.DataSources {
	return r.bindings.DataSources
}

// Load compiles a guest binary.
func (r *Runtime) Load(ctx context.Context, wasm []byte) (*Module, error) {
	mod, err := r.engine.Compile(ctx, wasm)
	if err != nil {
		return nil, err
	}
	return &Module{mod: mod}, nil
}

// NewGuest creates an in-process guest sized by the runtime config.
func (r *Runtime) NewGuest() (*Instance, error) {
	g, err := guest.New(r.bindings, r.config.GuestOptions())
	if err != nil {
		return nil, err
	}
	return NewInstance(g, nil), nil
}

// Close releases all runtime resources, including open instances.
func (r *Runtime) Close(ctx context.Context) error {
	return r.engine.Close(ctx)
}
