package engine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/ascabi/asc"
	"github.com/wippyai/ascabi/errors"
	"github.com/wippyai/ascabi/guest"
	"github.com/wippyai/ascabi/host"
)

// ExportMemory is the name a guest must export its linear memory under.
const ExportMemory = "memory"

// Engine runs AssemblyScript guests on wazero. The host imports are
// instantiated once as module "env" and shared by every guest.
// Engine is safe for concurrent use.
type Engine struct {
	runtime   wazero.Runtime
	config    Config
	imports   guest.Imports
	instances sync.Map // module name -> *Instance
	nextID    atomic.Uint64
	closed    atomic.Bool
}

// New creates an engine whose guests link against imports.
func New(ctx context.Context, cfg Config, imports guest.Imports) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if imports == nil {
		return nil, errors.NotInitialized(errors.PhaseLoad, "host imports")
	}

	runtimeCfg := wazero.NewRuntimeConfig()
	if cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}

	e := &Engine{
		runtime: wazero.NewRuntimeWithConfig(ctx, runtimeCfg),
		config:  cfg,
		imports: imports,
	}
	if err := e.instantiateHost(ctx); err != nil {
		return nil, multierr.Append(err, e.runtime.Close(ctx))
	}
	return e, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.config
}

func (e *Engine) instantiateHost(ctx context.Context) error {
	b := e.runtime.NewHostModuleBuilder(host.ModuleName)
	for _, sig := range host.Signatures {
		b.NewFunctionBuilder().
			WithGoModuleFunction(e.hostFunc(sig.Name), i32s(sig.Params), i32s(sig.Results)).
			WithName(sig.Name).
			Export(sig.Name)
	}
	if _, err := b.Instantiate(ctx); err != nil {
		return errors.Wrap(errors.PhaseLoad, errors.KindInstantiation, err, "instantiate host module "+host.ModuleName)
	}
	return nil
}

func i32s(n int) []api.ValueType {
	if n == 0 {
		return nil
	}
	out := make([]api.ValueType, n)
	for i := range out {
		out[i] = api.ValueTypeI32
	}
	return out
}

// hostFunc adapts one import to wazero. Failures panic; wazero unwinds the
// guest and hands the panic value back from the export call.
func (e *Engine) hostFunc(name string) api.GoModuleFunc {
	return func(ctx context.Context, mod api.Module, stack []uint64) {
		inst, ok := e.instance(mod)
		if !ok {
			panic(&errors.Trap{
				Kind:  errors.KindImportFailed,
				Cause: errors.NotFound(errors.PhaseHost, "instance", mod.Name()),
			})
		}

		var (
			result asc.Ptr
			err    error
		)
		arg := func(i int) asc.Ptr { return asc.Ptr(uint32(stack[i])) }

		switch name {
		case host.ImportKeccak256:
			result, err = e.imports.Keccak256(ctx, inst, arg(0))
		case host.ImportBigIntToHex:
			result, err = e.imports.BigIntToHex(ctx, inst, arg(0))
		case host.ImportBigIntToString:
			result, err = e.imports.BigIntToString(ctx, inst, arg(0))
		case host.ImportBytesToBase58:
			result, err = e.imports.BytesToBase58(ctx, inst, arg(0))
		case host.ImportEthereumCall:
			result, err = e.imports.EthereumCall(ctx, inst, arg(0))
		case host.ImportDataSourceCreate:
			err = e.imports.DataSourceCreate(ctx, inst, arg(0), arg(1))
		case host.ImportAbort:
			err = e.imports.Abort(ctx, inst, arg(0), arg(1), uint32(stack[2]), uint32(stack[3]))
			if err == nil {
				err = &errors.Trap{Kind: errors.KindAbort, Detail: "abort"}
			}
		default:
			err = errors.NotFound(errors.PhaseHost, "import", name)
		}

		if err != nil {
			if errors.IsTrap(err) {
				errors.Throw(err)
			}
			panic(&errors.Trap{Kind: errors.KindImportFailed, Cause: errors.ImportFailed(name, err)})
		}
		if len(stack) > 0 {
			stack[0] = uint64(result)
		}
	}
}

func (e *Engine) instance(mod api.Module) (*Instance, bool) {
	v, ok := e.instances.Load(mod.Name())
	if !ok {
		return nil, false
	}
	return v.(*Instance), true
}

func (e *Engine) nextName() string {
	return fmt.Sprintf("guest-%d", e.nextID.Add(1))
}

// Compile compiles a guest and checks that it exports what the host needs
// to marshal values.
func (e *Engine) Compile(ctx context.Context, wasm []byte) (*Module, error) {
	if e.closed.Load() {
		return nil, errors.NotInitialized(errors.PhaseLoad, "engine")
	}
	compiled, err := e.runtime.CompileModule(ctx, wasm)
	if err != nil {
		return nil, errors.Load("compile guest", err)
	}

	var missing []string
	funcs := compiled.ExportedFunctions()
	for _, name := range []string{guest.ExportAllocate, guest.ExportIDOfType} {
		if _, ok := funcs[name]; !ok {
			missing = append(missing, name)
		}
	}
	if _, ok := compiled.ExportedMemories()[ExportMemory]; !ok {
		missing = append(missing, ExportMemory)
	}
	if len(missing) > 0 {
		return nil, multierr.Append(errors.NewMissingExportsError(missing), compiled.Close(ctx))
	}

	Logger().Debug("compiled guest",
		zap.Int("size", len(wasm)),
		zap.Int("exports", len(funcs)))
	return &Module{engine: e, compiled: compiled}, nil
}

// Close closes every instance and the runtime.
func (e *Engine) Close(ctx context.Context) error {
	if !e.closed.CompareAndSwap(false, true) {
		return nil
	}
	var err error
	e.instances.Range(func(_, v any) bool {
		err = multierr.Append(err, v.(*Instance).Close(ctx))
		return true
	})
	return multierr.Append(err, e.runtime.Close(ctx))
}
