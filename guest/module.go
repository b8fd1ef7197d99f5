package guest

import (
	"context"
	"sort"

	"github.com/wippyai/ascabi/asc"
	"github.com/wippyai/ascabi/errors"
	"github.com/wippyai/ascabi/memory"
)

// Options configures the memory of a Module.
type Options struct {
	// TypeIDs overrides the ids reported by id_of_type. Nil uses
	// asc.DefaultTypeIDs.
	TypeIDs map[asc.TypeTag]asc.TypeID

	// HeapBase is the offset of the first allocation.
	HeapBase uint32

	// InitialPages is the memory size at creation.
	InitialPages uint32

	// MaxPages caps memory growth. 0 means the 4GiB maximum.
	MaxPages uint32
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		HeapBase:     memory.DefaultHeapBase,
		InitialPages: 1,
		MaxPages:     256,
	}
}

// export is the calling convention shared by every export: raw stack values
// in, raw stack values out.
type export struct {
	fn      func(ctx context.Context, args []uint64) []uint64
	params  int
	results int
}

// Module is an instantiated guest. It implements asc.Heap so host code can
// marshal arguments into its memory. It is not safe for concurrent use.
type Module struct {
	*memory.Linear
	alloc   *memory.Bump
	types   *asc.Registry
	imports Imports
	exports map[string]export
	views   map[asc.Ptr]struct{} // Uint8Arrays made by Subarray
}

// New instantiates a guest linked against imports. imports may be nil; the
// forwarding exports then trap.
func New(imports Imports, opts Options) (*Module, error) {
	if opts.HeapBase == 0 {
		opts.HeapBase = memory.DefaultHeapBase
	}
	if opts.InitialPages == 0 {
		opts.InitialPages = 1
	}

	mem, err := memory.NewLinear(opts.InitialPages, opts.MaxPages)
	if err != nil {
		return nil, err
	}
	alloc, err := memory.NewBump(mem, opts.HeapBase)
	if err != nil {
		return nil, err
	}

	types := asc.DefaultRegistry()
	if opts.TypeIDs != nil {
		if types, err = asc.NewRegistry(opts.TypeIDs); err != nil {
			return nil, err
		}
	}

	m := &Module{
		Linear:  mem,
		alloc:   alloc,
		types:   types,
		imports: imports,
		views:   make(map[asc.Ptr]struct{}),
	}
	m.exports = m.exportTable()
	return m, nil
}

// Alloc implements ascabi.Allocator.
func (m *Module) Alloc(size uint32) (uint32, error) {
	return m.alloc.Alloc(size)
}

// Types returns the registry id_of_type answers from.
func (m *Module) Types() *asc.Registry {
	return m.types
}

// Used returns the number of heap bytes allocated so far.
func (m *Module) Used() uint32 {
	return m.alloc.Used()
}

// Exports lists the names Call accepts.
func (m *Module) Exports() []string {
	names := make([]string, 0, len(m.exports))
	for name := range m.exports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Call invokes the named export. A trap raised while it runs aborts the
// export and is returned as an *errors.Trap.
func (m *Module) Call(ctx context.Context, name string, args ...uint64) (results []uint64, err error) {
	exp, ok := m.exports[name]
	if !ok {
		return nil, errors.NotFound(errors.PhaseGuest, "export", name)
	}
	if len(args) != exp.params {
		return nil, errors.New(errors.PhaseGuest, errors.KindInvalidInput).
			Detail("%s takes %d argument(s), got %d", name, exp.params, len(args)).
			Build()
	}

	defer errors.Recover(&err)
	return exp.fn(ctx, args), nil
}
