package guest

import (
	"context"

	"github.com/wippyai/ascabi/asc"
	"github.com/wippyai/ascabi/errors"
)

// Imports is the host surface a guest links against. Arguments and results
// are objects in the calling guest's heap. A returned error traps the
// invocation that made the call.
type Imports interface {
	Keccak256(ctx context.Context, h asc.Heap, input asc.Ptr) (asc.Ptr, error)
	BigIntToHex(ctx context.Context, h asc.Heap, n asc.Ptr) (asc.Ptr, error)
	BigIntToString(ctx context.Context, h asc.Heap, n asc.Ptr) (asc.Ptr, error)
	BytesToBase58(ctx context.Context, h asc.Heap, b asc.Ptr) (asc.Ptr, error)
	EthereumCall(ctx context.Context, h asc.Heap, address asc.Ptr) (asc.Ptr, error)
	DataSourceCreate(ctx context.Context, h asc.Heap, name, params asc.Ptr) error
	Abort(ctx context.Context, h asc.Heap, msg, file asc.Ptr, line, column uint32) error
}

func (m *Module) linked() Imports {
	if m.imports == nil {
		panic(&errors.Trap{
			Kind:  errors.KindImportFailed,
			Cause: errors.NotInitialized(errors.PhaseGuest, "host imports"),
		})
	}
	return m.imports
}

func (m *Module) importFailed(name string, err error) {
	if err == nil {
		return
	}
	if errors.IsTrap(err) {
		errors.Throw(err)
	}
	panic(&errors.Trap{Kind: errors.KindImportFailed, Cause: errors.ImportFailed(name, err)})
}

// Hash forwards to crypto.keccak256.
func (m *Module) Hash(ctx context.Context, input asc.Ptr) asc.Ptr {
	p, err := m.linked().Keccak256(ctx, m, input)
	m.importFailed("crypto.keccak256", err)
	return p
}

// BigIntToHex forwards to typeConversion.bigIntToHex.
func (m *Module) BigIntToHex(ctx context.Context, n asc.Ptr) asc.Ptr {
	p, err := m.linked().BigIntToHex(ctx, m, n)
	m.importFailed("typeConversion.bigIntToHex", err)
	return p
}

// BigIntToString forwards to typeConversion.bigIntToString.
func (m *Module) BigIntToString(ctx context.Context, n asc.Ptr) asc.Ptr {
	p, err := m.linked().BigIntToString(ctx, m, n)
	m.importFailed("typeConversion.bigIntToString", err)
	return p
}

// BytesToBase58 forwards to typeConversion.bytesToBase58.
func (m *Module) BytesToBase58(ctx context.Context, b asc.Ptr) asc.Ptr {
	p, err := m.linked().BytesToBase58(ctx, m, b)
	m.importFailed("typeConversion.bytesToBase58", err)
	return p
}

// CallContract forwards to ethereum.call. The result is null when the call
// produced nothing.
func (m *Module) CallContract(ctx context.Context, address asc.Ptr) asc.Ptr {
	p, err := m.linked().EthereumCall(ctx, m, address)
	m.importFailed("ethereum.call", err)
	return p
}

// DataSourceCreate forwards to dataSource.create.
func (m *Module) DataSourceCreate(ctx context.Context, name, params asc.Ptr) {
	err := m.linked().DataSourceCreate(ctx, m, name, params)
	m.importFailed("dataSource.create", err)
}

// Abort reports a guest assertion failure to the host and traps. It does
// not return.
func (m *Module) Abort(ctx context.Context, msg, file asc.Ptr, line, column uint32) {
	err := m.linked().Abort(ctx, m, msg, file, line, column)
	if err == nil {
		err = &errors.Trap{Kind: errors.KindAbort, Detail: "abort"}
	}
	errors.Throw(err)
}
