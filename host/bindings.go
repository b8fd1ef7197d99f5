package host

import (
	"context"
	"fmt"

	b58 "github.com/mr-tron/base58/base58"
	"go.uber.org/zap"
	"golang.org/x/crypto/sha3"

	"github.com/wippyai/ascabi/asc"
	"github.com/wippyai/ascabi/errors"
)

// ModuleName is the import module every binding lives in.
const ModuleName = "env"

// Import names as the guest declares them.
const (
	ImportKeccak256        = "crypto.keccak256"
	ImportBigIntToHex      = "typeConversion.bigIntToHex"
	ImportBigIntToString   = "typeConversion.bigIntToString"
	ImportBytesToBase58    = "typeConversion.bytesToBase58"
	ImportEthereumCall     = "ethereum.call"
	ImportDataSourceCreate = "dataSource.create"
	ImportAbort            = "abort"
)

// Signature describes an import in terms of i32 parameters and results.
type Signature struct {
	Name    string
	Params  int
	Results int
}

// Signatures lists every import Bindings provides.
var Signatures = []Signature{
	{ImportKeccak256, 1, 1},
	{ImportBigIntToHex, 1, 1},
	{ImportBigIntToString, 1, 1},
	{ImportBytesToBase58, 1, 1},
	{ImportEthereumCall, 1, 1},
	{ImportDataSourceCreate, 2, 0},
	{ImportAbort, 4, 0},
}

// Bindings implements the host imports over any guest heap.
type Bindings struct {
	Caller      ContractCaller
	DataSources *DataSources
}

// NewBindings creates bindings with an empty data-source registry.
func NewBindings(caller ContractCaller) (*Bindings, error) {
	ds, err := NewDataSources()
	if err != nil {
		return nil, err
	}
	return &Bindings{Caller: caller, DataSources: ds}, nil
}

func readBytes(h asc.Heap, p asc.Ptr) ([]byte, error) {
	if err := asc.CheckTag(h, h.Types(), p, asc.TagUint8Array); err != nil {
		return nil, err
	}
	return asc.ReadUint8Array(h, p)
}

func readString(h asc.Heap, p asc.Ptr) (string, error) {
	if err := asc.CheckTag(h, h.Types(), p, asc.TagString); err != nil {
		return "", err
	}
	return asc.ReadString(h, p)
}

// Keccak256 hashes the input bytes with legacy Keccak-256.
func (b *Bindings) Keccak256(_ context.Context, h asc.Heap, input asc.Ptr) (asc.Ptr, error) {
	data, err := readBytes(h, input)
	if err != nil {
		return asc.Null, err
	}
	hash := sha3.NewLegacyKeccak256()
	hash.Write(data)
	Logger().Debug("host import",
		zap.String("import", ImportKeccak256),
		zap.Uint32("ptr", uint32(input)),
		zap.Int("len", len(data)))
	return asc.NewUint8Array(h, hash.Sum(nil))
}

// BigIntToHex formats a signed integer as 0x followed by lower-case hex
// digits. The sign, if any, follows the prefix.
func (b *Bindings) BigIntToHex(_ context.Context, h asc.Heap, n asc.Ptr) (asc.Ptr, error) {
	raw, err := readBytes(h, n)
	if err != nil {
		return asc.Null, err
	}
	s := "0x" + asc.BigIntFromBytes(raw).Text(16)
	Logger().Debug("host import", zap.String("import", ImportBigIntToHex), zap.String("result", s))
	return asc.NewString(h, s)
}

// BigIntToString formats a signed integer in base 10.
func (b *Bindings) BigIntToString(_ context.Context, h asc.Heap, n asc.Ptr) (asc.Ptr, error) {
	raw, err := readBytes(h, n)
	if err != nil {
		return asc.Null, err
	}
	s := asc.BigIntFromBytes(raw).String()
	Logger().Debug("host import", zap.String("import", ImportBigIntToString), zap.String("result", s))
	return asc.NewString(h, s)
}

// BytesToBase58 encodes the bytes with the Bitcoin base58 alphabet.
func (b *Bindings) BytesToBase58(_ context.Context, h asc.Heap, p asc.Ptr) (asc.Ptr, error) {
	raw, err := readBytes(h, p)
	if err != nil {
		return asc.Null, err
	}
	s := b58.Encode(raw)
	Logger().Debug("host import", zap.String("import", ImportBytesToBase58), zap.String("result", s))
	return asc.NewString(h, s)
}

// EthereumCall runs a contract call through the Caller. An absent result is
// the null pointer; an empty one is an empty Array<Uint8Array>.
func (b *Bindings) EthereumCall(ctx context.Context, h asc.Heap, address asc.Ptr) (asc.Ptr, error) {
	if b.Caller == nil {
		return asc.Null, errors.NotInitialized(errors.PhaseHost, "contract caller")
	}
	addr, err := readBytes(h, address)
	if err != nil {
		return asc.Null, err
	}
	result, ok, err := b.Caller.Call(ctx, addr)
	if err != nil {
		return asc.Null, err
	}
	Logger().Debug("host import",
		zap.String("import", ImportEthereumCall),
		zap.Binary("address", addr),
		zap.Bool("found", ok),
		zap.Int("items", len(result)))
	if !ok {
		return asc.Null, nil
	}
	return asc.NewBytesArray(h, result)
}

// DataSourceCreate registers a data source named by a string with string
// parameters. Nothing is returned to the guest.
func (b *Bindings) DataSourceCreate(ctx context.Context, h asc.Heap, name, params asc.Ptr) error {
	if b.DataSources == nil {
		return errors.NotInitialized(errors.PhaseHost, "data source registry")
	}
	n, err := readString(h, name)
	if err != nil {
		return err
	}
	if err := asc.CheckTag(h, h.Types(), params, asc.TagArrayString); err != nil {
		return err
	}
	ps, err := asc.ReadStringArray(h, params)
	if err != nil {
		return err
	}
	ds, err := b.DataSources.Create(ctx, n, ps)
	if err != nil {
		return err
	}
	Logger().Debug("host import",
		zap.String("import", ImportDataSourceCreate),
		zap.String("name", ds.Name),
		zap.String("id", ds.ID),
		zap.Strings("params", ds.Params))
	return nil
}

// Abort turns a guest abort into a trap carrying its message and location.
// Either string may be null.
func (b *Bindings) Abort(_ context.Context, h asc.Heap, msg, file asc.Ptr, line, column uint32) error {
	text := func(p asc.Ptr) string {
		if p.IsNull() {
			return ""
		}
		s, err := asc.ReadString(h, p)
		if err != nil {
			return "<" + err.Error() + ">"
		}
		return s
	}
	m, f := text(msg), text(file)
	Logger().Warn("guest abort",
		zap.String("message", m),
		zap.String("file", f),
		zap.Uint32("line", line),
		zap.Uint32("column", column))
	return &errors.Trap{
		Kind:   errors.KindAbort,
		Detail: fmt.Sprintf("%s at %s:%d:%d", m, f, line, column),
	}
}
