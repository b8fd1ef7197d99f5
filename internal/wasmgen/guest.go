package wasmgen

// Reference guest layout.
const (
	// HeapBase is where the reference guest's allocator starts.
	HeapBase = 1024

	// TypeIDOffset is added to a type tag to form its class id, so the
	// reference guest's ids differ from the in-process defaults.
	TypeIDOffset = 1

	knownTags = 5
)

// GuestOptions sizes the reference guest's memory.
type GuestOptions struct {
	MinPages uint32
	MaxPages uint32
}

// Function types of the reference guest.
const (
	typeUnary uint32 = iota // (i32) -> i32
	typePair                // (i32, i32) -> ()
	typeAbort               // (i32, i32, i32, i32) -> ()
	typeVoid                // () -> ()
)

// Imported functions, in import order.
const (
	fnKeccak256 uint32 = iota
	fnBigIntToHex
	fnBigIntToString
	fnBytesToBase58
	fnEthereumCall
	fnDataSourceCreate
	fnAbort
	importCount
)

// ReferenceGuest assembles a guest that exports memory, allocate,
// id_of_type, test_address, test_uint, the import forwarders (hash,
// big_int_to_hex, big_int_to_string, bytes_to_base58, callContract,
// dataSourceCreate) and abort_now, which calls the abort import.
//
// allocate is a bump pointer over an 8-byte aligned heap starting at
// HeapBase; it traps instead of growing memory. id_of_type answers
// tag+TypeIDOffset for the five known tags and 0 otherwise. test_address and
// test_uint increment bytes of their argument in place and return the same
// Uint8Array.
func ReferenceGuest(opts GuestOptions) []byte {
	if opts.MinPages == 0 {
		opts.MinPages = 1
	}
	if opts.MaxPages < opts.MinPages {
		opts.MaxPages = opts.MinPages
	}
	maxPages := opts.MaxPages

	m := &Module{
		Types: []FuncType{
			typeUnary: {Params: []byte{ValI32}, Results: []byte{ValI32}},
			typePair:  {Params: []byte{ValI32, ValI32}},
			typeAbort: {Params: []byte{ValI32, ValI32, ValI32, ValI32}},
			typeVoid:  {},
		},
		Imports: []Import{
			fnKeccak256:        {"env", "crypto.keccak256", typeUnary},
			fnBigIntToHex:      {"env", "typeConversion.bigIntToHex", typeUnary},
			fnBigIntToString:   {"env", "typeConversion.bigIntToString", typeUnary},
			fnBytesToBase58:    {"env", "typeConversion.bytesToBase58", typeUnary},
			fnEthereumCall:     {"env", "ethereum.call", typeUnary},
			fnDataSourceCreate: {"env", "dataSource.create", typePair},
			fnAbort:            {"env", "abort", typeAbort},
		},
		Memory:  &Limits{Min: opts.MinPages, Max: &maxPages},
		Globals: []Global{{Mutable: true, Init: HeapBase}},
	}

	define := func(name string, f Func) {
		idx := importCount + uint32(len(m.Funcs))
		m.Funcs = append(m.Funcs, f)
		m.Exports = append(m.Exports, Export{Name: name, Kind: KindFunc, Idx: idx})
	}
	forward := func(name string, fn uint32) {
		define(name, Func{Type: typeUnary, Body: NewCode().LocalGet(0).Call(fn)})
	}

	m.Exports = append(m.Exports, Export{Name: "memory", Kind: KindMemory, Idx: 0})
	define("allocate", Func{Type: typeUnary, Locals: []byte{ValI32, ValI32}, Body: allocateBody()})
	define("id_of_type", Func{Type: typeUnary, Body: idOfTypeBody()})
	define("test_address", Func{Type: typeUnary, Locals: []byte{ValI32, ValI32}, Body: bumpBody(true)})
	define("test_uint", Func{Type: typeUnary, Locals: []byte{ValI32, ValI32}, Body: bumpBody(false)})
	forward("hash", fnKeccak256)
	forward("big_int_to_hex", fnBigIntToHex)
	forward("big_int_to_string", fnBigIntToString)
	forward("bytes_to_base58", fnBytesToBase58)
	forward("callContract", fnEthereumCall)
	define("dataSourceCreate", Func{Type: typePair, Body: NewCode().LocalGet(0).LocalGet(1).Call(fnDataSourceCreate)})
	define("abort_now", Func{Type: typeVoid, Body: NewCode().
		I32Const(0).I32Const(0).I32Const(7).I32Const(3).Call(fnAbort).
		Unreachable()})

	return m.Encode()
}

// allocateBody: local 0 = size, 1 = ptr, 2 = end.
func allocateBody() *Code {
	c := NewCode()
	// size larger than the whole memory
	c.LocalGet(0).MemorySize().I32Const(16).Shl().GtU().TrapIf()

	c.GlobalGet(0).LocalSet(1)
	// end = ptr + align8(size)
	c.LocalGet(1).LocalGet(0).I32Const(7).Add().I32Const(-8).And().Add().LocalSet(2)
	// zero-sized blocks still take one unit
	c.LocalGet(0).Eqz().If().LocalGet(1).I32Const(8).Add().LocalSet(2).End()
	// past the end of memory, or wrapped
	c.LocalGet(2).MemorySize().I32Const(16).Shl().GtU().
		LocalGet(2).LocalGet(1).LtU().
		Or().TrapIf()

	c.LocalGet(2).GlobalSet(0)
	c.LocalGet(1)
	return c
}

func idOfTypeBody() *Code {
	return NewCode().
		LocalGet(0).I32Const(knownTags).LtU().
		IfResult(ValI32).
		LocalGet(0).I32Const(TypeIDOffset).Add().
		Else().
		I32Const(0).
		End()
}

// bumpBody: local 0 = Uint8Array, 1 = data offset, 2 = length.
func bumpBody(last bool) *Code {
	c := NewCode()
	c.LocalGet(0).I32Load(8).LocalSet(2)
	c.LocalGet(2).Eqz().TrapIf()
	// data = buffer + 8 + byteOffset
	c.LocalGet(0).I32Load(0).LocalGet(0).I32Load(4).Add().I32Const(8).Add().LocalSet(1)
	c.LocalGet(1).LocalGet(1).I32Load8U(0).I32Const(1).Add().I32Store8(0)
	if last {
		c.LocalGet(1).LocalGet(2).Add().I32Const(1).Sub().LocalSet(1)
		c.LocalGet(1).LocalGet(1).I32Load8U(0).I32Const(1).Add().I32Store8(0)
	}
	c.LocalGet(0)
	return c
}
