// Package ascabi implements the value-marshaling ABI between a host and
// AssemblyScript guests, in the style of graph-node mappings.
//
// Guest objects live in linear memory behind a 20-byte header whose rtId
// field names the class. The host learns class ids by asking the guest's
// id_of_type export, never by assuming them.
//
// # Packages
//
//	ascabi/            Memory and Allocator interfaces
//	├── asc/           Object layouts: ArrayBuffer, Uint8Array, String, Array, Value
//	├── memory/        Linear memory, bump allocator and wazero adapters
//	├── guest/         In-process guest with the reference exports
//	├── host/          Host imports: keccak256, conversions, ethereum.call, dataSource.create
//	├── engine/        wazero runtime, the "env" host module and configuration
//	├── runtime/       Typed calls over engine and in-process guests
//	└── errors/        Structured errors and traps
//
// # Quick Start
//
//	rt, err := runtime.New(ctx, engine.DefaultConfig(), host.NewStaticCaller())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close(ctx)
//
//	mod, err := rt.Load(ctx, wasmBytes)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	inst, err := mod.Instantiate(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	s, err := inst.CallStringFromBytes(ctx, "big_int_to_string", []byte{0x18, 0xfc})
//
// # Failures
//
// Decoding helpers return *errors.Error values carrying a phase and a kind.
// Faults that must abort the guest, such as a failed import or an explicit
// abort, surface from the call as *errors.Trap.
package ascabi
