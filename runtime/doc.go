// Package runtime provides typed calls into AssemblyScript guests.
//
// # Quick Start
//
//	ctx := context.Background()
//	rt, err := runtime.New(ctx, engine.DefaultConfig(), caller)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close(ctx)
//
//	mod, err := rt.Load(ctx, wasmBytes)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	inst, err := mod.Instantiate(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer inst.Close(ctx)
//
//	digest, err := inst.CallBytes(ctx, "hash", []byte("abc"))
//
// # Arguments
//
// Call arguments are marshaled into guest objects before the call:
//
//	[]byte      Uint8Array
//	string      String
//	[]string    Array<String>
//	[][]byte    Array<Uint8Array>
//	asc.Value   Value
//	asc.Ptr     passed through unchanged
//
// Results are checked against the guest's type registry before they are
// decoded, so a guest returning the wrong class fails with a type mismatch
// rather than garbage.
//
// # In-process guests
//
// Runtime.NewGuest returns an Instance backed by guest.Module, a Go
// rendition of the test guest linked against the same host bindings. It
// runs without a wasm binary.
package runtime
