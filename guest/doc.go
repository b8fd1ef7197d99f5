// Package guest is an in-process AssemblyScript guest.
//
// A Module owns a linear memory, a bump allocator and a fixed type registry,
// and exports the operations a compiled guest would: allocate, id_of_type,
// the byte-sequence and string operations, test_array, and forwarders that
// call the host imports. Exports are invoked by name through Module.Call
// with raw pointer arguments, exactly as a host would call a WebAssembly
// instance.
//
// Out-of-bounds indexing, allocation failure, host import failure and abort
// are traps. They unwind the export with a panic and come back from Call as
// an *errors.Trap. Nothing else recovers them.
package guest
