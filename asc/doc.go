// Package asc describes how AssemblyScript values are laid out in a guest's
// linear memory and reads/writes them from Go.
//
// Every managed object is preceded by a 20-byte common header
//
//	[mmInfo u32][gcInfo u32][gcInfo2 u32][rtId u32][rtSize u32]
//
// and a Ptr addresses the first body byte. The rtId is the TypeID that the
// guest's Registry assigns to the object's class; rtSize is the body size.
//
// Bodies:
//
//	ArrayBuffer  [byteLength u32][reserved u32][bytes...]
//	Uint8Array   [buffer Ptr][byteOffset u32][byteLength u32]
//	String       [length u32][UTF-16LE code units...]
//	Array<T>     [buffer Ptr][length u32]           buffer holds u32 pointers
//	Value        [kind u32][padding u32][payload u64]
//
// All integers are little-endian and the null pointer is 0.
//
// The functions here work on any Heap, so the same code marshals values for
// an in-process guest and for a wazero instance.
package asc
