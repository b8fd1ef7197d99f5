package asc

import "fmt"

// Ptr is an offset into linear memory pointing at an object body.
type Ptr uint32

// Null is AssemblyScript's null.
const Null Ptr = 0

// IsNull reports whether p is the null pointer.
func (p Ptr) IsNull() bool {
	return p == Null
}

// Offset returns p advanced by n bytes as a raw memory offset.
func (p Ptr) Offset(n uint32) uint32 {
	return uint32(p) + n
}

func (p Ptr) String() string {
	return fmt.Sprintf("0x%x", uint32(p))
}
