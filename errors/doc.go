// Package errors provides the two error channels of the ABI boundary.
//
// Recoverable conditions are reported as *Error values categorized by Phase
// (where the error occurred) and Kind (error category), with optional path,
// Go/asc type names and a cause chain:
//
//	err := errors.New(errors.PhaseDecode, errors.KindTypeMismatch).
//		GoType("int32").
//		AscType("Value<String>").
//		Detail("payload read under the wrong kind").
//		Build()
//
// Fatal faults (out-of-bounds access, allocation failure, abort) are raised
// as a *Trap panic inside guest code and recovered only at the invocation
// boundary:
//
//	func (m *Module) Invoke(name string, args ...uint32) (res uint32, err error) {
//		defer errors.Recover(&err)
//		...
//	}
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
