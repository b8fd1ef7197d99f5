package errors

import (
	"fmt"
	"sort"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseAlloc    Phase = "alloc"    // guest memory reservation
	PhaseRegistry Phase = "registry" // type id lookup
	PhaseEncode   Phase = "encode"   // Go to guest memory
	PhaseDecode   Phase = "decode"   // guest memory to Go
	PhaseGuest    Phase = "guest"    // guest export execution
	PhaseHost     Phase = "host"     // host import execution
	PhaseLoad     Phase = "load"     // module compilation and instantiation
	PhaseConfig   Phase = "config"   // configuration loading
)

// Kind categorizes the error
type Kind string

const (
	KindTypeMismatch   Kind = "type_mismatch"
	KindOutOfBounds    Kind = "out_of_bounds"
	KindInvalidData    Kind = "invalid_data"
	KindAllocation     Kind = "allocation"
	KindNullPointer    Kind = "null_pointer"
	KindInvalidKind    Kind = "invalid_kind"
	KindUnknownType    Kind = "unknown_type"
	KindMissingExport  Kind = "missing_export"
	KindNotFound       Kind = "not_found"
	KindInvalidInput   Kind = "invalid_input"
	KindImportFailed   Kind = "import_failed"
	KindAbort          Kind = "abort"
	KindInstantiation  Kind = "instantiation"
	KindNotInitialized Kind = "not_initialized"
	KindGuestTrap      Kind = "guest_trap"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value   any
	Cause   error
	Phase   Phase
	Kind    Kind
	GoType  string
	AscType string
	Detail  string
	Path    []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.GoType != "" || e.AscType != "" {
		b.WriteString(": ")
		if e.GoType != "" && e.AscType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
			b.WriteString(", asc type ")
			b.WriteString(e.AscType)
		} else if e.GoType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		} else {
			b.WriteString("asc type ")
			b.WriteString(e.AscType)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.AscType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// AscType sets the guest-side type name
func (b *Builder) AscType(t string) *Builder {
	b.err.AscType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, goType, ascType string) *Error {
	return &Error{
		Phase:   phase,
		Kind:    KindTypeMismatch,
		Path:    path,
		GoType:  goType,
		AscType: ascType,
	}
}

// AllocationFailed creates an allocation failure error
func AllocationFailed(phase Phase, size uint32, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes", size),
		Cause:  cause,
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, path []string, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

// MemoryOutOfBounds creates an error for an access outside linear memory
func MemoryOutOfBounds(offset, length uint32) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("memory access out of bounds: offset=%d, length=%d", offset, length),
		Value:  offset,
	}
}

// NullPointer creates an error for a dereferenced null guest pointer
func NullPointer(phase Phase, ascType string) *Error {
	return &Error{
		Phase:   phase,
		Kind:    KindNullPointer,
		AscType: ascType,
		Detail:  "null pointer",
	}
}

// InvalidKind creates an error for a value discriminant outside the known set
func InvalidKind(phase Phase, kind uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidKind,
		Detail: fmt.Sprintf("value kind %d out of range", kind),
		Value:  kind,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// NotInitialized creates a not-initialized error
func NotInitialized(phase Phase, component string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotInitialized,
		Detail: fmt.Sprintf("%s not initialized", component),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// ImportFailed creates an error for a host import whose collaborator failed
func ImportFailed(name string, cause error) *Error {
	return &Error{
		Phase:  PhaseHost,
		Kind:   KindImportFailed,
		Detail: name,
		Cause:  cause,
	}
}

// Instantiation creates an instantiation error
func Instantiation(cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInstantiation,
		Detail: "instantiate module",
		Cause:  cause,
	}
}

// Load creates a module loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}

// MissingExportsError is returned when a guest module lacks exports the
// host requires to marshal values (allocate, id_of_type, memory). It
// matches an *Error of PhaseLoad and KindMissingExport under errors.Is.
type MissingExportsError struct {
	Exports []string
}

// Kind returns KindMissingExport.
func (e *MissingExportsError) Kind() Kind {
	return KindMissingExport
}

// Phase returns PhaseLoad.
func (e *MissingExportsError) Phase() Phase {
	return PhaseLoad
}

// NewMissingExportsError creates an error from the missing export names
func NewMissingExportsError(exports []string) *MissingExportsError {
	sorted := append([]string(nil), exports...)
	sort.Strings(sorted)
	return &MissingExportsError{Exports: sorted}
}

func (e *MissingExportsError) Error() string {
	if len(e.Exports) == 0 {
		return "[" + string(PhaseLoad) + "] " + string(KindMissingExport) + ": no exports specified"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("guest is missing %d required export(s):\n", len(e.Exports)))
	for _, name := range e.Exports {
		b.WriteString("  - ")
		b.WriteString(name)
		b.WriteByte('\n')
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Is reports whether target matches this error type
func (e *MissingExportsError) Is(target error) bool {
	switch t := target.(type) {
	case *MissingExportsError:
		return true
	case *Error:
		return t.Phase == PhaseLoad && t.Kind == KindMissingExport
	}
	return false
}
