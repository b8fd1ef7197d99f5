package wasmgen

// Binary format constants.
const (
	Magic   uint32 = 0x6D736100
	Version uint32 = 0x01

	SectionType     byte = 1
	SectionImport   byte = 2
	SectionFunction byte = 3
	SectionMemory   byte = 5
	SectionGlobal   byte = 6
	SectionExport   byte = 7
	SectionCode     byte = 10

	KindFunc   byte = 0
	KindMemory byte = 2
	KindGlobal byte = 3

	FuncTypeByte byte = 0x60

	ValI32 byte = 0x7F
	ValI64 byte = 0x7E
)

// FuncType is a function signature.
type FuncType struct {
	Params  []byte
	Results []byte
}

// Import is a function import.
type Import struct {
	Module string
	Name   string
	Type   uint32
}

// Func is a defined function. Locals lists the type of each local beyond
// the parameters.
type Func struct {
	Type   uint32
	Locals []byte
	Body   *Code
}

// Limits bounds a memory in pages. Max of nil leaves it unbounded.
type Limits struct {
	Min uint32
	Max *uint32
}

// Global is a mutable or immutable i32 global.
type Global struct {
	Mutable bool
	Init    int32
}

// Export names a function, memory or global.
type Export struct {
	Name string
	Kind byte
	Idx  uint32
}

// Module is the subset of a WebAssembly module the generator emits:
// function imports, functions, one memory, i32 globals and exports.
type Module struct {
	Types   []FuncType
	Imports []Import
	Funcs   []Func
	Memory  *Limits
	Globals []Global
	Exports []Export
}

// Encode encodes the module to WebAssembly binary format.
func (m *Module) Encode() []byte {
	w := &Writer{}
	w.WriteU32LE(Magic)
	w.WriteU32LE(Version)

	if len(m.Types) > 0 {
		sec := &Writer{}
		sec.WriteU32(uint32(len(m.Types)))
		for _, ft := range m.Types {
			sec.Byte(FuncTypeByte)
			writeValTypes(sec, ft.Params)
			writeValTypes(sec, ft.Results)
		}
		writeSection(w, SectionType, sec.Bytes())
	}

	if len(m.Imports) > 0 {
		sec := &Writer{}
		sec.WriteU32(uint32(len(m.Imports)))
		for _, imp := range m.Imports {
			sec.WriteName(imp.Module)
			sec.WriteName(imp.Name)
			sec.Byte(KindFunc)
			sec.WriteU32(imp.Type)
		}
		writeSection(w, SectionImport, sec.Bytes())
	}

	if len(m.Funcs) > 0 {
		sec := &Writer{}
		sec.WriteU32(uint32(len(m.Funcs)))
		for _, f := range m.Funcs {
			sec.WriteU32(f.Type)
		}
		writeSection(w, SectionFunction, sec.Bytes())
	}

	if m.Memory != nil {
		sec := &Writer{}
		sec.WriteU32(1)
		if m.Memory.Max != nil {
			sec.Byte(0x01)
			sec.WriteU32(m.Memory.Min)
			sec.WriteU32(*m.Memory.Max)
		} else {
			sec.Byte(0x00)
			sec.WriteU32(m.Memory.Min)
		}
		writeSection(w, SectionMemory, sec.Bytes())
	}

	if len(m.Globals) > 0 {
		sec := &Writer{}
		sec.WriteU32(uint32(len(m.Globals)))
		for _, g := range m.Globals {
			sec.Byte(ValI32)
			if g.Mutable {
				sec.Byte(0x01)
			} else {
				sec.Byte(0x00)
			}
			sec.Byte(OpI32Const)
			sec.WriteS32(g.Init)
			sec.Byte(OpEnd)
		}
		writeSection(w, SectionGlobal, sec.Bytes())
	}

	if len(m.Exports) > 0 {
		sec := &Writer{}
		sec.WriteU32(uint32(len(m.Exports)))
		for _, exp := range m.Exports {
			sec.WriteName(exp.Name)
			sec.Byte(exp.Kind)
			sec.WriteU32(exp.Idx)
		}
		writeSection(w, SectionExport, sec.Bytes())
	}

	if len(m.Funcs) > 0 {
		sec := &Writer{}
		sec.WriteU32(uint32(len(m.Funcs)))
		for _, f := range m.Funcs {
			body := &Writer{}
			writeLocals(body, f.Locals)
			body.Byte(f.Body.Bytes()...)
			body.Byte(OpEnd)
			sec.WriteU32(uint32(body.Len()))
			sec.Byte(body.Bytes()...)
		}
		writeSection(w, SectionCode, sec.Bytes())
	}

	return w.Bytes()
}

func writeValTypes(w *Writer, types []byte) {
	w.WriteU32(uint32(len(types)))
	w.Byte(types...)
}

// writeLocals groups runs of equal types.
func writeLocals(w *Writer, locals []byte) {
	var groups [][2]uint32
	for _, t := range locals {
		if n := len(groups); n > 0 && groups[n-1][1] == uint32(t) {
			groups[n-1][0]++
			continue
		}
		groups = append(groups, [2]uint32{1, uint32(t)})
	}
	w.WriteU32(uint32(len(groups)))
	for _, g := range groups {
		w.WriteU32(g[0])
		w.Byte(byte(g[1]))
	}
}
