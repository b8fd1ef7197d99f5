package wasmgen

// Opcodes the generator uses.
const (
	OpUnreachable byte = 0x00
	OpIf          byte = 0x04
	OpElse        byte = 0x05
	OpEnd         byte = 0x0B
	OpCall        byte = 0x10
	OpLocalGet    byte = 0x20
	OpLocalSet    byte = 0x21
	OpGlobalGet   byte = 0x23
	OpGlobalSet   byte = 0x24
	OpI32Load     byte = 0x28
	OpI32Load8U   byte = 0x2D
	OpI32Store8   byte = 0x3A
	OpMemorySize  byte = 0x3F
	OpI32Const    byte = 0x41
	OpI32Eqz      byte = 0x45
	OpI32LtU      byte = 0x49
	OpI32GtU      byte = 0x4B
	OpI32Add      byte = 0x6A
	OpI32Sub      byte = 0x6B
	OpI32And      byte = 0x71
	OpI32Or       byte = 0x72
	OpI32Shl      byte = 0x74

	blockVoid byte = 0x40
)

// Code builds a function body. The closing end is added by Encode.
type Code struct {
	w Writer
}

// NewCode starts an empty body.
func NewCode() *Code {
	return &Code{}
}

// Bytes returns the instructions written so far.
func (c *Code) Bytes() []byte {
	return c.w.Bytes()
}

func (c *Code) op(b byte) *Code {
	c.w.Byte(b)
	return c
}

func (c *Code) opIdx(b byte, idx uint32) *Code {
	c.w.Byte(b)
	c.w.WriteU32(idx)
	return c
}

func (c *Code) mem(b byte, align, offset uint32) *Code {
	c.w.Byte(b)
	c.w.WriteU32(align)
	c.w.WriteU32(offset)
	return c
}

func (c *Code) LocalGet(i uint32) *Code  { return c.opIdx(OpLocalGet, i) }
func (c *Code) LocalSet(i uint32) *Code  { return c.opIdx(OpLocalSet, i) }
func (c *Code) GlobalGet(i uint32) *Code { return c.opIdx(OpGlobalGet, i) }
func (c *Code) GlobalSet(i uint32) *Code { return c.opIdx(OpGlobalSet, i) }
func (c *Code) Call(f uint32) *Code      { return c.opIdx(OpCall, f) }

func (c *Code) I32Const(v int32) *Code {
	c.w.Byte(OpI32Const)
	c.w.WriteS32(v)
	return c
}

func (c *Code) I32Load(offset uint32) *Code   { return c.mem(OpI32Load, 2, offset) }
func (c *Code) I32Load8U(offset uint32) *Code { return c.mem(OpI32Load8U, 0, offset) }
func (c *Code) I32Store8(offset uint32) *Code { return c.mem(OpI32Store8, 0, offset) }

func (c *Code) MemorySize() *Code {
	c.w.Byte(OpMemorySize, 0x00)
	return c
}

func (c *Code) Add() *Code         { return c.op(OpI32Add) }
func (c *Code) Sub() *Code         { return c.op(OpI32Sub) }
func (c *Code) And() *Code         { return c.op(OpI32And) }
func (c *Code) Or() *Code          { return c.op(OpI32Or) }
func (c *Code) Shl() *Code         { return c.op(OpI32Shl) }
func (c *Code) Eqz() *Code         { return c.op(OpI32Eqz) }
func (c *Code) LtU() *Code         { return c.op(OpI32LtU) }
func (c *Code) GtU() *Code         { return c.op(OpI32GtU) }
func (c *Code) Unreachable() *Code { return c.op(OpUnreachable) }
func (c *Code) Else() *Code        { return c.op(OpElse) }
func (c *Code) End() *Code         { return c.op(OpEnd) }

// If opens a block with no result.
func (c *Code) If() *Code {
	c.w.Byte(OpIf, blockVoid)
	return c
}

// IfResult opens a block producing one value of type t.
func (c *Code) IfResult(t byte) *Code {
	c.w.Byte(OpIf, t)
	return c
}

// TrapIf traps when the i32 on top of the stack is non-zero.
func (c *Code) TrapIf() *Code {
	return c.If().Unreachable().End()
}
