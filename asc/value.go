package asc

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/big"

	"github.com/cockroachdb/apd/v3"

	"github.com/wippyai/ascabi"
	"github.com/wippyai/ascabi/errors"
)

// Kind is the discriminant of a Value.
type Kind uint32

const (
	KindString Kind = iota
	KindInt
	KindBigDecimal
	KindBool
	KindArray
	KindNull
	KindBytes
	KindBigInt
)

var kindNames = [...]string{
	KindString:     "String",
	KindInt:        "Int",
	KindBigDecimal: "BigDecimal",
	KindBool:       "Bool",
	KindArray:      "Array",
	KindNull:       "Null",
	KindBytes:      "Bytes",
	KindBigInt:     "BigInt",
}

func (k Kind) String() string {
	if k.Valid() {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint32(k))
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return int(k) < len(kindNames)
}

// IsRef reports whether the payload of k is a pointer to an object.
func (k Kind) IsRef() bool {
	switch k {
	case KindString, KindBigDecimal, KindArray, KindBytes, KindBigInt:
		return true
	}
	return false
}

// ValueSize is the body size of a Value object.
const ValueSize = 16

// BigDecimalSize is the body size of a BigDecimal object: digits and
// exponent, both BigInt pointers.
const BigDecimalSize = 8

// Value is a tagged union: a kind plus an 8-byte payload whose meaning is
// fixed by the kind. The payload is only reachable through accessors that
// check the kind first.
type Value struct {
	kind    Kind
	payload uint64
}

// IntValue returns an Int value.
func IntValue(v int32) Value {
	return Value{kind: KindInt, payload: uint64(int64(v))}
}

// BoolValue returns a Bool value.
func BoolValue(b bool) Value {
	var p uint64
	if b {
		p = 1
	}
	return Value{kind: KindBool, payload: p}
}

// NullValue returns the Null value.
func NullValue() Value {
	return Value{kind: KindNull}
}

// RefValue returns a value whose payload points at an object of the given
// kind.
func RefValue(kind Kind, p Ptr) (Value, error) {
	if !kind.IsRef() {
		return Value{}, errors.New(errors.PhaseEncode, errors.KindTypeMismatch).
			AscType(kind.String()).
			Detail("kind does not carry a reference payload").
			Build()
	}
	return Value{kind: kind, payload: uint64(p)}, nil
}

// Kind returns the discriminant.
func (v Value) Kind() Kind {
	return v.kind
}

// Int returns the payload of an Int value.
func (v Value) Int() (int32, error) {
	if v.kind != KindInt {
		return 0, v.mismatch("int32")
	}
	return int32(v.payload), nil
}

// Bool returns the payload of a Bool value.
func (v Value) Bool() (bool, error) {
	if v.kind != KindBool {
		return false, v.mismatch("bool")
	}
	return v.payload != 0, nil
}

// Ref returns the object pointer of a reference kind.
func (v Value) Ref() (Ptr, error) {
	if !v.kind.IsRef() {
		return Null, v.mismatch("asc.Ptr")
	}
	return Ptr(v.payload), nil
}

func (v Value) mismatch(goType string) error {
	return errors.New(errors.PhaseDecode, errors.KindTypeMismatch).
		GoType(goType).
		AscType("Value<" + v.kind.String() + ">").
		Detail("payload read under the wrong kind").
		Build()
}

func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return fmt.Sprintf("Int(%d)", int32(v.payload))
	case KindBool:
		return fmt.Sprintf("Bool(%t)", v.payload != 0)
	case KindNull:
		return "Null"
	}
	return fmt.Sprintf("%s(%s)", v.kind, Ptr(v.payload))
}

// WriteValue stores v as a Value object.
func WriteValue(h Heap, v Value) (Ptr, error) {
	if !v.kind.Valid() {
		return Null, errors.InvalidKind(errors.PhaseEncode, uint32(v.kind))
	}
	body := make([]byte, ValueSize)
	binary.LittleEndian.PutUint32(body[0:], uint32(v.kind))
	binary.LittleEndian.PutUint64(body[8:], v.payload)
	return NewObject(h, NoTypeID, body)
}

// ReadValue loads the Value object at p.
func ReadValue(mem ascabi.Memory, p Ptr) (Value, error) {
	if err := checkNull(p, "Value"); err != nil {
		return Value{}, err
	}
	raw, err := mem.Read(uint32(p), ValueSize)
	if err != nil {
		return Value{}, err
	}
	kind := Kind(binary.LittleEndian.Uint32(raw[0:]))
	if !kind.Valid() {
		return Value{}, errors.InvalidKind(errors.PhaseDecode, uint32(kind))
	}
	return Value{kind: kind, payload: binary.LittleEndian.Uint64(raw[8:])}, nil
}

// EncodeValue writes the objects x needs and returns the Value describing
// it. Supported Go types: nil, string, int32, int, bool, []byte, *big.Int,
// *apd.Decimal, []any and Value.
func EncodeValue(h Heap, x any) (Value, error) {
	switch x := x.(type) {
	case nil:
		return NullValue(), nil
	case Value:
		return x, nil
	case int32:
		return IntValue(x), nil
	case int:
		if x < math.MinInt32 || x > math.MaxInt32 {
			return Value{}, errors.New(errors.PhaseEncode, errors.KindInvalidInput).
				GoType("int").
				AscType("Int").
				Detail("value %d overflows i32", x).
				Value(x).
				Build()
		}
		return IntValue(int32(x)), nil
	case bool:
		return BoolValue(x), nil
	case string:
		p, err := NewString(h, x)
		if err != nil {
			return Value{}, err
		}
		return RefValue(KindString, p)
	case []byte:
		p, err := NewUint8Array(h, x)
		if err != nil {
			return Value{}, err
		}
		return RefValue(KindBytes, p)
	case *big.Int:
		p, err := NewUint8Array(h, BigIntToBytes(x))
		if err != nil {
			return Value{}, err
		}
		return RefValue(KindBigInt, p)
	case *apd.Decimal:
		p, err := newBigDecimal(h, x)
		if err != nil {
			return Value{}, err
		}
		return RefValue(KindBigDecimal, p)
	case []any:
		elems := make([]Ptr, len(x))
		for i, item := range x {
			v, err := EncodeValue(h, item)
			if err != nil {
				return Value{}, err
			}
			if elems[i], err = WriteValue(h, v); err != nil {
				return Value{}, err
			}
		}
		p, err := NewPtrArray(h, TagNone, elems)
		if err != nil {
			return Value{}, err
		}
		return RefValue(KindArray, p)
	}
	return Value{}, errors.TypeMismatch(errors.PhaseEncode, nil, fmt.Sprintf("%T", x), "Value")
}

// DecodeValue turns v into a Go value using its kind alone: String→string,
// Int→int32, BigDecimal→*apd.Decimal, Bool→bool, Array→[]any, Null→nil,
// Bytes→[]byte, BigInt→*big.Int.
func DecodeValue(mem ascabi.Memory, v Value) (any, error) {
	switch v.kind {
	case KindNull:
		return nil, nil
	case KindInt:
		return v.Int()
	case KindBool:
		return v.Bool()
	}

	p, err := v.Ref()
	if err != nil {
		return nil, err
	}
	switch v.kind {
	case KindString:
		return ReadString(mem, p)
	case KindBytes:
		return ReadUint8Array(mem, p)
	case KindBigInt:
		b, err := ReadUint8Array(mem, p)
		if err != nil {
			return nil, err
		}
		return BigIntFromBytes(b), nil
	case KindBigDecimal:
		return readBigDecimal(mem, p)
	case KindArray:
		elems, err := ReadPtrArray(mem, p)
		if err != nil {
			return nil, err
		}
		out := make([]any, len(elems))
		for i, e := range elems {
			item, err := ReadValue(mem, e)
			if err != nil {
				return nil, err
			}
			if out[i], err = DecodeValue(mem, item); err != nil {
				return nil, err
			}
		}
		return out, nil
	}
	return nil, errors.InvalidKind(errors.PhaseDecode, uint32(v.kind))
}

func newBigDecimal(h Heap, d *apd.Decimal) (Ptr, error) {
	if d.Form != apd.Finite {
		return Null, errors.New(errors.PhaseEncode, errors.KindInvalidInput).
			GoType("*apd.Decimal").
			AscType("BigDecimal").
			Detail("only finite decimals are representable, got %s", d.String()).
			Build()
	}
	digits := d.Coeff.MathBigInt()
	if d.Negative {
		digits.Neg(digits)
	}
	digitsPtr, err := NewUint8Array(h, BigIntToBytes(digits))
	if err != nil {
		return Null, err
	}
	expPtr, err := NewUint8Array(h, BigIntToBytes(big.NewInt(int64(d.Exponent))))
	if err != nil {
		return Null, err
	}
	body := make([]byte, BigDecimalSize)
	binary.LittleEndian.PutUint32(body[0:], uint32(digitsPtr))
	binary.LittleEndian.PutUint32(body[4:], uint32(expPtr))
	return NewObject(h, NoTypeID, body)
}

func readBigDecimal(mem ascabi.Memory, p Ptr) (*apd.Decimal, error) {
	raw, err := mem.Read(uint32(p), BigDecimalSize)
	if err != nil {
		return nil, err
	}
	digitBytes, err := ReadUint8Array(mem, Ptr(binary.LittleEndian.Uint32(raw[0:])))
	if err != nil {
		return nil, err
	}
	expBytes, err := ReadUint8Array(mem, Ptr(binary.LittleEndian.Uint32(raw[4:])))
	if err != nil {
		return nil, err
	}
	exp := BigIntFromBytes(expBytes)
	if !exp.IsInt64() || exp.Int64() < math.MinInt32 || exp.Int64() > math.MaxInt32 {
		return nil, errors.InvalidData(errors.PhaseDecode, []string{"BigDecimal", "exp"}, "exponent out of range")
	}
	coeff := new(apd.BigInt).SetMathBigInt(BigIntFromBytes(digitBytes))
	return apd.NewWithBigInt(coeff, int32(exp.Int64())), nil
}
