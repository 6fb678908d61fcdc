package parcel

import (
	"fmt"

	"github.com/danderson/parcel/fragments"
)

// Simple is a struct with simple fields.
type Simple struct {
	A int32
	B bool
}

// Nested is a struct with a struct field.
type Nested struct {
	A byte
	B Simple
}

// NestedPtr is a struct with a nullable struct field.
type NestedPtr struct {
	A byte
	B *Simple
}

// Embedded is a struct that embeds another struct by value.
type Embedded struct {
	Simple
	C byte
}

// EmbeddedShadow is a struct that embeds another struct by value,
// with one of the embedded fields shadowed by an outer field. Its
// flattened fields collide, so it can't be represented in a parcel.
type EmbeddedShadow struct {
	Simple
	B byte
}

// Embedded_P is a struct that embeds another struct by pointer.
type Embedded_P struct {
	*Simple
	C byte
}

// Arrays is a struct with various degrees of complicated arrays
// inside.
type Arrays struct {
	A []string
	B []Simple
	C [][]int32
}

// NullableString is a struct with a nullable string.
type NullableString struct {
	S *string
}

// Skipped is a struct with a field excluded from the wire.
type Skipped struct {
	A int32
	B int32 `parcel:"-"`
}

// Renamed is a struct with a field renamed in schemas.
type Renamed struct {
	SNR int32 `parcel:"name=signalNoiseRatio"`
}

// Tree is a self-referential struct that can't be represented in a
// parcel.
type Tree struct {
	Left  *Tree
	Right *Tree
}

// Shape is a union of assorted alternatives.
type Shape interface{ isShape() }

type ShapeCircle float32
type ShapeSquare int32
type ShapeLabel string
type ShapePoint struct {
	X, Y int32
}

func (ShapeCircle) isShape() {}
func (ShapeSquare) isShape() {}
func (ShapeLabel) isShape()  {}
func (ShapePoint) isShape()  {}

// WithUnion is a struct with a union field.
type WithUnion struct {
	A int32
	S Shape
}

// InlinePair is an inline struct holding a union and a byte.
type InlinePair struct {
	Inline
	S Shape
	N int8
}

// WithInline is a struct with an inline struct field.
type WithInline struct {
	A int32
	P InlinePair
}

// Expr is a union whose alternatives refer back to the union, which
// can't be represented in a parcel.
type Expr interface{ isExpr() }

type ExprLit int32
type ExprNeg struct {
	E Expr
}

func (ExprLit) isExpr() {}
func (ExprNeg) isExpr() {}

func init() {
	MustRegisterUnion[Shape](ShapeCircle(0), ShapeSquare(0), ShapeLabel(""), ShapePoint{})
	MustRegisterUnion[Expr](ExprLit(0), ExprNeg{})
}

// SelfMarshalerPtr is a struct that implements Marshaler and
// Unmarshaler with pointer method receivers. It encodes B offset by
// 100, as an int32.
type SelfMarshalerPtr struct {
	B byte
}

func (s *SelfMarshalerPtr) MarshalParcel(e *fragments.Encoder) error {
	e.Int32(int32(s.B) + 100)
	return nil
}

func (s *SelfMarshalerPtr) UnmarshalParcel(d *fragments.Decoder) error {
	i32, err := d.Int32()
	if err != nil {
		return err
	}
	if i32 < 100 {
		return fmt.Errorf("unexpected encoded value %d", i32)
	}
	s.B = byte(i32 - 100)
	return nil
}

// SelfMarshalerVal is a struct that implements Marshaler and
// Unmarshaler with value method receivers. Note the Unmarshaler
// implementation is deliberately unusable (UnmarshalParcel must have a
// pointer receiver).
type SelfMarshalerVal struct {
	B byte
}

func (s SelfMarshalerVal) MarshalParcel(e *fragments.Encoder) error {
	e.Int32(int32(s.B) + 100)
	return nil
}

func (s SelfMarshalerVal) UnmarshalParcel(d *fragments.Decoder) error {
	i32, err := d.Int32()
	if err != nil {
		return err
	}
	s.B = byte(i32 - 100)
	return nil
}

// NestedSelfMarshalerPtr is a struct with a struct field that
// implements Marshaler/Unmarshaler with pointer method receivers.
type NestedSelfMarshalerPtr struct {
	A byte
	B SelfMarshalerPtr
}

// NestedSelfMarshalerVal is a struct with a field that implements
// Marshaler/Unmarshaler using value method receivers. It can be
// marshaled, but not unmarshaled.
type NestedSelfMarshalerVal struct {
	A byte
	B SelfMarshalerVal
}

func ptr[T any](v T) *T {
	return &v
}
