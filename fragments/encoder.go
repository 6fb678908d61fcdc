package fragments

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"unicode/utf16"
)

// An EncoderFunc writes a value to the given encoder.
type EncoderFunc func(enc *Encoder, val reflect.Value) error

// An Encoder provides utilities to write a parcel to a byte slice.
//
// Unlike a stream, an Encoder has a movable write cursor: [Encoder.Seek]
// moves it back over bytes already written so that a placeholder can
// be patched in place. Writes always overwrite at the cursor and
// extend Out as needed.
type Encoder struct {
	// Order is the byte order to use when encoding multi-byte values.
	Order ByteOrder
	// Mapper provides [EncoderFunc]s for types given to
	// [Encoder.Value]. If mapper is nil, the Encoder functions
	// normally except that [Encoder.Value] always returns an error.
	Mapper func(reflect.Type) (EncoderFunc, error)
	// Out is the encoded output.
	Out []byte

	// pos is the write cursor. It is always <= len(Out).
	pos int
	// base is len(Out) when the encoder first wrote, so that
	// positions are relative to the start of this parcel even when
	// appending to an existing buffer.
	base    int
	started bool
}

func (e *Encoder) order() ByteOrder {
	if e.Order == nil {
		return LittleEndian
	}
	return e.Order
}

func (e *Encoder) start() {
	if !e.started {
		e.started = true
		e.base = len(e.Out)
		e.pos = len(e.Out)
	}
}

// Position returns the current write position, relative to the start
// of the parcel.
func (e *Encoder) Position() int {
	e.start()
	return e.pos - e.base
}

// Seek moves the write cursor to pos, which must be a position
// previously returned by [Encoder.Position].
func (e *Encoder) Seek(pos int) {
	e.start()
	abs := e.base + pos
	if pos < 0 || abs > len(e.Out) {
		panic(fmt.Sprintf("Encoder.Seek(%d) out of range [0,%d]", pos, len(e.Out)-e.base))
	}
	e.pos = abs
}

// Write writes bs as-is at the cursor. It is the caller's
// responsibility to ensure the output remains a valid parcel.
func (e *Encoder) Write(bs []byte) {
	e.start()
	if e.pos == len(e.Out) {
		e.Out = append(e.Out, bs...)
	} else {
		n := copy(e.Out[e.pos:], bs)
		e.Out = append(e.Out, bs[n:]...)
	}
	e.pos += len(bs)
}

// Uint8 writes a uint8.
func (e *Encoder) Uint8(u8 uint8) {
	e.Write([]byte{u8})
}

// Int8 writes an int8.
func (e *Encoder) Int8(i8 int8) {
	e.Uint8(uint8(i8))
}

// Bool writes a bool as a single byte.
func (e *Encoder) Bool(b bool) {
	if b {
		e.Uint8(1)
	} else {
		e.Uint8(0)
	}
}

// Uint32 writes a uint32.
func (e *Encoder) Uint32(u32 uint32) {
	var bs [4]byte
	e.order().PutUint32(bs[:], u32)
	e.Write(bs[:])
}

// Int32 writes an int32.
func (e *Encoder) Int32(i32 int32) {
	e.Uint32(uint32(i32))
}

// Char writes a UTF-16 code unit, widened to an int32.
func (e *Encoder) Char(c uint16) {
	e.Int32(int32(c))
}

// Uint64 writes a uint64.
func (e *Encoder) Uint64(u64 uint64) {
	var bs [8]byte
	e.order().PutUint64(bs[:], u64)
	e.Write(bs[:])
}

// Int64 writes an int64.
func (e *Encoder) Int64(i64 int64) {
	e.Uint64(uint64(i64))
}

// Float32 writes a float32.
func (e *Encoder) Float32(f float32) {
	e.Uint32(math.Float32bits(f))
}

// Float64 writes a float64.
func (e *Encoder) Float64(f float64) {
	e.Uint64(math.Float64bits(f))
}

// String16 writes s as a length-prefixed sequence of UTF-16 code
// units. The length is the number of code units, not bytes.
// Invalid UTF-8 sequences in s are written as U+FFFD.
func (e *Encoder) String16(s string) {
	units := utf16.Encode([]rune(s))
	e.Int32(int32(len(units)))
	bs := make([]byte, 2*len(units))
	for i, u := range units {
		e.order().PutUint16(bs[2*i:], u)
	}
	e.Write(bs)
}

// NullString16 writes s like [Encoder.String16], or a null string if
// s is nil.
func (e *Encoder) NullString16(s *string) {
	if s == nil {
		e.Int32(-1)
		return
	}
	e.String16(*s)
}

// Bytes writes a byte array. A nil bs is written as a null array,
// distinct from an empty one.
func (e *Encoder) Bytes(bs []byte) {
	if bs == nil {
		e.Int32(-1)
		return
	}
	e.Int32(int32(len(bs)))
	e.Write(bs)
}

// Present writes a presence marker for a nullable nested record.
func (e *Encoder) Present(present bool) {
	if present {
		e.Int32(1)
	} else {
		e.Int32(0)
	}
}

// Sequence writes the element count n, then calls elements to write
// the elements themselves.
func (e *Encoder) Sequence(n int, elements func() error) error {
	e.Int32(int32(n))
	if elements == nil {
		return nil
	}
	return elements()
}

// NullSequence writes a null sequence.
func (e *Encoder) NullSequence() {
	e.Int32(-1)
}

// Record writes a length-prefixed record.
//
// Record fields must be added within the provided fields
// function. Once fields returns, the record's length prefix is
// patched with the total size of the record, including the prefix.
func (e *Encoder) Record(fields func() error) error {
	start := e.Position()
	e.Int32(0)
	if err := fields(); err != nil {
		return err
	}
	end := e.Position()
	e.Seek(start)
	e.Int32(int32(end - start))
	e.Seek(end)
	return nil
}

// Union writes a union whose active alternative is tag. The
// alternative's value must be written within the provided value
// function.
func (e *Encoder) Union(tag int32, value func() error) error {
	e.Int32(tag)
	if value == nil {
		return nil
	}
	return value()
}

// Value writes v to the output, using the [EncoderFunc] provided by
// [Encoder.Mapper].
func (e *Encoder) Value(v any) error {
	if e.Mapper == nil {
		return errors.New("Mapper not provided to Encoder")
	}
	fn, err := e.Mapper(reflect.TypeOf(v))
	if err != nil {
		return err
	}
	return fn(e, reflect.ValueOf(v))
}
