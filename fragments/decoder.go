package fragments

import (
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"unicode/utf16"
)

// A DecoderFunc reads a value into val.
type DecoderFunc func(dec *Decoder, val reflect.Value) error

// A Decoder provides utilities to read a parcel from a byte slice.
//
// The read cursor can be moved with [Decoder.Seek], which
// [Decoder.Record] uses to skip over trailing record bytes it does not
// understand.
type Decoder struct {
	// Order is the byte order to use when reading multi-byte values.
	Order ByteOrder
	// Mapper provides [DecoderFunc]s for types given to
	// [Decoder.Value]. If mapper is nil, the Decoder functions
	// normally except that [Decoder.Value] always returns an error.
	Mapper func(reflect.Type) (DecoderFunc, error)
	// In is the input to read.
	In []byte
	// MaxPosition is the largest position a record may extend
	// to. Zero means math.MaxInt32, the limit of a 32-bit length
	// prefix.
	MaxPosition int

	// pos is the read cursor.
	pos int
}

func (d *Decoder) order() ByteOrder {
	if d.Order == nil {
		return LittleEndian
	}
	return d.Order
}

func (d *Decoder) maxPosition() int {
	if d.MaxPosition <= 0 {
		return math.MaxInt32
	}
	return d.MaxPosition
}

// Position returns the current read position.
func (d *Decoder) Position() int {
	return d.pos
}

// Seek moves the read cursor to pos. Seeking to len(In) is allowed,
// seeking past it is an error.
func (d *Decoder) Seek(pos int) error {
	if pos < 0 || pos > len(d.In) {
		return fmt.Errorf("seek to %d outside of %d byte parcel: %w", pos, len(d.In), io.ErrUnexpectedEOF)
	}
	d.pos = pos
	return nil
}

// Remaining returns the number of unread bytes after the cursor.
func (d *Decoder) Remaining() int {
	return len(d.In) - d.pos
}

// Read reads n bytes, with no framing.
func (d *Decoder) Read(n int) ([]byte, error) {
	if n < 0 || n > d.Remaining() {
		return nil, fmt.Errorf("reading %d bytes at %d: %w", n, d.pos, io.ErrUnexpectedEOF)
	}
	ret := d.In[d.pos : d.pos+n]
	d.pos += n
	return ret, nil
}

// Uint8 reads a uint8.
func (d *Decoder) Uint8() (uint8, error) {
	bs, err := d.Read(1)
	if err != nil {
		return 0, err
	}
	return bs[0], nil
}

// Int8 reads an int8.
func (d *Decoder) Int8() (int8, error) {
	u8, err := d.Uint8()
	return int8(u8), err
}

// Bool reads a single byte bool. Any non-zero byte is true.
func (d *Decoder) Bool() (bool, error) {
	u8, err := d.Uint8()
	return u8 != 0, err
}

// Uint32 reads a uint32.
func (d *Decoder) Uint32() (uint32, error) {
	bs, err := d.Read(4)
	if err != nil {
		return 0, err
	}
	return d.order().Uint32(bs), nil
}

// Int32 reads an int32.
func (d *Decoder) Int32() (int32, error) {
	u32, err := d.Uint32()
	return int32(u32), err
}

// Char reads a UTF-16 code unit stored as an int32.
func (d *Decoder) Char() (uint16, error) {
	i32, err := d.Int32()
	return uint16(i32), err
}

// Uint64 reads a uint64.
func (d *Decoder) Uint64() (uint64, error) {
	bs, err := d.Read(8)
	if err != nil {
		return 0, err
	}
	return d.order().Uint64(bs), nil
}

// Int64 reads an int64.
func (d *Decoder) Int64() (int64, error) {
	u64, err := d.Uint64()
	return int64(u64), err
}

// Float32 reads a float32.
func (d *Decoder) Float32() (float32, error) {
	u32, err := d.Uint32()
	return math.Float32frombits(u32), err
}

// Float64 reads a float64.
func (d *Decoder) Float64() (float64, error) {
	u64, err := d.Uint64()
	return math.Float64frombits(u64), err
}

// length reads a nullable length prefix for a value whose elements
// occupy at least unit bytes each. It returns -1 for null.
func (d *Decoder) length(what string, unit int) (int, error) {
	ln, err := d.Int32()
	if err != nil {
		return 0, err
	}
	if ln == -1 {
		return -1, nil
	}
	if ln < 0 || int64(ln)*int64(unit) > int64(d.Remaining()) {
		return 0, &LengthError{what, ln, d.Remaining()}
	}
	return int(ln), nil
}

// NullString16 reads a UTF-16 string, returning nil for a null
// string.
func (d *Decoder) NullString16() (*string, error) {
	ln, err := d.length("string", 2)
	if err != nil {
		return nil, err
	}
	if ln < 0 {
		return nil, nil
	}
	bs, err := d.Read(2 * ln)
	if err != nil {
		return nil, err
	}
	units := make([]uint16, ln)
	for i := range units {
		units[i] = d.order().Uint16(bs[2*i:])
	}
	ret := string(utf16.Decode(units))
	return &ret, nil
}

// String16 reads a UTF-16 string. A null string reads as "".
func (d *Decoder) String16() (string, error) {
	s, err := d.NullString16()
	if err != nil || s == nil {
		return "", err
	}
	return *s, nil
}

// Bytes reads a byte array. A null array reads as nil, an empty one
// as a non-nil empty slice. The returned slice is a copy.
func (d *Decoder) Bytes() ([]byte, error) {
	ln, err := d.length("byte array", 1)
	if err != nil {
		return nil, err
	}
	if ln < 0 {
		return nil, nil
	}
	bs, err := d.Read(ln)
	if err != nil {
		return nil, err
	}
	return append([]byte{}, bs...), nil
}

// Present reads a presence marker for a nullable nested record.
func (d *Decoder) Present() (bool, error) {
	i32, err := d.Int32()
	if err != nil {
		return false, err
	}
	return i32 != 0, nil
}

// Sequence reads a sequence's element count. It returns -1 for a null
// sequence. Every element occupies at least one byte, so counts larger
// than the remaining input are rejected up front.
func (d *Decoder) Sequence() (int, error) {
	return d.length("sequence", 1)
}

// Record reads a length-prefixed record.
//
// readField is called with field indexes 0, 1, ... up to numFields-1,
// stopping early once the record's declared length has been consumed.
// Fields that are not read keep their current values. After the last
// field, the cursor is moved to the end of the record as declared by
// its length prefix, skipping any fields this reader does not know
// about.
func (d *Decoder) Record(numFields int, readField func(int) error) error {
	start := d.pos
	ln, err := d.Int32()
	if err != nil {
		return err
	}
	if ln < 4 {
		return &FramingError{ln}
	}
	if start > d.maxPosition()-int(ln) {
		return &OverflowError{start, ln}
	}
	for i := range numFields {
		if d.pos-start >= int(ln) {
			break
		}
		if err := readField(i); err != nil {
			return err
		}
	}
	return d.Seek(start + int(ln))
}

// Union reads a union's discriminant and calls readAlt with it. If the
// discriminant is outside [0, numAlts), Union returns an
// [UnknownDiscriminantError] without reading further.
func (d *Decoder) Union(numAlts int, readAlt func(int32) error) error {
	tag, err := d.Int32()
	if err != nil {
		return err
	}
	if tag < 0 || int(tag) >= numAlts {
		return &UnknownDiscriminantError{Tag: tag, Alternatives: numAlts}
	}
	return readAlt(tag)
}

// Value reads a value into v, using the [DecoderFunc] provided by
// [Decoder.Mapper]. v must be a non-nil pointer.
func (d *Decoder) Value(v any) error {
	if d.Mapper == nil {
		return errors.New("Mapper not provided to Decoder")
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer {
		return fmt.Errorf("outval of Decoder.Value must be a pointer, got %s", rv.Type())
	}
	if rv.IsNil() {
		return fmt.Errorf("outval of Decoder.Value must not be a nil pointer")
	}
	fn, err := d.Mapper(rv.Type().Elem())
	if err != nil {
		return err
	}
	return fn(d, rv.Elem())
}
