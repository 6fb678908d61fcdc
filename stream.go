package parcel

import (
	"errors"
	"fmt"
	"io"
	"reflect"

	"github.com/danderson/parcel/fragments"
)

// DefaultMaxRecordSize is the default limit on the size of records
// read by a [Decoder].
const DefaultMaxRecordSize = 16 << 20

// An Encoder writes a stream of records to an output stream.
//
// Each record is encoded completely in memory before being written
// with a single Write call. The record's length prefix delimits it in
// the stream, so no additional framing is added.
type Encoder struct {
	// Order is the byte order to encode with. If nil, records are
	// encoded in little-endian order.
	Order fragments.ByteOrder

	w   io.Writer
	buf []byte
}

// NewEncoder returns a new encoder that writes to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode writes the record encoding of v to the stream. v must be a
// struct or a pointer to a struct.
func (e *Encoder) Encode(v any) error {
	if err := checkStreamable(reflect.TypeOf(v)); err != nil {
		return err
	}
	ord := e.Order
	if ord == nil {
		ord = fragments.LittleEndian
	}
	bs, err := marshal(e.buf[:0], v, ord)
	if err != nil {
		return err
	}
	e.buf = bs
	if _, err := e.w.Write(bs); err != nil {
		return fmt.Errorf("writing record: %w", err)
	}
	return nil
}

// A Decoder reads a stream of records from an input stream.
type Decoder struct {
	// Order is the byte order to decode with. If nil, records are
	// decoded in little-endian order.
	Order fragments.ByteOrder
	// MaxRecordSize is the largest record the Decoder accepts,
	// including its length prefix. If zero, DefaultMaxRecordSize is
	// used.
	MaxRecordSize int

	r   io.Reader
	buf []byte
}

// NewDecoder returns a new decoder that reads from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

// Decode reads the next record from the stream and stores it in the
// value pointed to by v, which must be a pointer to a struct.
//
// At the end of the stream, Decode returns io.EOF. A stream that ends
// partway through a record results in io.ErrUnexpectedEOF.
func (d *Decoder) Decode(v any) error {
	if v == nil {
		return typeErr(nil, "can't unmarshal into nil interface")
	}
	t := reflect.TypeOf(v)
	if t.Kind() != reflect.Pointer {
		return typeErr(t, "can't unmarshal into a non-pointer")
	}
	if err := checkStreamable(t.Elem()); err != nil {
		return err
	}

	ord := d.Order
	if ord == nil {
		ord = fragments.LittleEndian
	}
	max := d.MaxRecordSize
	if max <= 0 {
		max = DefaultMaxRecordSize
	}

	var prefix [4]byte
	if _, err := io.ReadFull(d.r, prefix[:]); err != nil {
		return err
	}
	ln := int32(ord.Uint32(prefix[:]))
	if ln < 4 {
		return &FramingError{Length: ln}
	}
	if int(ln) > max {
		return &RecordSizeError{Length: ln, Max: max}
	}

	if cap(d.buf) < int(ln) {
		d.buf = make([]byte, ln)
	}
	d.buf = d.buf[:ln]
	copy(d.buf, prefix[:])
	if _, err := io.ReadFull(d.r, d.buf[4:]); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return fmt.Errorf("reading %d byte record: %w", ln, err)
	}
	return UnmarshalOrder(d.buf, ord, v)
}

// checkStreamable returns an error if values of type t cannot be
// streamed as a standalone record.
func checkStreamable(t reflect.Type) error {
	if t == nil {
		return typeErr(nil, "cannot stream nil interface")
	}
	st := derefType(t)
	if st.Kind() != reflect.Struct {
		return typeErr(t, "only structs can be streamed as records")
	}
	if st.Implements(marshalerType) || reflect.PointerTo(st).Implements(marshalerType) {
		return typeErr(t, "Marshalers cannot be streamed as records")
	}
	fs, err := getStructInfo(st)
	if err != nil {
		return typeErr(t, "getting struct info: %w", err)
	}
	if fs.Inline {
		return typeErr(t, "inline structs cannot be streamed as records")
	}
	return nil
}
