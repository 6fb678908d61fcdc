package parcel

import (
	"errors"
	"fmt"
	"log"
	"reflect"
	"slices"
	"unicode/utf8"

	"github.com/danderson/parcel/fragments"
)

// Marshal returns the parcel encoding of v, in little-endian byte
// order.
//
// A struct value (or non-nil pointer to a struct) encodes as a bare
// record: its length prefix followed by its fields. A pointer to a
// registered union interface encodes as a bare union: the
// discriminant followed by the active alternative. A value of one of
// a union's alternative types, which is what Marshal receives when
// given a union interface variable, also encodes as a bare union. Any
// other value encodes with its field encoding, as described below.
//
// Marshal traverses v recursively. If an encountered value implements
// [Marshaler], Marshal calls MarshalParcel on it to produce its
// encoding.
//
// Otherwise, Marshal uses the following type-dependent field
// encodings:
//
// bool, int8, uint8, int32, int64, float32 and float64 values encode
// as fixed width scalars. bool and the 8-bit integers occupy a single
// byte. uint16 values are UTF-16 code units, and encode as an int32
// like AIDL's char.
//
// string values encode as a count of UTF-16 code units followed by
// the code units. *string values encode the same way, except that a
// nil pointer encodes as a null string. Strings that are not valid
// UTF-8 cannot be converted exactly, and cause Marshal to return a
// [*StringError].
//
// []byte values encode as a length followed by the bytes. Other slice
// and array values encode as an element count followed by each
// element's field encoding. Nil slices encode as null, distinct from
// empty slices.
//
// Struct and struct pointer values encode as a presence marker
// followed by a record. A nil pointer encodes as an absent
// marker. Each exported struct field is encoded in declaration order,
// according to its own type. Embedded struct fields are encoded as if
// their inner exported fields were fields in the outer struct. Field
// names must be unique after flattening. Fields tagged
// `parcel:"-"` are skipped. Structs containing an [Inline] field
// encode their fields back to back, without a presence marker or
// record framing.
//
// Values of a union interface registered with [RegisterUnion] encode
// as a presence marker followed by the union's discriminant and the
// active alternative's field encoding. A nil interface encodes as an
// absent marker.
//
// int, uint, int16, uint32, uint64, uintptr, complex, map, channel,
// function and unregistered interface values cannot be
// encoded. Attempting to encode such values causes Marshal to return
// a [TypeError].
//
// Parcels cannot represent cyclic or recursive types. Attempting to
// encode such values causes Marshal to return a [TypeError].
func Marshal(v any) ([]byte, error) {
	return MarshalAppend(nil, v)
}

// MarshalAppend is like [Marshal], but appends the encoding of v to
// bs.
func MarshalAppend(bs []byte, v any) ([]byte, error) {
	return marshal(bs, v, fragments.LittleEndian)
}

// MarshalOrder is like [Marshal], but uses the given byte order.
func MarshalOrder(v any, ord fragments.ByteOrder) ([]byte, error) {
	return marshal(nil, v, ord)
}

func marshal(bs []byte, v any, ord fragments.ByteOrder) ([]byte, error) {
	if v == nil {
		return nil, typeErr(nil, "cannot marshal nil interface")
	}
	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Pointer {
		// Copy into an addressable value, so that fields can use
		// Marshalers with pointer receivers.
		addr := reflect.New(val.Type()).Elem()
		addr.Set(val)
		val = addr
	}
	enc, err := topEncoderFor(val.Type())
	if err != nil {
		return nil, err
	}
	e := fragments.Encoder{
		Order:  ord,
		Mapper: encoderFor,
		Out:    bs,
	}
	if err := enc(&e, val); err != nil {
		return nil, err
	}
	return e.Out, nil
}

// Marshaler is the interface implemented by types that can marshal
// themselves to the parcel wire format.
//
// MarshalParcel is responsible for producing the entire field
// encoding of the value, including any presence marker or record
// framing.
type Marshaler interface {
	MarshalParcel(e *fragments.Encoder) error
}

var marshalerType = reflect.TypeFor[Marshaler]()

const debugEncoders = false

func debugEncoder(msg string, args ...any) {
	if !debugEncoders {
		return
	}
	log.Printf(msg, args...)
}

// topEncoderFor returns the encoder for a top-level value of type t.
//
// A union held in an interface reaches Marshal as its concrete
// alternative, so alternatives are encoded as the union they belong
// to, discriminant first.
func topEncoderFor(t reflect.Type) (fragments.EncoderFunc, error) {
	if alt := lookupAlt(t); alt != nil {
		return newAltAsUnionEncoder(alt)
	}
	if t.Kind() == reflect.Pointer {
		if alt := lookupAlt(t.Elem()); alt != nil {
			enc, err := newAltAsUnionEncoder(alt)
			if err != nil {
				return nil, err
			}
			return func(e *fragments.Encoder, v reflect.Value) error {
				if v.IsNil() {
					return typeErr(t, "cannot marshal nil pointer")
				}
				return enc(e, v.Elem())
			}, nil
		}
	}
	if t.Implements(marshalerType) || (t.Kind() == reflect.Pointer && t.Elem().Implements(marshalerType)) {
		return encoderFor(t)
	}

	switch {
	case t.Kind() == reflect.Struct:
		return bareEncoderFor(t)
	case t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct:
		enc, err := bareEncoderFor(t.Elem())
		if err != nil {
			return nil, err
		}
		return func(e *fragments.Encoder, v reflect.Value) error {
			if v.IsNil() {
				return typeErr(t, "cannot marshal nil pointer")
			}
			return enc(e, v.Elem())
		}, nil
	case t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Interface:
		enc, err := bareEncoderFor(t.Elem())
		if err != nil {
			return nil, err
		}
		return func(e *fragments.Encoder, v reflect.Value) error {
			if v.IsNil() {
				return typeErr(t, "cannot marshal nil pointer")
			}
			return enc(e, v.Elem())
		}, nil
	}
	return encoderFor(t)
}

// newAltAsUnionEncoder returns an encoder that writes a value of
// alt's type as a bare union.
func newAltAsUnionEncoder(alt *unionAlt) (fragments.EncoderFunc, error) {
	ut := alt.Union.Type
	enc, err := bareEncoderFor(ut)
	if err != nil {
		return nil, err
	}
	return func(e *fragments.Encoder, v reflect.Value) error {
		u := reflect.New(ut).Elem()
		u.Set(v)
		return enc(e, u)
	}, nil
}

var (
	encoders     cache[reflect.Type, fragments.EncoderFunc]
	bareEncoders cache[reflect.Type, fragments.EncoderFunc]
)

// encoderFor returns the field encoder for t.
func encoderFor(t reflect.Type) (fragments.EncoderFunc, error) {
	return encoderForStack(t, nil)
}

// bareEncoderFor returns the encoder for a record or union of type t,
// without the presence marker that precedes them in fields.
func bareEncoderFor(t reflect.Type) (fragments.EncoderFunc, error) {
	return bareEncoderForStack(t, nil)
}

func encoderForStack(t reflect.Type, stack []reflect.Type) (ret fragments.EncoderFunc, err error) {
	debugEncoder("encoderFor(%s)", t)
	if ret, err := encoders.Get(t); err == nil {
		debugEncoder("%s (cached)", t)
		return ret, nil
	} else if !errors.Is(err, errNotFound) {
		return nil, err
	}
	// Note, defer captures the type value in case it gets messed with
	// below.
	defer func(t reflect.Type) {
		if err != nil {
			encoders.SetErr(t, err)
		} else {
			encoders.Set(t, ret)
		}
	}(t)

	// If a value's pointer type implements Marshaler, we can avoid a
	// value copy by using it. But we can only use it for addressable
	// values, which requires an additional runtime check.
	if t.Kind() != reflect.Pointer && reflect.PointerTo(t).Implements(marshalerType) {
		debugEncoder("%s (Marshaler, addressable)", t)
		return newCondAddrMarshalEncoder(t), nil
	} else if t.Implements(marshalerType) {
		debugEncoder("%s (Marshaler)", t)
		return newMarshalEncoder(), nil
	}

	switch t.Kind() {
	case reflect.Pointer:
		return newPtrEncoder(t, stack)
	case reflect.Bool:
		return newBoolEncoder(), nil
	case reflect.Int8, reflect.Int32, reflect.Int64:
		return newIntEncoder(t), nil
	case reflect.Uint8, reflect.Uint16:
		return newUintEncoder(t), nil
	case reflect.Float32, reflect.Float64:
		return newFloatEncoder(t), nil
	case reflect.String:
		return newStringEncoder(), nil
	case reflect.Slice, reflect.Array:
		return newSliceEncoder(t, stack)
	case reflect.Struct:
		return newStructEncoder(t, stack)
	case reflect.Interface:
		return newUnionEncoder(t, stack)
	}
	if reason, ok := unportableKinds[t.Kind()]; ok {
		return nil, typeErr(t, reason)
	}
	return nil, typeErr(t, "no parcel mapping for type")
}

func bareEncoderForStack(t reflect.Type, stack []reflect.Type) (ret fragments.EncoderFunc, err error) {
	debugEncoder("bareEncoderFor(%s)", t)
	if ret, err := bareEncoders.Get(t); err == nil {
		return ret, nil
	} else if !errors.Is(err, errNotFound) {
		return nil, err
	}

	if slices.Contains(stack, t) {
		return nil, typeErr(t, "recursive type")
	}
	stack = append(stack, t)

	defer func(t reflect.Type) {
		if err != nil {
			bareEncoders.SetErr(t, err)
		} else {
			bareEncoders.Set(t, ret)
		}
	}(t)

	switch t.Kind() {
	case reflect.Struct:
		return newRecordEncoder(t, stack)
	case reflect.Interface:
		return newUnionBodyEncoder(t, stack)
	}
	return nil, typeErr(t, "only structs and unions can be encoded as records")
}

func newCondAddrMarshalEncoder(t reflect.Type) fragments.EncoderFunc {
	ptr := newMarshalEncoder()
	if t.Implements(marshalerType) {
		val := newMarshalEncoder()
		return func(e *fragments.Encoder, v reflect.Value) error {
			if v.CanAddr() {
				return ptr(e, v.Addr())
			} else {
				return val(e, v)
			}
		}
	} else {
		return func(e *fragments.Encoder, v reflect.Value) error {
			if !v.CanAddr() {
				return typeErr(t, "Marshaler is only implemented on pointer receiver, and cannot take the address of given value")
			}
			return ptr(e, v.Addr())
		}
	}
}

func newMarshalEncoder() fragments.EncoderFunc {
	return func(e *fragments.Encoder, v reflect.Value) error {
		m := v.Interface().(Marshaler)
		return m.MarshalParcel(e)
	}
}

func newPtrEncoder(t reflect.Type, stack []reflect.Type) (fragments.EncoderFunc, error) {
	switch t.Elem().Kind() {
	case reflect.String:
		return func(e *fragments.Encoder, v reflect.Value) error {
			if v.IsNil() {
				e.NullString16(nil)
			} else {
				s := v.Elem().String()
				if !utf8.ValidString(s) {
					return &StringError{s}
				}
				e.String16(s)
			}
			return nil
		}, nil
	case reflect.Struct:
		fs, err := getStructInfo(t.Elem())
		if err != nil {
			return nil, typeErr(t, "getting struct info: %w", err)
		}
		if fs.Inline {
			return nil, typeErr(t, "inline structs have no null representation, cannot use pointer")
		}
		rec, err := bareEncoderForStack(t.Elem(), stack)
		if err != nil {
			return nil, err
		}
		return func(e *fragments.Encoder, v reflect.Value) error {
			if v.IsNil() {
				e.Present(false)
				return nil
			}
			e.Present(true)
			return rec(e, v.Elem())
		}, nil
	}
	return nil, typeErr(t, "pointers are only supported to structs and strings")
}

func newBoolEncoder() fragments.EncoderFunc {
	return func(e *fragments.Encoder, v reflect.Value) error {
		e.Bool(v.Bool())
		return nil
	}
}

func newIntEncoder(t reflect.Type) fragments.EncoderFunc {
	switch t.Size() {
	case 1:
		return func(e *fragments.Encoder, v reflect.Value) error {
			e.Int8(int8(v.Int()))
			return nil
		}
	case 4:
		return func(e *fragments.Encoder, v reflect.Value) error {
			e.Int32(int32(v.Int()))
			return nil
		}
	case 8:
		return func(e *fragments.Encoder, v reflect.Value) error {
			e.Int64(v.Int())
			return nil
		}
	default:
		panic("invalid newIntEncoder type")
	}
}

func newUintEncoder(t reflect.Type) fragments.EncoderFunc {
	switch t.Size() {
	case 1:
		return func(e *fragments.Encoder, v reflect.Value) error {
			e.Uint8(uint8(v.Uint()))
			return nil
		}
	case 2:
		return func(e *fragments.Encoder, v reflect.Value) error {
			e.Char(uint16(v.Uint()))
			return nil
		}
	default:
		panic("invalid newUintEncoder type")
	}
}

func newFloatEncoder(t reflect.Type) fragments.EncoderFunc {
	if t.Size() == 4 {
		return func(e *fragments.Encoder, v reflect.Value) error {
			e.Float32(float32(v.Float()))
			return nil
		}
	}
	return func(e *fragments.Encoder, v reflect.Value) error {
		e.Float64(v.Float())
		return nil
	}
}

func newStringEncoder() fragments.EncoderFunc {
	return func(e *fragments.Encoder, v reflect.Value) error {
		s := v.String()
		if !utf8.ValidString(s) {
			return &StringError{s}
		}
		e.String16(s)
		return nil
	}
}

func newSliceEncoder(t reflect.Type, stack []reflect.Type) (fragments.EncoderFunc, error) {
	if t.Kind() == reflect.Slice && reflect.TypeFor[[]byte]().ConvertibleTo(t) {
		// Fast path for []byte
		return func(e *fragments.Encoder, v reflect.Value) error {
			e.Bytes(v.Bytes())
			return nil
		}, nil
	}

	elemEnc, err := encoderForStack(t.Elem(), stack)
	if err != nil {
		return nil, err
	}

	fn := func(e *fragments.Encoder, v reflect.Value) error {
		if v.Kind() == reflect.Slice && v.IsNil() {
			e.NullSequence()
			return nil
		}
		return e.Sequence(v.Len(), func() error {
			for i := 0; i < v.Len(); i++ {
				if err := elemEnc(e, v.Index(i)); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return fn, nil
}

func newStructEncoder(t reflect.Type, stack []reflect.Type) (fragments.EncoderFunc, error) {
	fs, err := getStructInfo(t)
	if err != nil {
		return nil, typeErr(t, "getting struct info: %w", err)
	}
	if fs.Inline {
		if slices.Contains(stack, t) {
			return nil, typeErr(t, "recursive type")
		}
		return newFieldsEncoder(fs, append(stack, t))
	}

	rec, err := bareEncoderForStack(t, stack)
	if err != nil {
		return nil, err
	}
	return func(e *fragments.Encoder, v reflect.Value) error {
		e.Present(true)
		return rec(e, v)
	}, nil
}

func newRecordEncoder(t reflect.Type, stack []reflect.Type) (fragments.EncoderFunc, error) {
	fs, err := getStructInfo(t)
	if err != nil {
		return nil, typeErr(t, "getting struct info: %w", err)
	}
	if fs.Inline {
		return nil, typeErr(t, "inline structs cannot be encoded as records")
	}
	fields, err := newFieldsEncoder(fs, stack)
	if err != nil {
		return nil, err
	}
	return func(e *fragments.Encoder, v reflect.Value) error {
		return e.Record(func() error {
			return fields(e, v)
		})
	}, nil
}

// newFieldsEncoder returns an encoder that writes the fields of a
// struct back to back, with no framing.
func newFieldsEncoder(fs *structInfo, stack []reflect.Type) (fragments.EncoderFunc, error) {
	var frags []fragments.EncoderFunc
	for _, f := range fs.StructFields {
		fEnc, err := newStructFieldEncoder(f, stack)
		if err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", fs.Name, f.Name, err)
		}
		frags = append(frags, fEnc)
	}

	return func(e *fragments.Encoder, v reflect.Value) error {
		for _, frag := range frags {
			if err := frag(e, v); err != nil {
				return err
			}
		}
		return nil
	}, nil
}

// Note, the returned fragment encoder expects to be given the entire
// struct, not just the one field being encoded.
func newStructFieldEncoder(f *structField, stack []reflect.Type) (fragments.EncoderFunc, error) {
	fEnc, err := encoderForStack(f.Type, stack)
	if err != nil {
		return nil, err
	}
	fn := func(e *fragments.Encoder, v reflect.Value) error {
		fv := f.GetWithZero(v)
		return fEnc(e, fv)
	}
	return fn, nil
}

func newUnionEncoder(t reflect.Type, stack []reflect.Type) (fragments.EncoderFunc, error) {
	if lookupUnion(t) == nil {
		return nil, typeErr(t, "interface is not a registered union")
	}
	body, err := bareEncoderForStack(t, stack)
	if err != nil {
		return nil, err
	}
	return func(e *fragments.Encoder, v reflect.Value) error {
		if v.IsNil() {
			e.Present(false)
			return nil
		}
		e.Present(true)
		return body(e, v)
	}, nil
}

func newUnionBodyEncoder(t reflect.Type, stack []reflect.Type) (fragments.EncoderFunc, error) {
	info := lookupUnion(t)
	if info == nil {
		return nil, typeErr(t, "interface is not a registered union")
	}

	type altEncoder struct {
		tag int32
		enc fragments.EncoderFunc
	}
	alts := map[reflect.Type]altEncoder{}
	for _, alt := range info.Alts {
		enc, err := encoderForStack(alt.Type, stack)
		if err != nil {
			return nil, fmt.Errorf("alternative %s of %s: %w", alt.Name, info.Name, err)
		}
		alts[alt.Type] = altEncoder{alt.Tag, enc}
	}

	return func(e *fragments.Encoder, v reflect.Value) error {
		if v.IsNil() {
			return typeErr(t, "cannot encode nil union value")
		}
		inner := v.Elem()
		alt, ok := alts[inner.Type()]
		if !ok {
			return typeErr(t, "%s is not an alternative of %s", inner.Type(), info.Name)
		}
		return e.Union(alt.tag, func() error {
			return alt.enc(e, inner)
		})
	}, nil
}
