package parcel

import (
	"errors"
	"fmt"
	"log"
	"reflect"
	"slices"

	"github.com/danderson/parcel/fragments"
)

// Unmarshal decodes the little-endian parcel encoding in data and
// stores the result in the value pointed to by v. If v is nil or not
// a pointer, Unmarshal returns a [TypeError].
//
// Generally, Unmarshal applies the inverse of the rules used by
// [Marshal]. Parcels do not embed their schema, so it is up to the
// caller to know the expected type and match it. If data continues
// past the end of the decoded value, Unmarshal returns a
// [*TrailingDataError].
//
// Unmarshal traverses the value v recursively. If an encountered
// value implements [Unmarshaler], Unmarshal calls UnmarshalParcel to
// unmarshal it. Types implementing [Unmarshaler] must implement
// UnmarshalParcel with a pointer receiver. Attempting to unmarshal
// using an UnmarshalParcel method with a value receiver results in a
// [TypeError].
//
// Records are decoded compatibly with other versions of their
// schema. If a record is shorter than the target struct, the
// remaining fields keep the values they had before Unmarshal was
// called. If a record is longer than the target struct, the
// additional trailing fields are skipped. Record framing errors are
// reported as [*FramingError] and [*OverflowError].
//
// Union discriminants must name one of the alternatives registered
// for the target union, or Unmarshal returns an
// [*UnknownDiscriminantError]. Unions have no framing, so unknown
// alternatives cannot be skipped.
//
// If v points to a value of a union alternative type, data must hold
// a bare union whose active alternative is of that type. Otherwise
// Unmarshal returns an [*AccessError].
//
// When decoding into a slice, Unmarshal allocates a new slice of the
// received length, or sets the slice to nil for a null sequence. When
// decoding into an array, the received length must match the array's
// length.
//
// Nullable values (*T, *string and union interfaces) are set to nil
// when their presence marker or length says they are absent, and
// allocated as needed otherwise. A non-pointer struct field whose
// presence marker is absent is set to its zero value.
func Unmarshal(data []byte, v any) error {
	return UnmarshalOrder(data, fragments.LittleEndian, v)
}

// UnmarshalOrder is like [Unmarshal], but uses the given byte order.
func UnmarshalOrder(data []byte, ord fragments.ByteOrder, v any) error {
	d := fragments.Decoder{
		Order:  ord,
		Mapper: decoderFor,
		In:     data,
	}
	if err := unmarshal(&d, v); err != nil {
		return err
	}
	if n := d.Remaining(); n > 0 {
		return &TrailingDataError{n}
	}
	return nil
}

func unmarshal(d *fragments.Decoder, v any) error {
	if v == nil {
		return typeErr(nil, "can't unmarshal into nil interface")
	}
	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Pointer {
		return typeErr(val.Type(), "can't unmarshal into a non-pointer")
	}
	if val.IsNil() {
		return typeErr(val.Type(), "can't unmarshal into a nil pointer")
	}
	dec, err := topDecoderFor(val.Type().Elem())
	if err != nil {
		return err
	}
	return dec(d, val.Elem())
}

// Unmarshaler is the interface implemented by types that can
// unmarshal themselves.
//
// UnmarshalParcel must have a pointer receiver. If Unmarshal
// encounters an Unmarshaler whose UnmarshalParcel method takes a
// value receiver, it will return a [TypeError].
//
// UnmarshalParcel is responsible for consuming the entire field
// encoding of the value, including any presence marker or record
// framing.
type Unmarshaler interface {
	UnmarshalParcel(d *fragments.Decoder) error
}

var unmarshalerType = reflect.TypeFor[Unmarshaler]()

const debugDecoders = false

func debugDecoder(msg string, args ...any) {
	if !debugDecoders {
		return
	}
	log.Printf(msg, args...)
}

// topDecoderFor returns the decoder for a top-level value of type t.
func topDecoderFor(t reflect.Type) (fragments.DecoderFunc, error) {
	if alt := lookupAlt(t); alt != nil {
		return newUnionAsAltDecoder(alt)
	}
	if reflect.PointerTo(t).Implements(unmarshalerType) {
		return decoderFor(t)
	}
	if t.Kind() == reflect.Struct || (t.Kind() == reflect.Interface && lookupUnion(t) != nil) {
		return bareDecoderFor(t)
	}
	if t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct {
		elem := t.Elem()
		dec, err := bareDecoderFor(elem)
		if err != nil {
			return nil, err
		}
		return func(d *fragments.Decoder, v reflect.Value) error {
			if v.IsNil() {
				v.Set(reflect.New(elem))
			}
			return dec(d, v.Elem())
		}, nil
	}
	return decoderFor(t)
}

// newUnionAsAltDecoder returns a decoder that reads a bare union and
// stores its value, which must be of alt's type.
func newUnionAsAltDecoder(alt *unionAlt) (fragments.DecoderFunc, error) {
	ut := alt.Union.Type
	dec, err := bareDecoderFor(ut)
	if err != nil {
		return nil, err
	}
	return func(d *fragments.Decoder, v reflect.Value) error {
		u := reflect.New(ut).Elem()
		if err := dec(d, u); err != nil {
			return err
		}
		got := u.Elem()
		if got.Type() != alt.Type {
			return &AccessError{alt.Union.Name, alt.Name, lookupAlt(got.Type()).Name}
		}
		v.Set(got)
		return nil
	}, nil
}

var (
	decoders     cache[reflect.Type, fragments.DecoderFunc]
	bareDecoders cache[reflect.Type, fragments.DecoderFunc]
)

// decoderFor returns the field decoder func for the given type, if
// the type is representable in the parcel wire format.
func decoderFor(t reflect.Type) (fragments.DecoderFunc, error) {
	return decoderForStack(t, nil)
}

// bareDecoderFor returns the decoder for a record or union of type t,
// without the presence marker that precedes them in fields.
func bareDecoderFor(t reflect.Type) (fragments.DecoderFunc, error) {
	return bareDecoderForStack(t, nil)
}

func decoderForStack(t reflect.Type, stack []reflect.Type) (ret fragments.DecoderFunc, err error) {
	debugDecoder("decoderFor(%s)", t)
	if ret, err := decoders.Get(t); err == nil {
		debugDecoder("%s (cached)", t)
		return ret, nil
	} else if !errors.Is(err, errNotFound) {
		return nil, err
	}
	// Note, defer captures the type value before we mess with it
	// below.
	defer func(t reflect.Type) {
		if err != nil {
			decoders.SetErr(t, err)
		} else {
			decoders.Set(t, ret)
		}
	}(t)

	// We only want Unmarshalers with pointer receivers, since a value
	// receiver would silently discard the results of the
	// UnmarshalParcel call and lead to confusing bugs. There are two
	// cases we need to look for.
	//
	// The first is a pointer that implements Unmarshaler, and whose
	// pointed-to type does not implement Unmarshaler. This means the
	// type implements Unmarshaler with pointer receivers, and we can
	// call it.
	//
	// The second is a value that does not implement Unmarshaler, but
	// whose pointer does. In that case, we can take the value's
	// address and use the pointer unmarshaler. Unmarshal only hands
	// us values that are addressable, so we don't need an
	// addressability check to do this.
	isPtr := t.Kind() == reflect.Pointer
	if t.Implements(unmarshalerType) {
		if !isPtr || t.Elem().Implements(unmarshalerType) {
			return nil, typeErr(t, "refusing to use parcel.Unmarshaler implementation with value receiver, Unmarshalers must use pointer receivers.")
		}
		// First case, can unmarshal into pointer.
		debugDecoder("%s (Unmarshaler)", t)
		return newMarshalDecoder(t), nil
	} else if !isPtr && reflect.PointerTo(t).Implements(unmarshalerType) {
		// Second case, unmarshal into value.
		debugDecoder("%s (Unmarshaler, addressable)", t)
		return newAddrMarshalDecoder(t), nil
	}

	switch t.Kind() {
	case reflect.Pointer:
		// Note, pointers to Unmarshaler are handled above.
		return newPtrDecoder(t, stack)
	case reflect.Bool:
		return newBoolDecoder(), nil
	case reflect.Int8, reflect.Int32, reflect.Int64:
		return newIntDecoder(t), nil
	case reflect.Uint8, reflect.Uint16:
		return newUintDecoder(t), nil
	case reflect.Float32, reflect.Float64:
		return newFloatDecoder(t), nil
	case reflect.String:
		return newStringDecoder(), nil
	case reflect.Slice:
		return newSliceDecoder(t, stack)
	case reflect.Array:
		return newArrayDecoder(t, stack)
	case reflect.Struct:
		return newStructDecoder(t, stack)
	case reflect.Interface:
		return newUnionDecoder(t, stack)
	}
	if reason, ok := unportableKinds[t.Kind()]; ok {
		return nil, typeErr(t, reason)
	}
	return nil, typeErr(t, "no parcel mapping for type")
}

func bareDecoderForStack(t reflect.Type, stack []reflect.Type) (ret fragments.DecoderFunc, err error) {
	debugDecoder("bareDecoderFor(%s)", t)
	if ret, err := bareDecoders.Get(t); err == nil {
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
			bareDecoders.SetErr(t, err)
		} else {
			bareDecoders.Set(t, ret)
		}
	}(t)

	switch t.Kind() {
	case reflect.Struct:
		return newRecordDecoder(t, stack)
	case reflect.Interface:
		return newUnionBodyDecoder(t, stack)
	}
	return nil, typeErr(t, "only structs and unions can be decoded as records")
}

func newAddrMarshalDecoder(t reflect.Type) fragments.DecoderFunc {
	ptr := newMarshalDecoder(reflect.PointerTo(t))
	return func(d *fragments.Decoder, v reflect.Value) error {
		return ptr(d, v.Addr())
	}
}

func newMarshalDecoder(t reflect.Type) fragments.DecoderFunc {
	return func(d *fragments.Decoder, v reflect.Value) error {
		if v.IsNil() {
			elem := reflect.New(t.Elem())
			v.Set(elem)
		}
		m := v.Interface().(Unmarshaler)
		return m.UnmarshalParcel(d)
	}
}

func newPtrDecoder(t reflect.Type, stack []reflect.Type) (fragments.DecoderFunc, error) {
	elem := t.Elem()
	switch elem.Kind() {
	case reflect.String:
		return func(d *fragments.Decoder, v reflect.Value) error {
			s, err := d.NullString16()
			if err != nil {
				return err
			}
			if s == nil {
				v.SetZero()
				return nil
			}
			nv := reflect.New(elem)
			nv.Elem().SetString(*s)
			v.Set(nv)
			return nil
		}, nil
	case reflect.Struct:
		fs, err := getStructInfo(elem)
		if err != nil {
			return nil, typeErr(t, "getting struct info: %w", err)
		}
		if fs.Inline {
			return nil, typeErr(t, "inline structs have no null representation, cannot use pointer")
		}
		rec, err := bareDecoderForStack(elem, stack)
		if err != nil {
			return nil, err
		}
		return func(d *fragments.Decoder, v reflect.Value) error {
			present, err := d.Present()
			if err != nil {
				return err
			}
			if !present {
				v.SetZero()
				return nil
			}
			if v.IsNil() {
				if !v.CanSet() {
					panic("got an unsettable nil pointer, should be impossible!")
				}
				nv := reflect.New(elem)
				if err := rec(d, nv.Elem()); err != nil {
					return err
				}
				v.Set(nv)
				return nil
			}
			return rec(d, v.Elem())
		}, nil
	}
	return nil, typeErr(t, "pointers are only supported to structs and strings")
}

func newBoolDecoder() fragments.DecoderFunc {
	return func(d *fragments.Decoder, v reflect.Value) error {
		b, err := d.Bool()
		if err != nil {
			return err
		}
		v.SetBool(b)
		return nil
	}
}

func newIntDecoder(t reflect.Type) fragments.DecoderFunc {
	switch t.Size() {
	case 1:
		return func(d *fragments.Decoder, v reflect.Value) error {
			i8, err := d.Int8()
			if err != nil {
				return err
			}
			v.SetInt(int64(i8))
			return nil
		}
	case 4:
		return func(d *fragments.Decoder, v reflect.Value) error {
			i32, err := d.Int32()
			if err != nil {
				return err
			}
			v.SetInt(int64(i32))
			return nil
		}
	case 8:
		return func(d *fragments.Decoder, v reflect.Value) error {
			i64, err := d.Int64()
			if err != nil {
				return err
			}
			v.SetInt(i64)
			return nil
		}
	default:
		panic("invalid newIntDecoder type")
	}
}

func newUintDecoder(t reflect.Type) fragments.DecoderFunc {
	switch t.Size() {
	case 1:
		return func(d *fragments.Decoder, v reflect.Value) error {
			u8, err := d.Uint8()
			if err != nil {
				return err
			}
			v.SetUint(uint64(u8))
			return nil
		}
	case 2:
		return func(d *fragments.Decoder, v reflect.Value) error {
			c, err := d.Char()
			if err != nil {
				return err
			}
			v.SetUint(uint64(c))
			return nil
		}
	default:
		panic("invalid newUintDecoder type")
	}
}

func newFloatDecoder(t reflect.Type) fragments.DecoderFunc {
	if t.Size() == 4 {
		return func(d *fragments.Decoder, v reflect.Value) error {
			f, err := d.Float32()
			if err != nil {
				return err
			}
			v.SetFloat(float64(f))
			return nil
		}
	}
	return func(d *fragments.Decoder, v reflect.Value) error {
		f, err := d.Float64()
		if err != nil {
			return err
		}
		v.SetFloat(f)
		return nil
	}
}

func newStringDecoder() fragments.DecoderFunc {
	return func(d *fragments.Decoder, v reflect.Value) error {
		s, err := d.String16()
		if err != nil {
			return err
		}
		v.SetString(s)
		return nil
	}
}

func newSliceDecoder(t reflect.Type, stack []reflect.Type) (fragments.DecoderFunc, error) {
	if reflect.TypeFor[[]byte]().ConvertibleTo(t) {
		// Fast path for []byte
		return func(d *fragments.Decoder, v reflect.Value) error {
			bs, err := d.Bytes()
			if err != nil {
				return err
			}
			if bs == nil {
				v.SetZero()
				return nil
			}
			v.Set(reflect.ValueOf(bs).Convert(t))
			return nil
		}, nil
	}

	elemDec, err := decoderForStack(t.Elem(), stack)
	if err != nil {
		return nil, err
	}

	fn := func(d *fragments.Decoder, v reflect.Value) error {
		n, err := d.Sequence()
		if err != nil {
			return err
		}
		if n < 0 {
			v.SetZero()
			return nil
		}
		nv := reflect.MakeSlice(t, n, n)
		for i := range n {
			if err := elemDec(d, nv.Index(i)); err != nil {
				return fmt.Errorf("element %d of %s: %w", i, t, err)
			}
		}
		v.Set(nv)
		return nil
	}
	return fn, nil
}

func newArrayDecoder(t reflect.Type, stack []reflect.Type) (fragments.DecoderFunc, error) {
	elemDec, err := decoderForStack(t.Elem(), stack)
	if err != nil {
		return nil, err
	}

	fn := func(d *fragments.Decoder, v reflect.Value) error {
		n, err := d.Sequence()
		if err != nil {
			return err
		}
		if n != t.Len() {
			return fmt.Errorf("sequence of length %d does not fit in %s", n, t)
		}
		for i := range n {
			if err := elemDec(d, v.Index(i)); err != nil {
				return fmt.Errorf("element %d of %s: %w", i, t, err)
			}
		}
		return nil
	}
	return fn, nil
}

func newStructDecoder(t reflect.Type, stack []reflect.Type) (fragments.DecoderFunc, error) {
	fs, err := getStructInfo(t)
	if err != nil {
		return nil, typeErr(t, "getting struct info: %w", err)
	}
	if fs.Inline {
		if slices.Contains(stack, t) {
			return nil, typeErr(t, "recursive type")
		}
		frags, err := newFieldDecoders(fs, append(stack, t))
		if err != nil {
			return nil, err
		}
		return func(d *fragments.Decoder, v reflect.Value) error {
			for _, frag := range frags {
				if err := frag(d, v); err != nil {
					return err
				}
			}
			return nil
		}, nil
	}

	rec, err := bareDecoderForStack(t, stack)
	if err != nil {
		return nil, err
	}
	return func(d *fragments.Decoder, v reflect.Value) error {
		present, err := d.Present()
		if err != nil {
			return err
		}
		if !present {
			v.SetZero()
			return nil
		}
		return rec(d, v)
	}, nil
}

func newRecordDecoder(t reflect.Type, stack []reflect.Type) (fragments.DecoderFunc, error) {
	fs, err := getStructInfo(t)
	if err != nil {
		return nil, typeErr(t, "getting struct info: %w", err)
	}
	if fs.Inline {
		return nil, typeErr(t, "inline structs cannot be decoded as records")
	}
	frags, err := newFieldDecoders(fs, stack)
	if err != nil {
		return nil, err
	}
	return func(d *fragments.Decoder, v reflect.Value) error {
		err := d.Record(len(frags), func(i int) error {
			return frags[i](d, v)
		})
		if err != nil {
			return fmt.Errorf("decoding %s: %w", fs.Name, err)
		}
		return nil
	}, nil
}

// newFieldDecoders returns decoders for each field of a struct, in
// wire order.
//
// Note, the returned fragment decoders expect to be given the entire
// struct, not just the one field being decoded.
func newFieldDecoders(fs *structInfo, stack []reflect.Type) ([]fragments.DecoderFunc, error) {
	var frags []fragments.DecoderFunc
	for _, f := range fs.StructFields {
		fDec, err := decoderForStack(f.Type, stack)
		if err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", fs.Name, f.Name, err)
		}
		frags = append(frags, func(d *fragments.Decoder, v reflect.Value) error {
			fv := f.GetWithAlloc(v)
			return fDec(d, fv)
		})
	}
	return frags, nil
}

func newUnionDecoder(t reflect.Type, stack []reflect.Type) (fragments.DecoderFunc, error) {
	if lookupUnion(t) == nil {
		return nil, typeErr(t, "interface is not a registered union")
	}
	body, err := bareDecoderForStack(t, stack)
	if err != nil {
		return nil, err
	}
	return func(d *fragments.Decoder, v reflect.Value) error {
		present, err := d.Present()
		if err != nil {
			return err
		}
		if !present {
			v.SetZero()
			return nil
		}
		return body(d, v)
	}, nil
}

func newUnionBodyDecoder(t reflect.Type, stack []reflect.Type) (fragments.DecoderFunc, error) {
	info := lookupUnion(t)
	if info == nil {
		return nil, typeErr(t, "interface is not a registered union")
	}

	decs := make([]fragments.DecoderFunc, len(info.Alts))
	for i, alt := range info.Alts {
		dec, err := decoderForStack(alt.Type, stack)
		if err != nil {
			return nil, fmt.Errorf("alternative %s of %s: %w", alt.Name, info.Name, err)
		}
		decs[i] = dec
	}

	return func(d *fragments.Decoder, v reflect.Value) error {
		err := d.Union(len(decs), func(tag int32) error {
			alt := info.Alts[tag]
			nv := reflect.New(alt.Type).Elem()
			if err := decs[tag](d, nv); err != nil {
				return fmt.Errorf("decoding %s.%s: %w", info.Name, alt.Name, err)
			}
			v.Set(nv)
			return nil
		})
		if ude, ok := err.(*UnknownDiscriminantError); ok && ude.Union == "" {
			ude.Union = info.Name
		}
		return err
	}, nil
}
