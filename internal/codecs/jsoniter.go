package codecs

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/danderson/parcel"
	jsoniter "github.com/json-iterator/go"
	"github.com/modern-go/reflect2"
)

var json = func() jsoniter.API {
	api := jsoniter.Config{
		EscapeHTML:             true,
		SortMapKeys:            true,
		ValidateJsonRawMessage: true,
	}.Froze()
	api.RegisterExtension(&parcelExtension{})
	return api
}()

// JSONIterCodec renders parcel values as JSON.
//
// Struct fields are named by their parcel wire names. A union value
// is an object with a single member, keyed by the alternative's name:
// {"snr": 42}. A nil union is null. Inline structs that only wrap a
// single value are rendered as that value.
//
// Union values lose their union type when passed to Marshal as an
// interface, so top-level unions must be given by pointer.
type JSONIterCodec struct {
	Indent bool
}

func NewJSONIter() *JSONIterCodec {
	return &JSONIterCodec{}
}

func (c *JSONIterCodec) Marshal(v any) ([]byte, error) {
	if c.Indent {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

func (c *JSONIterCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// parcelExtension teaches jsoniter about parcel's naming, unions and
// inline wrappers.
type parcelExtension struct {
	jsoniter.DummyExtension
}

var _ jsoniter.Extension = (*parcelExtension)(nil)

func (parcelExtension) UpdateStructDescriptor(sd *jsoniter.StructDescriptor) {
	fields, _, err := parcel.Fields(sd.Type.Type1())
	if err != nil {
		return
	}
	names := map[string]string{}
	for _, f := range fields {
		names[f.Name] = f.WireName
	}
	for _, b := range sd.Fields {
		name, ok := names[b.Field.Name()]
		if !ok {
			// Not part of the parcel, e.g. `parcel:"-"`.
			b.FromNames = []string{}
			b.ToNames = []string{}
			continue
		}
		b.FromNames = []string{name}
		b.ToNames = []string{name}
	}
}

func (parcelExtension) CreateEncoder(typ reflect2.Type) jsoniter.ValEncoder {
	t := typ.Type1()
	if parcel.IsUnion(t) {
		return unionEncoder{t}
	}
	if idx, ok := wrappedField(t); ok {
		return wrapperEncoder{t, idx}
	}
	return nil
}

func (parcelExtension) CreateDecoder(typ reflect2.Type) jsoniter.ValDecoder {
	t := typ.Type1()
	if parcel.IsUnion(t) {
		byName := map[string]reflect.Type{}
		for _, alt := range parcel.Alternatives(t) {
			byName[alt.Name] = alt.Type
		}
		return unionDecoder{t, byName}
	}
	if idx, ok := wrappedField(t); ok {
		return wrapperDecoder{t, idx}
	}
	return nil
}

// wrappedField returns the index of the wrapped field if t is an
// inline struct with a single direct field.
func wrappedField(t reflect.Type) (int, bool) {
	if t.Kind() != reflect.Struct {
		return 0, false
	}
	fields, inline, err := parcel.Fields(t)
	if err != nil || !inline || len(fields) != 1 {
		return 0, false
	}
	f, ok := t.FieldByName(fields[0].Name)
	if !ok || len(f.Index) != 1 {
		return 0, false
	}
	return f.Index[0], true
}

type unionEncoder struct {
	typ reflect.Type
}

func (e unionEncoder) IsEmpty(ptr unsafe.Pointer) bool {
	return reflect.NewAt(e.typ, ptr).Elem().IsNil()
}

func (e unionEncoder) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	v := reflect.NewAt(e.typ, ptr).Elem()
	if v.IsNil() {
		stream.WriteNil()
		return
	}
	name, err := parcel.AlternativeName(v.Interface())
	if err != nil {
		stream.Error = err
		return
	}
	stream.WriteObjectStart()
	stream.WriteObjectField(name)
	stream.WriteVal(v.Elem().Interface())
	stream.WriteObjectEnd()
}

type unionDecoder struct {
	typ    reflect.Type
	byName map[string]reflect.Type
}

func (d unionDecoder) Decode(ptr unsafe.Pointer, iter *jsoniter.Iterator) {
	v := reflect.NewAt(d.typ, ptr).Elem()
	if iter.ReadNil() {
		v.SetZero()
		return
	}
	n := 0
	iter.ReadObjectCB(func(iter *jsoniter.Iterator, field string) bool {
		n++
		if n > 1 {
			iter.ReportError("decode "+d.typ.String(), "union object has more than one member")
			return false
		}
		at, ok := d.byName[field]
		if !ok {
			iter.ReportError("decode "+d.typ.String(), fmt.Sprintf("no alternative named %q", field))
			return false
		}
		av := reflect.New(at)
		iter.ReadVal(av.Interface())
		v.Set(av.Elem())
		return iter.Error == nil
	})
	if n == 0 && iter.Error == nil {
		iter.ReportError("decode "+d.typ.String(), "union object has no members")
	}
}

type wrapperEncoder struct {
	typ reflect.Type
	idx int
}

func (e wrapperEncoder) IsEmpty(ptr unsafe.Pointer) bool {
	return reflect.NewAt(e.typ, ptr).Elem().Field(e.idx).IsZero()
}

func (e wrapperEncoder) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	// By pointer, so that interface fields keep their static type.
	stream.WriteVal(reflect.NewAt(e.typ, ptr).Elem().Field(e.idx).Addr().Interface())
}

type wrapperDecoder struct {
	typ reflect.Type
	idx int
}

func (d wrapperDecoder) Decode(ptr unsafe.Pointer, iter *jsoniter.Iterator) {
	iter.ReadVal(reflect.NewAt(d.typ, ptr).Elem().Field(d.idx).Addr().Interface())
}
