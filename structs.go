package parcel

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"
)

// Inline marks a struct as being inlined. A struct with a field of
// type Inline is laid out in parcels as its fields back to back,
// without the presence marker and length prefix that nested records
// normally carry.
//
// Inline structs cannot evolve compatibly, and are mostly useful to
// group a union with other values, or to give a union a presence
// marker of its own.
type Inline struct{}

var inlineType = reflect.TypeFor[Inline]()

// structField is the information about a struct field that needs to
// be marshaled/unmarshaled.
type structField struct {
	// Name is the Go field name.
	Name string
	// WireName is the field's name in schemas.
	WireName string
	Index    [][]int
	Type     reflect.Type
}

// GetWithZero loads the struct field from structVal. If loading
// requires traversing a nil pointer into an embedded struct,
// GetWithZero returns a non-settable zero value of the field.
func (f *structField) GetWithZero(structVal reflect.Value) reflect.Value {
	v := structVal
	for i, hop := range f.Index {
		if i > 0 {
			if v.IsNil() {
				return reflect.Zero(f.Type)
			}
			v = v.Elem()
		}
		v = v.FieldByIndex(hop)
	}
	return v
}

// GetWithAlloc loads the struct field from structVal. If loading
// requires traversing a nil pointer into an embedded struct,
// GetWithAlloc allocates zero values appropriately. The returned
// [reflect.Value] is settable.
func (f *structField) GetWithAlloc(structVal reflect.Value) reflect.Value {
	v := structVal
	for i, hop := range f.Index {
		if i > 0 {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.FieldByIndex(hop)
	}
	return v
}

func (f *structField) String() string {
	kindStr := ""
	if ks := f.Type.Kind().String(); ks != f.Type.String() {
		kindStr = fmt.Sprintf(" (%s)", ks)
	}
	return fmt.Sprintf("%s (%s): %s%s at %v", f.Name, f.WireName, f.Type, kindStr, f.Index)
}

// structInfo is the information about a struct relevant to
// marshaling/unmarshaling.
type structInfo struct {
	// Name is the struct's name, for use in diagnostics.
	Name string
	// Type is the struct's type, for use in diagnostics.
	Type reflect.Type
	// Inline, if true, specifies that the struct's fields are laid
	// out directly in the enclosing value, without record framing.
	Inline bool

	// StructFields is the information about each struct field
	// eligible for encoding/decoding, in wire order.
	StructFields []*structField
}

func (s *structInfo) String() string {
	var ret strings.Builder
	kind := "record"
	if s.Inline {
		kind = "inline"
	}
	fmt.Fprintf(&ret, "%s: %s, fields:\n", s.Name, kind)
	for _, f := range s.StructFields {
		ret.WriteString(f.String())
		ret.WriteByte('\n')
	}
	return ret.String()
}

// getStructInfo returns the structInfo for t.
//
// getStructInfo returns an error if t is not a struct, or if the
// struct is malformed in a way that prevents its use in parcels.
func getStructInfo(t reflect.Type) (*structInfo, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%s is not a struct", t)
	}

	ret := &structInfo{
		Name: t.String(),
		Type: t,
	}

	seen := map[string]string{}
	for field := range structFields(t, nil) {
		if field.Type == inlineType {
			ret.Inline = true
			continue
		}
		if !field.IsExported() {
			continue
		}
		name, skip := parseStructTag(field)
		if skip {
			continue
		}
		if prev, ok := seen[name]; ok {
			return nil, fmt.Errorf("fields %s and %s of %s both have wire name %q", prev, field.Name, ret.Name, name)
		}
		seen[name] = field.Name
		ret.StructFields = append(ret.StructFields, &structField{
			Name:     field.Name,
			WireName: name,
			Type:     field.Type,
			Index:    allocSteps(t, field.Index),
		})
	}

	return ret, nil
}

// Field describes a struct field as it appears in parcels.
type Field struct {
	// Name is the Go field name.
	Name string
	// WireName is the field's name in schemas.
	WireName string
	// Type is the field's Go type.
	Type reflect.Type
}

// Fields returns the fields of struct type t that are encoded in
// parcels, in wire order, and whether t is an inline struct.
func Fields(t reflect.Type) (fields []Field, inline bool, err error) {
	fs, err := getStructInfo(t)
	if err != nil {
		return nil, false, typeErr(t, "%w", err)
	}
	for _, f := range fs.StructFields {
		fields = append(fields, Field{f.Name, f.WireName, f.Type})
	}
	return fields, fs.Inline, nil
}

// parseStructTag returns the information contained in field's
// "parcel" struct tag.
func parseStructTag(field reflect.StructField) (name string, skip bool) {
	name = lowerFirst(field.Name)
	tag := field.Tag.Get("parcel")
	if tag == "-" {
		return "", true
	}
	for _, f := range strings.Split(tag, ",") {
		if val, ok := strings.CutPrefix(f, "name="); ok && val != "" {
			name = val
		}
	}
	return name, false
}

// lowerFirst returns s with the leading run of upper case letters
// lowercased, turning Go exported names into the camelCase names used
// by AIDL. "SNR" becomes "snr", "FooBar" becomes "fooBar", "URLPath"
// becomes "urlPath".
func lowerFirst(s string) string {
	rs := []rune(s)
	for i, r := range rs {
		if !unicode.IsUpper(r) {
			break
		}
		if i > 0 && i+1 < len(rs) && unicode.IsLower(rs[i+1]) {
			break
		}
		rs[i] = unicode.ToLower(r)
	}
	return string(rs)
}
