package parcel

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// SchemaFor returns the schema of T, rendered as AIDL-like
// declarations.
//
// The schema of a struct type is a parcelable declaration, and the
// schema of a registered union type is a union declaration. Both are
// followed by the declarations of any records and unions they
// reference, in the order they are first referenced.
//
//	parcelable PositionModeOptions {
//	    int mode;
//	    boolean lowPowerMode;
//	}
func SchemaFor[T any]() (string, error) {
	return SchemaForType(reflect.TypeFor[T]())
}

// SchemaOf returns the schema of v's type. To get the schema of a
// union from a union value, pass a pointer to the union interface.
func SchemaOf(v any) (string, error) {
	if v == nil {
		return "", typeErr(nil, "nil interface has no schema")
	}
	return SchemaForType(reflect.TypeOf(v))
}

var schemas cache[reflect.Type, string]

// SchemaForType returns the schema of t. See [SchemaFor].
func SchemaForType(t reflect.Type) (ret string, err error) {
	if ret, err := schemas.Get(t); err == nil {
		return ret, nil
	} else if !errors.Is(err, errNotFound) {
		return "", err
	}
	defer func(t reflect.Type) {
		if err != nil {
			schemas.SetErr(t, err)
		} else {
			schemas.Set(t, ret)
		}
	}(t)

	t = derefType(t)
	if t.Implements(marshalerType) || reflect.PointerTo(t).Implements(marshalerType) {
		return t.Name(), nil
	}
	w := &schemaWriter{}
	if err := w.declareField(t, nil); err != nil {
		return "", err
	}
	if (t.Kind() == reflect.Struct && inlineInfo(t) == nil) || t.Kind() == reflect.Interface {
		return strings.Join(w.decls, "\n"), nil
	}
	// Not a record or union, lead with the field type.
	tn, err := w.typeName(t, nil)
	if err != nil {
		return "", err
	}
	if len(w.decls) == 0 {
		return tn, nil
	}
	return strings.Join(append([]string{tn + "\n"}, w.decls...), "\n"), nil
}

// schemaWriter accumulates the declarations of a schema.
type schemaWriter struct {
	seen  []reflect.Type
	decls []string
}

// declare appends the declaration for t and the types it references,
// if t is a record or union that hasn't been declared yet.
func (w *schemaWriter) declare(t reflect.Type, stack []reflect.Type) error {
	if slices.Contains(stack, t) {
		return typeErr(t, "recursive type")
	}
	stack = append(stack, t)
	if slices.Contains(w.seen, t) {
		return nil
	}

	var ret strings.Builder
	switch {
	case t.Implements(marshalerType) || reflect.PointerTo(t).Implements(marshalerType):
		return nil
	case t.Kind() == reflect.Struct:
		fs, err := getStructInfo(t)
		if err != nil {
			return typeErr(t, "getting struct info: %w", err)
		}
		w.seen = append(w.seen, t)
		if fs.Inline {
			// Inline structs are spelled out at the point of use.
			for _, f := range fs.StructFields {
				if err := w.declareField(f.Type, stack); err != nil {
					return err
				}
			}
			return nil
		}
		idx := len(w.decls)
		w.decls = append(w.decls, "")
		fmt.Fprintf(&ret, "parcelable %s {\n", t.Name())
		if err := w.fields(&ret, fs, "", stack); err != nil {
			return err
		}
		ret.WriteString("}\n")
		w.decls[idx] = ret.String()
	case t.Kind() == reflect.Interface:
		info := lookupUnion(t)
		if info == nil {
			return typeErr(t, "interface is not a registered union")
		}
		w.seen = append(w.seen, t)
		idx := len(w.decls)
		w.decls = append(w.decls, "")
		fmt.Fprintf(&ret, "union %s {\n", t.Name())
		for _, alt := range info.Alts {
			if err := w.declareField(alt.Type, stack); err != nil {
				return err
			}
			tn, err := w.typeName(alt.Type, stack)
			if err != nil {
				return err
			}
			fmt.Fprintf(&ret, "    %s %s;\n", tn, alt.Name)
		}
		ret.WriteString("}\n")
		w.decls[idx] = ret.String()
	}
	return nil
}

// fields writes the field lines of fs, splicing in the fields of
// inline structs with their field name as a prefix.
func (w *schemaWriter) fields(ret *strings.Builder, fs *structInfo, prefix string, stack []reflect.Type) error {
	for _, f := range fs.StructFields {
		if err := w.declareField(f.Type, stack); err != nil {
			return err
		}
		if inner := inlineInfo(f.Type); inner != nil && len(inner.StructFields) != 1 {
			if err := w.fields(ret, inner, prefix+f.WireName+".", stack); err != nil {
				return err
			}
			continue
		}
		tn, err := w.typeName(f.Type, stack)
		if err != nil {
			return err
		}
		fmt.Fprintf(ret, "    %s %s%s;\n", tn, prefix, f.WireName)
	}
	return nil
}

func (w *schemaWriter) declareField(t reflect.Type, stack []reflect.Type) error {
	for t.Kind() == reflect.Pointer || t.Kind() == reflect.Slice || t.Kind() == reflect.Array {
		t = t.Elem()
	}
	return w.declare(t, stack)
}

// typeName returns the AIDL spelling of t as a field type.
func (w *schemaWriter) typeName(t reflect.Type, stack []reflect.Type) (string, error) {
	if t.Implements(marshalerType) || reflect.PointerTo(t).Implements(marshalerType) {
		return derefType(t).Name(), nil
	}
	if ret, ok := kindToAIDL[t.Kind()]; ok {
		return ret, nil
	}
	switch t.Kind() {
	case reflect.Pointer:
		inner, err := w.typeName(t.Elem(), stack)
		if err != nil {
			return "", err
		}
		return "@nullable " + inner, nil
	case reflect.Slice, reflect.Array:
		inner, err := w.typeName(t.Elem(), stack)
		if err != nil {
			return "", err
		}
		if t.Kind() == reflect.Array {
			return fmt.Sprintf("%s[%d]", inner, t.Len()), nil
		}
		return inner + "[]", nil
	case reflect.Struct:
		if inner := inlineInfo(t); inner != nil && len(inner.StructFields) == 1 {
			return w.typeName(inner.StructFields[0].Type, stack)
		}
		return t.Name(), nil
	case reflect.Interface:
		if lookupUnion(t) == nil {
			return "", typeErr(t, "interface is not a registered union")
		}
		return t.Name(), nil
	}
	if reason, ok := unportableKinds[t.Kind()]; ok {
		return "", typeErr(t, reason)
	}
	return "", typeErr(t, "no parcel mapping for type")
}

// inlineInfo returns the structInfo of t if t is an inline struct,
// or nil otherwise.
func inlineInfo(t reflect.Type) *structInfo {
	if t.Kind() != reflect.Struct {
		return nil
	}
	fs, err := getStructInfo(t)
	if err != nil || !fs.Inline {
		return nil
	}
	return fs
}
