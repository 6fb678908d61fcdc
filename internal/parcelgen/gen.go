// Package parcelgen generates Go types for AIDL parcelables, unions
// and enums.
package parcelgen

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"reflect"
	"strings"
	"unicode"

	"github.com/creachadair/mds/mapset"
	"github.com/danderson/parcel"
)

type generator struct {
	out   bytes.Buffer
	file  *File
	decls map[string]*Decl
	inits bytes.Buffer
	// usesParcel is whether the output refers to package parcel.
	usesParcel bool
}

// Go returns Go source declaring the types of f, in package pkg.
func Go(f *File, pkg string) (string, error) {
	if f == nil {
		return "", errors.New("no file provided")
	}
	if pkg == "" {
		return "", errors.New("no package name provided")
	}
	g := generator{
		file:  f,
		decls: map[string]*Decl{},
	}
	for _, d := range f.Decls {
		if g.decls[d.Name] != nil {
			return "", fmt.Errorf("%s declared more than once", d.Name)
		}
		g.decls[d.Name] = d
	}
	for _, d := range f.Decls {
		var err error
		switch d.Kind {
		case Parcelable:
			err = g.Parcelable(d)
		case Union:
			err = g.Union(d)
		case Enum:
			err = g.Enum(d)
		}
		if err != nil {
			return "", fmt.Errorf("%s %s: %w", d.Kind, d.Name, err)
		}
	}

	var src bytes.Buffer
	fmt.Fprintf(&src, "// Code generated by parcelgen. DO NOT EDIT.\n\npackage %s\n\n", pkg)
	if g.usesParcel {
		src.WriteString("import \"github.com/danderson/parcel\"\n\n")
	}
	src.Write(g.out.Bytes())
	if inits := g.inits.String(); len(inits) > 0 {
		fmt.Fprintf(&src, "func init() {\n%s\n}\n", strings.TrimSpace(inits))
	}

	ret, err := format.Source(src.Bytes())
	if err != nil {
		return src.String(), err
	}
	return string(ret), nil
}

func (g *generator) s(s string) {
	g.out.WriteString(s)
}

func (g *generator) f(msg string, args ...any) {
	fmt.Fprintf(&g.out, msg, args...)
}

func (g *generator) init(msg string, args ...any) {
	fmt.Fprintf(&g.inits, msg, args...)
}

// qualified returns the AIDL name of d, for doc comments.
func (g *generator) qualified(d *Decl) string {
	if g.file.Package == "" {
		return d.Name
	}
	return g.file.Package + "." + d.Name
}

func (g *generator) Parcelable(d *Decl) error {
	seen := mapset.New[string]()
	g.f("\n// %s is the AIDL parcelable %s.\ntype %s struct {\n", d.Name, g.qualified(d), d.Name)
	for _, f := range d.Fields {
		goName := publicIdentifier(f.Name)
		if seen.Has(goName) {
			return fmt.Errorf("field %s: Go name %s used more than once", f.Name, goName)
		}
		seen.Add(goName)
		typ, err := g.goType(f.Type)
		if err != nil {
			return fmt.Errorf("field %s: %w", f.Name, err)
		}
		g.f("%s %s", goName, typ)
		if wireName(goName) != f.Name {
			g.f(" `parcel:\"name=%s\"`", f.Name)
		}
		g.s("\n")
	}
	g.s("}\n")
	return nil
}

func (g *generator) Union(d *Decl) error {
	g.usesParcel = true
	method := "is" + d.Name

	seen := mapset.New[string]()
	var simple, wrappers []string
	zeros := make([]string, 0, len(d.Fields))
	for _, f := range d.Fields {
		altType := d.Name + publicIdentifier(f.Name)
		if wireName(publicIdentifier(f.Name)) != f.Name {
			return fmt.Errorf("alternative %s has no Go spelling that round-trips", f.Name)
		}
		if seen.Has(altType) {
			return fmt.Errorf("alternative %s: Go name %s used more than once", f.Name, altType)
		}
		seen.Add(altType)
		typ, err := g.goType(f.Type)
		if err != nil {
			return fmt.Errorf("alternative %s: %w", f.Name, err)
		}
		if g.isUnion(f.Type) {
			// A union nested in a union needs an inline wrapper to get
			// its presence marker.
			wrappers = append(wrappers, fmt.Sprintf("type %s struct {\nparcel.Inline\nValue %s\n}\n", altType, typ))
			zeros = append(zeros, altType+"{}")
			continue
		}
		simple = append(simple, fmt.Sprintf("%s %s\n", altType, typ))
		zeros = append(zeros, altType+g.zero(f.Type))
	}

	g.f("\n// %s is the AIDL union %s.\ntype %s interface{ %s() }\n\n", d.Name, g.qualified(d), d.Name, method)
	if len(simple) > 0 {
		g.s("type (\n")
		for _, s := range simple {
			g.s(s)
		}
		g.s(")\n\n")
	}
	for _, w := range wrappers {
		g.s(w)
		g.s("\n")
	}
	for _, f := range d.Fields {
		g.f("func (%s%s) %s() {}\n", d.Name, publicIdentifier(f.Name), method)
	}

	g.init("parcel.MustRegisterUnion[%s](\n", d.Name)
	for _, z := range zeros {
		g.init("%s,\n", z)
	}
	g.init(")\n")
	return nil
}

var enumGoTypes = map[string]string{
	"byte": "int8",
	"int":  "int32",
	"long": "int64",
}

var enumBits = map[string]uint{
	"byte": 8,
	"int":  32,
	"long": 64,
}

func (g *generator) Enum(d *Decl) error {
	if len(d.Enumerators) == 0 {
		return errors.New("enum has no values")
	}
	g.f("\n// %s is the AIDL enum %s.\ntype %s %s\n\nconst (\n", d.Name, g.qualified(d), d.Name, enumGoTypes[d.Backing])
	seen := mapset.New[string]()
	for _, e := range d.Enumerators {
		name := d.Name + constIdentifier(e.Name)
		if seen.Has(name) {
			return fmt.Errorf("enumerator %s: Go name %s used more than once", e.Name, name)
		}
		seen.Add(name)
		if bits := enumBits[d.Backing]; bits < 64 {
			if lim := int64(1) << (bits - 1); e.Value < -lim || e.Value >= lim {
				return fmt.Errorf("enumerator %s: value %d overflows %s", e.Name, e.Value, d.Backing)
			}
		}
		g.f("%s %s = %s\n", name, d.Name, e.Expr)
	}
	g.s(")\n")
	return nil
}

var aidlToGo = map[string]string{
	"boolean": "bool",
	"byte":    "int8",
	"char":    "uint16",
	"int":     "int32",
	"long":    "int64",
	"float":   "float32",
	"double":  "float64",
	"String":  "string",
}

// goType returns the Go spelling of t.
func (g *generator) goType(t *Type) (string, error) {
	var elem string
	switch {
	case t.Name == "byte" && t.Array:
		// Byte arrays are raw bytes on the wire, which []byte reads
		// and writes in one go.
		elem = "byte"
	case aidlToGo[t.Name] != "":
		elem = aidlToGo[t.Name]
	case g.decls[t.Name] != nil:
		elem = t.Name
	default:
		return "", fmt.Errorf("unknown type %q", t.Name)
	}

	switch {
	case t.Len > 0:
		return fmt.Sprintf("[%d]%s", t.Len, elem), nil
	case t.Array:
		return "[]" + elem, nil
	case t.Nullable && (t.Name == "String" || g.isParcelable(t)):
		return "*" + elem, nil
	}
	return elem, nil
}

func (g *generator) isParcelable(t *Type) bool {
	d := g.decls[t.Name]
	return d != nil && d.Kind == Parcelable
}

func (g *generator) isUnion(t *Type) bool {
	d := g.decls[t.Name]
	return d != nil && d.Kind == Union && !t.Array
}

// zero returns a conversion of the zero value of t, to append to a
// named type derived from t.
func (g *generator) zero(t *Type) string {
	switch {
	case t.Len > 0:
		return "{}"
	case t.Array:
		return "(nil)"
	case t.Name == "String":
		if t.Nullable {
			return "(nil)"
		}
		return `("")`
	case t.Name == "boolean":
		return "(false)"
	case g.isParcelable(t):
		if t.Nullable {
			return "(nil)"
		}
		return "{}"
	}
	return "(0)"
}

// wireName returns the name parcel gives to a struct field called
// goName, absent a name tag.
func wireName(goName string) string {
	st := reflect.StructOf([]reflect.StructField{{
		Name: goName,
		Type: reflect.TypeFor[int32](),
	}})
	fs, _, err := parcel.Fields(st)
	if err != nil || len(fs) != 1 {
		panic(fmt.Sprintf("parcel can't describe field %s: %v", goName, err))
	}
	return fs[0].WireName
}

// publicIdentifier turns an AIDL field name into an exported Go
// identifier.
func publicIdentifier(s string) string {
	fs := strings.Split(s, "_")
	for i, f := range fs {
		fs[i] = upperFirst(f)
	}
	return strings.Join(fs, "")
}

// constIdentifier turns an AIDL enumerator name, usually
// SHOUTING_SNAKE_CASE, into the tail of a Go constant name.
func constIdentifier(s string) string {
	if strings.ToUpper(s) != s {
		return publicIdentifier(s)
	}
	fs := strings.Split(strings.ToLower(s), "_")
	for i, f := range fs {
		switch f {
		case "id":
			fs[i] = "ID"
		default:
			fs[i] = upperFirst(f)
		}
	}
	return strings.Join(fs, "")
}

func upperFirst(s string) string {
	rs := []rune(s)
	if len(rs) > 0 {
		rs[0] = unicode.ToUpper(rs[0])
	}
	return string(rs)
}
