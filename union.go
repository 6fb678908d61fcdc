package parcel

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// unionInfo is the information about a registered union type.
type unionInfo struct {
	// Name is the union's name, for use in diagnostics.
	Name string
	// Type is the union's interface type.
	Type reflect.Type
	// Alts are the union's alternatives, indexed by discriminant.
	Alts []*unionAlt
}

// unionAlt is one alternative of a union.
type unionAlt struct {
	Union *unionInfo
	// Tag is the alternative's discriminant.
	Tag int32
	// Name is the alternative's name in schemas and error messages.
	Name string
	// Type is the alternative's concrete type.
	Type reflect.Type
}

var unions struct {
	sync.RWMutex
	byType map[reflect.Type]*unionInfo
	byAlt  map[reflect.Type]*unionAlt
}

func lookupUnion(t reflect.Type) *unionInfo {
	unions.RLock()
	defer unions.RUnlock()
	return unions.byType[t]
}

func lookupAlt(t reflect.Type) *unionAlt {
	unions.RLock()
	defer unions.RUnlock()
	return unions.byAlt[t]
}

// RegisterUnion registers the interface type U as a union, whose
// alternatives are the dynamic types of alts.
//
// Alternatives are assigned discriminants in argument order, starting
// at zero. The values of alts are only used for their types. The
// alternative names used in schemas are the Go type names of the
// alternatives, minus any prefix shared with the union's name, with
// the first letter lowercased: with union FrontendStatus, alternative
// FrontendStatusSnr is named "snr".
//
// Unions must be registered before any type containing them is first
// marshaled or unmarshaled, typically in an init function.
func RegisterUnion[U any](alts ...U) error {
	t := reflect.TypeFor[U]()
	if t.Kind() != reflect.Interface {
		return typeErr(t, "union type must be an interface")
	}
	if t.NumMethod() == 0 {
		return typeErr(t, "union interface must have at least one method")
	}
	if len(alts) == 0 {
		return typeErr(t, "union must have at least one alternative")
	}

	info := &unionInfo{
		Name: t.String(),
		Type: t,
	}
	var errs []error
	seen := map[reflect.Type]bool{}
	names := map[string]reflect.Type{}
	for i, alt := range alts {
		v := reflect.ValueOf(alt)
		if !v.IsValid() {
			errs = append(errs, fmt.Errorf("alternative %d is a nil interface", i))
			continue
		}
		at := v.Type()
		if seen[at] {
			errs = append(errs, fmt.Errorf("duplicate alternative type %s", at))
			continue
		}
		seen[at] = true
		name := altName(t, at)
		if prev, ok := names[name]; ok {
			errs = append(errs, fmt.Errorf("alternatives %s and %s have the same name %q", prev, at, name))
			continue
		}
		names[name] = at
		info.Alts = append(info.Alts, &unionAlt{
			Union: info,
			Tag:   int32(i),
			Name:  name,
			Type:  at,
		})
	}
	if len(errs) > 0 {
		return TypeError{t.String(), errors.Join(errs...)}
	}

	unions.Lock()
	defer unions.Unlock()
	if unions.byType == nil {
		unions.byType = map[reflect.Type]*unionInfo{}
		unions.byAlt = map[reflect.Type]*unionAlt{}
	}
	if _, ok := unions.byType[t]; ok {
		return typeErr(t, "union already registered")
	}
	for _, alt := range info.Alts {
		if prev := unions.byAlt[alt.Type]; prev != nil {
			return typeErr(t, "alternative %s is already an alternative of %s", alt.Type, prev.Union.Name)
		}
	}
	unions.byType[t] = info
	for _, alt := range info.Alts {
		unions.byAlt[alt.Type] = alt
	}
	return nil
}

// MustRegisterUnion is like [RegisterUnion], but panics on error.
func MustRegisterUnion[U any](alts ...U) {
	if err := RegisterUnion(alts...); err != nil {
		panic(err)
	}
}

// altName returns the schema name of alternative type at in union u.
func altName(u, at reflect.Type) string {
	name := derefType(at).Name()
	if name == "" {
		name = at.String()
	}
	if trimmed, ok := strings.CutPrefix(name, u.Name()); ok && trimmed != "" {
		name = trimmed
	}
	return lowerFirst(name)
}

// Default returns the default value of union U, which is the zero
// value of its first alternative. Default panics if U is not a
// registered union.
func Default[U any]() U {
	t := reflect.TypeFor[U]()
	info := lookupUnion(t)
	if info == nil {
		panic(typeErr(t, "not a registered union"))
	}
	return reflect.Zero(info.Alts[0].Type).Interface().(U)
}

// As returns the value held by union value u as alternative A. If u
// holds a different alternative, As returns an [*AccessError].
func As[A any](u any) (A, error) {
	var zero A
	want := lookupAlt(reflect.TypeFor[A]())
	if want == nil {
		return zero, typeErr(reflect.TypeFor[A](), "not an alternative of any registered union")
	}
	if u == nil {
		return zero, &AccessError{want.Union.Name, want.Name, "<nil>"}
	}
	have := lookupAlt(reflect.TypeOf(u))
	if have == nil || have.Union != want.Union {
		return zero, typeErr(reflect.TypeOf(u), "not an alternative of %s", want.Union.Name)
	}
	if have != want {
		return zero, &AccessError{want.Union.Name, want.Name, have.Name}
	}
	return u.(A), nil
}

// Discriminant returns the discriminant of the alternative held by
// union value u.
func Discriminant(u any) (int32, error) {
	alt, err := altOf(u)
	if err != nil {
		return 0, err
	}
	return alt.Tag, nil
}

// AlternativeName returns the name of the alternative held by union
// value u.
func AlternativeName(u any) (string, error) {
	alt, err := altOf(u)
	if err != nil {
		return "", err
	}
	return alt.Name, nil
}

func altOf(u any) (*unionAlt, error) {
	if u == nil {
		return nil, errors.New("nil union value")
	}
	alt := lookupAlt(reflect.TypeOf(u))
	if alt == nil {
		return nil, typeErr(reflect.TypeOf(u), "not an alternative of any registered union")
	}
	return alt, nil
}

// Alternative describes one alternative of a union.
type Alternative struct {
	// Tag is the alternative's discriminant.
	Tag int32
	// Name is the alternative's schema name.
	Name string
	// Type is the alternative's Go type.
	Type reflect.Type
}

// Alternatives returns the alternatives of union type t in
// discriminant order, or nil if t is not a registered union.
func Alternatives(t reflect.Type) []Alternative {
	info := lookupUnion(t)
	if info == nil {
		return nil
	}
	ret := make([]Alternative, 0, len(info.Alts))
	for _, alt := range info.Alts {
		ret = append(ret, Alternative{alt.Tag, alt.Name, alt.Type})
	}
	return ret
}

// IsUnion reports whether t is a registered union type.
func IsUnion(t reflect.Type) bool {
	return lookupUnion(t) != nil
}
