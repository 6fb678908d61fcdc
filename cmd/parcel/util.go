package main

import (
	"bytes"
	"fmt"
	"io"
	"maps"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/danderson/parcel/hal/gnss"
	"github.com/danderson/parcel/hal/tuner"
)

// knownTypes are the types that can be named on the command line,
// keyed by their qualified Go name.
var knownTypes = func() map[string]reflect.Type {
	ret := map[string]reflect.Type{}
	for _, t := range []reflect.Type{
		reflect.TypeFor[gnss.PositionModeOptions](),
		reflect.TypeFor[tuner.FrontendStatus](),
		reflect.TypeFor[tuner.FrontendStatusAtsc3PlpInfo](),
		reflect.TypeFor[tuner.FrontendScanAtsc3PlpInfo](),
		reflect.TypeFor[tuner.FrontendModulationStatus](),
		reflect.TypeFor[tuner.FrontendModulation](),
		reflect.TypeFor[tuner.FrontendBandwidth](),
		reflect.TypeFor[tuner.FrontendGuardInterval](),
		reflect.TypeFor[tuner.FrontendTransmissionMode](),
		reflect.TypeFor[tuner.FrontendInterleaveMode](),
		reflect.TypeFor[tuner.FrontendRollOff](),
		reflect.TypeFor[tuner.AvStreamType](),
	} {
		ret[t.String()] = t
	}
	return ret
}()

func typeNames() []string {
	return slices.Sorted(maps.Keys(knownTypes))
}

// lookupType returns the known type called name. The package
// qualifier can be left off if the name is unambiguous.
func lookupType(name string) (reflect.Type, error) {
	if t := knownTypes[name]; t != nil {
		return t, nil
	}
	var found []string
	for _, k := range typeNames() {
		if _, short, _ := strings.Cut(k, "."); short == name {
			found = append(found, k)
		}
	}
	switch len(found) {
	case 0:
		return nil, fmt.Errorf("unknown type %q, see the types command", name)
	case 1:
		return knownTypes[found[0]], nil
	default:
		return nil, fmt.Errorf("type %q is ambiguous, could be any of %s", name, strings.Join(found, ", "))
	}
}

type indenter struct {
	prefix     string
	indentNext bool
	// out is where output goes, os.Stdout if nil.
	out io.Writer
}

func (i *indenter) f(msg string, args ...any) {
	fmt.Fprintf(i, msg+"\n", args...)
}

func (i *indenter) Write(bs []byte) (int, error) {
	out := i.out
	if out == nil {
		out = os.Stdout
	}
	ret := 0
	for len(bs) > 0 {
		if i.indentNext {
			i.indentNext = false
			_, err := io.WriteString(out, i.prefix)
			if err != nil {
				return ret, err
			}
		}

		wr := bs
		idx := bytes.IndexByte(bs, '\n')
		if idx >= 0 {
			i.indentNext = true
			wr, bs = bs[:idx+1], bs[idx+1:]
		} else {
			bs = nil
		}

		n, err := out.Write(wr)
		ret += n
		if err != nil {
			return ret, err
		}
	}
	return ret, nil
}

func (i *indenter) indent(n int) {
	i.prefix = strings.Repeat("  ", n)
}
