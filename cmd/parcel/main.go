package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/creachadair/command"
	"github.com/creachadair/flax"
	"github.com/danderson/parcel"
	"github.com/danderson/parcel/fragments"
	"github.com/danderson/parcel/internal/codecs"
	"github.com/danderson/parcel/internal/parcelgen"
	"github.com/kr/pretty"
)

var globalArgs struct {
	Order string `flag:"order,default=little,Byte order of parcels: little, big or native"`
}

func byteOrder() (fragments.ByteOrder, error) {
	ord := fragments.OrderByName(globalArgs.Order)
	if ord == nil {
		return nil, fmt.Errorf("unknown byte order %q", globalArgs.Order)
	}
	return ord, nil
}

func main() {
	root := &command.C{
		Name:     "parcel",
		Usage:    "command args...",
		SetFlags: command.Flags(flax.MustBind, &globalArgs),
		Commands: []*command.C{
			{
				Name:  "types",
				Usage: "types",
				Help:  "List the parcelables and unions this tool knows about.",
				Run:   command.Adapt(runTypes),
			},
			{
				Name:  "schema",
				Usage: "schema type",
				Help:  "Print the AIDL schema of a type.",
				Run:   command.Adapt(runSchema),
			},
			{
				Name:  "encode",
				Usage: "encode type json",
				Help: `Encode a JSON value as a parcel.

The JSON uses the field names shown by the schema command. Unions are
objects with a single member named after the active alternative, for
example {"snr": 42}.

If json is "-", the value is read from stdin.`,
				SetFlags: command.Flags(flax.MustBind, &encodeArgs),
				Run:      command.Adapt(runEncode),
			},
			{
				Name:  "decode",
				Usage: "decode type hex",
				Help: `Decode a hex encoded parcel.

Whitespace in the hex input is ignored. If hex is "-", the input is
read from stdin.`,
				SetFlags: command.Flags(flax.MustBind, &decodeArgs),
				Run:      command.Adapt(runDecode),
			},
			{
				Name:     "gen",
				Usage:    "gen file.aidl",
				Help:     "Generate Go types from AIDL parcelable, union and enum declarations.",
				SetFlags: command.Flags(flax.MustBind, &genArgs),
				Run:      command.Adapt(runGen),
			},
			command.HelpCommand(nil),
			command.VersionCommand(),
		},
	}

	env := root.NewEnv(nil)
	command.RunOrFail(env, os.Args[1:])
}

func runTypes(env *command.Env) error {
	var out indenter
	for _, name := range typeNames() {
		t := knownTypes[name]
		alts := parcel.Alternatives(t)
		if alts == nil {
			out.indent(0)
			out.f("%s (parcelable)", name)
			continue
		}
		out.indent(0)
		out.f("%s (union)", name)
		out.indent(1)
		for _, alt := range alts {
			out.f("%d %s: %s", alt.Tag, alt.Name, alt.Type)
		}
	}
	return nil
}

func runSchema(env *command.Env, typeName string) error {
	t, err := lookupType(typeName)
	if err != nil {
		return err
	}
	schema, err := parcel.SchemaForType(t)
	if err != nil {
		return fmt.Errorf("getting schema of %s: %w", t, err)
	}
	fmt.Print(schema)
	if !strings.HasSuffix(schema, "\n") {
		fmt.Println()
	}
	return nil
}

var encodeArgs struct {
	Dump bool `flag:"dump,Print a hex dump instead of plain hex"`
}

func runEncode(env *command.Env, typeName, js string) error {
	t, err := lookupType(typeName)
	if err != nil {
		return err
	}
	ord, err := byteOrder()
	if err != nil {
		return err
	}
	in, err := argOrStdin(js)
	if err != nil {
		return err
	}
	bs, err := encodeJSON(t, in, ord)
	if err != nil {
		return err
	}
	if encodeArgs.Dump {
		fmt.Print(hex.Dump(bs))
	} else {
		fmt.Println(hex.EncodeToString(bs))
	}
	return nil
}

// encodeJSON parses js as a JSON value of type t, and returns its
// parcel encoding.
func encodeJSON(t reflect.Type, js []byte, ord fragments.ByteOrder) ([]byte, error) {
	v := reflect.New(t)
	if err := codecs.NewJSONIter().Unmarshal(js, v.Interface()); err != nil {
		return nil, fmt.Errorf("parsing JSON %s: %w", t, err)
	}
	bs, err := codecs.NewParcel(ord).Marshal(v.Interface())
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", t, err)
	}
	return bs, nil
}

var decodeArgs struct {
	JSON bool `flag:"json,Print the value as JSON"`
}

func runDecode(env *command.Env, typeName, hexStr string) error {
	t, err := lookupType(typeName)
	if err != nil {
		return err
	}
	ord, err := byteOrder()
	if err != nil {
		return err
	}
	in, err := argOrStdin(hexStr)
	if err != nil {
		return err
	}
	bs, err := hex.DecodeString(strings.Join(strings.Fields(string(in)), ""))
	if err != nil {
		return fmt.Errorf("parsing hex: %w", err)
	}
	v, err := decodeParcel(t, bs, ord)
	if err != nil {
		return err
	}

	if decodeArgs.JSON {
		js, err := (&codecs.JSONIterCodec{Indent: true}).Marshal(v.Interface())
		if err != nil {
			return fmt.Errorf("rendering JSON: %w", err)
		}
		fmt.Println(string(js))
		return nil
	}
	fmt.Printf("%# v\n", pretty.Formatter(v.Elem().Interface()))
	return nil
}

// decodeParcel decodes bs as a parcel of type t, and returns a pointer
// to the decoded value.
func decodeParcel(t reflect.Type, bs []byte, ord fragments.ByteOrder) (reflect.Value, error) {
	v := reflect.New(t)
	if err := codecs.NewParcel(ord).Unmarshal(bs, v.Interface()); err != nil {
		return reflect.Value{}, fmt.Errorf("decoding %s: %w", t, err)
	}
	return v, nil
}

var genArgs struct {
	PackageName string `flag:"package,default=aidl,Package name to output"`
	OutFile     string `flag:"out,default=-,Output file path, or - for stdout"`
}

func runGen(env *command.Env, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	f, err := parcelgen.Parse(src)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	code, err := parcelgen.Go(f, genArgs.PackageName)
	if err != nil {
		return fmt.Errorf("generating Go for %s: %w", path, err)
	}

	if genArgs.OutFile == "-" {
		_, err := io.WriteString(os.Stdout, code)
		return err
	}
	if err := os.WriteFile(genArgs.OutFile, []byte(code), 0644); err != nil {
		return fmt.Errorf("writing generated code: %w", err)
	}
	fmt.Printf("Wrote generated package to %s\n", genArgs.OutFile)
	return nil
}

func argOrStdin(arg string) ([]byte, error) {
	if arg != "-" {
		return []byte(arg), nil
	}
	bs, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	if len(bs) == 0 {
		return nil, errors.New("no input on stdin")
	}
	return bs, nil
}
