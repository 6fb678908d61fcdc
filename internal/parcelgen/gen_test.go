package parcelgen_test

import (
	"embed"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danderson/parcel/internal/parcelgen"
	"github.com/google/go-cmp/cmp"
)

//go:embed testdata
var testdata embed.FS

func TestGen(t *testing.T) {
	tests := []struct {
		file string
		pkg  string
		want []string
	}{
		{
			"gnss.aidl",
			"gnss",
			[]string{
				"package gnss",
				"type PositionModeOptions struct{Mode GnssPositionMode; Recurrence GnssPositionRecurrence; MinIntervalMs int32; PreferredAccuracyMeters int32; PreferredTimeMs int32; LowPowerMode bool}",
				"type GnssPositionMode int32",
				"const GnssPositionModeStandalone GnssPositionMode = 0",
				"const GnssPositionModeMsBased GnssPositionMode = 1",
				"const GnssPositionModeMsAssisted GnssPositionMode = 2",
				"type GnssPositionRecurrence int32",
				"const GnssPositionRecurrenceRecurrencePeriodic GnssPositionRecurrence = 0",
				"const GnssPositionRecurrenceRecurrenceSingle GnssPositionRecurrence = 1",
			},
		},
		{
			"status.aidl",
			"tuner",
			[]string{
				"package tuner",
				`import "github.com/danderson/parcel"`,
				"type FrontendStatusAtsc3PlpInfo struct{PlpId int32; IsLocked bool; Uec int32}",
				"type Naming struct{MURL int32 `parcel:\"name=mURL\"`; SnakeCaseName *string `parcel:\"name=snake_case_name\"`; Initials [4]uint16; Tags []string}",
				"type FrontendModulationStatus interface{isFrontendModulationStatus()}",
				"type FrontendModulationStatusDvbc int32",
				"type FrontendModulationStatusDvbs int32",
				"method FrontendModulationStatusDvbc.isFrontendModulationStatus",
				"method FrontendModulationStatusDvbs.isFrontendModulationStatus",
				"type FrontendStatus interface{isFrontendStatus()}",
				"type FrontendStatusIsDemodLocked bool",
				"type FrontendStatusSnr int32",
				"type FrontendStatusUrl *string",
				"type FrontendStatusPlpInfo []FrontendStatusAtsc3PlpInfo",
				"type FrontendStatusCodeRates []int64",
				"type FrontendStatusRaw []byte",
				"type FrontendStatusSingle FrontendStatusAtsc3PlpInfo",
				"type FrontendStatusInnerFec FrontendInnerFec",
				"type FrontendStatusModulationStatus struct{parcel.Inline; Value FrontendModulationStatus}",
				"method FrontendStatusIsDemodLocked.isFrontendStatus",
				"method FrontendStatusSnr.isFrontendStatus",
				"method FrontendStatusUrl.isFrontendStatus",
				"method FrontendStatusModulationStatus.isFrontendStatus",
				"method FrontendStatusPlpInfo.isFrontendStatus",
				"method FrontendStatusCodeRates.isFrontendStatus",
				"method FrontendStatusRaw.isFrontendStatus",
				"method FrontendStatusSingle.isFrontendStatus",
				"method FrontendStatusInnerFec.isFrontendStatus",
				"type FrontendInnerFec int64",
				"const FrontendInnerFecFecUndefined FrontendInnerFec = 0",
				"const FrontendInnerFecAuto FrontendInnerFec = 1 << 0",
				"const FrontendInnerFecFec12 FrontendInnerFec = 1 << 1",
				"const FrontendInnerFecFec34 FrontendInnerFec = 0x80",
				"const FrontendInnerFecNext FrontendInnerFec = 129",
				"init: parcel.MustRegisterUnion[FrontendModulationStatus](FrontendModulationStatusDvbc(0), FrontendModulationStatusDvbs(0))",
				"init: parcel.MustRegisterUnion[FrontendStatus](FrontendStatusIsDemodLocked(false), FrontendStatusSnr(0), FrontendStatusUrl(nil), FrontendStatusModulationStatus{}, FrontendStatusPlpInfo(nil), FrontendStatusCodeRates(nil), FrontendStatusRaw(nil), FrontendStatusSingle{}, FrontendStatusInnerFec(0))",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.file, func(t *testing.T) {
			src, err := testdata.ReadFile(filepath.Join("testdata", tc.file))
			if err != nil {
				t.Fatalf("reading testdata: %v", err)
			}
			f, err := parcelgen.Parse(src)
			if err != nil {
				t.Fatalf("Parse() got err: %v", err)
			}
			got, err := parcelgen.Go(f, tc.pkg)
			if err != nil {
				t.Fatalf("Go() got err: %v\n%s", err, got)
			}
			if !strings.HasPrefix(got, "// Code generated by parcelgen. DO NOT EDIT.\n") {
				t.Errorf("generated code lacks the generated code header")
			}
			if diff := cmp.Diff(summarize(t, got), tc.want); diff != "" {
				gotPath := filepath.Join(t.TempDir(), tc.pkg+".go")
				os.WriteFile(gotPath, []byte(got), 0600)
				t.Errorf("wrong parcelgen output (-got+want, got file written to %s):\n%s", gotPath, diff)
			}
		})
	}
}

func TestGenErrors(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr string
	}{
		{"unknown type", "parcelable Foo { Bar x; }", `unknown type "Bar"`},
		{"duplicate decl", "parcelable Foo { } union Foo { int x; }", "Foo declared more than once"},
		{"field collision", "parcelable Foo { int foo_bar; int fooBar; }", "Go name FooBar used more than once"},
		{"unspellable alternative", "union Foo { int mURL; }", "alternative mURL has no Go spelling"},
		{"enum overflow", "enum Foo { A = 200 }", "value 200 overflows byte"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f, err := parcelgen.Parse([]byte(tc.in))
			if err != nil {
				t.Fatalf("Parse(%q) got err: %v", tc.in, err)
			}
			_, err = parcelgen.Go(f, "foo")
			if err == nil {
				t.Fatalf("Go(%q) succeeded, want error", tc.in)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("Go(%q) got err %q, want it to contain %q", tc.in, err, tc.wantErr)
			}
		})
	}

	if _, err := parcelgen.Go(nil, "foo"); err == nil {
		t.Error("Go(nil) succeeded, want error")
	}
	if _, err := parcelgen.Go(&parcelgen.File{}, ""); err == nil {
		t.Error("Go() with no package succeeded, want error")
	}
}

// summarize parses Go source and returns one line per declaration,
// so that tests don't depend on gofmt's alignment choices.
func summarize(t *testing.T, src string) []string {
	t.Helper()
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "gen.go", src, 0)
	if err != nil {
		t.Fatalf("generated code doesn't parse: %v\n%s", err, src)
	}

	ret := []string{"package " + f.Name.Name}
	for _, imp := range f.Imports {
		ret = append(ret, "import "+imp.Path.Value)
	}
	for _, decl := range f.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				switch s := spec.(type) {
				case *ast.TypeSpec:
					ret = append(ret, "type "+s.Name.Name+" "+typeString(s.Type))
				case *ast.ValueSpec:
					ret = append(ret, fmt.Sprintf("const %s %s = %s", s.Names[0].Name, types.ExprString(s.Type), types.ExprString(s.Values[0])))
				}
			}
		case *ast.FuncDecl:
			if d.Recv != nil {
				ret = append(ret, fmt.Sprintf("method %s.%s", types.ExprString(d.Recv.List[0].Type), d.Name.Name))
				continue
			}
			for _, stmt := range d.Body.List {
				es, ok := stmt.(*ast.ExprStmt)
				if !ok {
					t.Fatalf("unexpected statement in %s", d.Name.Name)
				}
				ret = append(ret, d.Name.Name+": "+types.ExprString(es.X))
			}
		}
	}
	return ret
}

func typeString(e ast.Expr) string {
	switch x := e.(type) {
	case *ast.StructType:
		var fs []string
		for _, f := range x.Fields.List {
			var names []string
			for _, n := range f.Names {
				names = append(names, n.Name)
			}
			s := types.ExprString(f.Type)
			if len(names) > 0 {
				s = strings.Join(names, ", ") + " " + s
			}
			if f.Tag != nil {
				s += " " + f.Tag.Value
			}
			fs = append(fs, s)
		}
		return "struct{" + strings.Join(fs, "; ") + "}"
	case *ast.InterfaceType:
		var ms []string
		for _, m := range x.Methods.List {
			ms = append(ms, m.Names[0].Name+"()")
		}
		return "interface{" + strings.Join(ms, "; ") + "}"
	}
	return types.ExprString(e)
}
