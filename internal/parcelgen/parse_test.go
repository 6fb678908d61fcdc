package parcelgen_test

import (
	"strings"
	"testing"

	"github.com/danderson/parcel/internal/parcelgen"
	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	src, err := testdata.ReadFile("testdata/gnss.aidl")
	if err != nil {
		t.Fatalf("reading testdata: %v", err)
	}
	got, err := parcelgen.Parse(src)
	if err != nil {
		t.Fatalf("Parse() got err: %v", err)
	}

	typ := func(n string) *parcelgen.Type { return &parcelgen.Type{Name: n} }
	want := &parcelgen.File{
		Package: "android.hardware.gnss",
		Decls: []*parcelgen.Decl{
			{
				Kind: parcelgen.Parcelable,
				Name: "PositionModeOptions",
				Fields: []*parcelgen.Field{
					{Name: "mode", Type: typ("GnssPositionMode")},
					{Name: "recurrence", Type: typ("GnssPositionRecurrence")},
					{Name: "minIntervalMs", Type: typ("int"), Default: "0"},
					{Name: "preferredAccuracyMeters", Type: typ("int"), Default: "0"},
					{Name: "preferredTimeMs", Type: typ("int"), Default: "0"},
					{Name: "lowPowerMode", Type: typ("boolean"), Default: "false"},
				},
			},
			{
				Kind:    parcelgen.Enum,
				Name:    "GnssPositionMode",
				Backing: "int",
				Enumerators: []*parcelgen.Enumerator{
					{Name: "STANDALONE", Expr: "0", Value: 0},
					{Name: "MS_BASED", Expr: "1", Value: 1},
					{Name: "MS_ASSISTED", Expr: "2", Value: 2},
				},
			},
			{
				Kind:    parcelgen.Enum,
				Name:    "GnssPositionRecurrence",
				Backing: "int",
				Enumerators: []*parcelgen.Enumerator{
					{Name: "RECURRENCE_PERIODIC", Expr: "0", Value: 0},
					{Name: "RECURRENCE_SINGLE", Expr: "1", Value: 1},
				},
			},
		},
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("Parse() wrong result (-got+want):\n%s", diff)
	}
}

func TestParseTypes(t *testing.T) {
	src, err := testdata.ReadFile("testdata/status.aidl")
	if err != nil {
		t.Fatalf("reading testdata: %v", err)
	}
	f, err := parcelgen.Parse(src)
	if err != nil {
		t.Fatalf("Parse() got err: %v", err)
	}

	var got []string
	for _, d := range f.Decls {
		for _, fd := range d.Fields {
			got = append(got, d.Name+"."+fd.Name+": "+fd.Type.String())
		}
		for _, e := range d.Enumerators {
			got = append(got, d.Name+"."+e.Name+" = "+e.Expr)
		}
	}
	want := []string{
		"FrontendStatusAtsc3PlpInfo.plpId: int",
		"FrontendStatusAtsc3PlpInfo.isLocked: boolean",
		"FrontendStatusAtsc3PlpInfo.uec: int",
		"Naming.mURL: int",
		"Naming.snake_case_name: @nullable String",
		"Naming.initials: char[4]",
		"Naming.tags: String[]",
		"FrontendModulationStatus.dvbc: int",
		"FrontendModulationStatus.dvbs: int",
		"FrontendStatus.isDemodLocked: boolean",
		"FrontendStatus.snr: int",
		"FrontendStatus.url: @nullable String",
		"FrontendStatus.modulationStatus: FrontendModulationStatus",
		"FrontendStatus.plpInfo: FrontendStatusAtsc3PlpInfo[]",
		"FrontendStatus.codeRates: long[]",
		"FrontendStatus.raw: byte[]",
		"FrontendStatus.single: FrontendStatusAtsc3PlpInfo",
		"FrontendStatus.innerFec: FrontendInnerFec",
		"FrontendInnerFec.FEC_UNDEFINED = 0",
		"FrontendInnerFec.AUTO = 1 << 0",
		"FrontendInnerFec.FEC_1_2 = 1 << 1",
		"FrontendInnerFec.FEC_3_4 = 0x80",
		"FrontendInnerFec.NEXT = 129",
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("Parse() wrong types (-got+want):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr string
	}{
		{"interface", "interface IFoo { void foo(); }", "interfaces are not supported"},
		{"garbage", "struct Foo {}", "expected parcelable, union or enum"},
		{"constant", "parcelable Foo { const int X = 1; }", "constants in parcelable Foo"},
		{"nested", "parcelable Foo { parcelable Bar {} }", "nested types"},
		{"empty union", "union Foo { }", "union Foo has no alternatives"},
		{"unterminated", "parcelable Foo { int x;", "unterminated parcelable Foo"},
		{"missing semicolon", "parcelable Foo { int x }", "expected \";\""},
		{"2d array", "parcelable Foo { int[][] x; }", "multi-dimensional"},
		{"bad length", "parcelable Foo { int[0] x; }", "bad array length"},
		{"bad backing", `@Backing(type="float") enum Foo { A }`, "unsupported backing type"},
		{"bad enum value", "enum Foo { A = B }", "expected integer"},
		{"enum separator", "enum Foo { A B }", "expected , or }"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parcelgen.Parse([]byte(tc.in))
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want error", tc.in)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("Parse(%q) got err %q, want it to contain %q", tc.in, err, tc.wantErr)
			}
		})
	}
}
