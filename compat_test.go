package parcel

import (
	"errors"
	"testing"

	"github.com/danderson/parcel/fragments"
	"github.com/google/go-cmp/cmp"
)

// recordV1 and recordV2 are two versions of the same record, V2
// having appended a field.
type recordV1 struct {
	A int32
	B bool
}

type recordV2 struct {
	A int32
	B bool
	C string
}

type outerV1 struct {
	In recordV1
	Z  int32
}

type outerV2 struct {
	In recordV2
	Z  int32
}

func TestRecordLength(t *testing.T) {
	bs, err := Marshal(recordV2{5, true, "hi"})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	// length field + int32 + bool + (count + 2 code units)
	want := 4 + 4 + 1 + (4 + 2*len("hi"))
	if len(bs) != want {
		t.Fatalf("encoded length = %d, want %d", len(bs), want)
	}
	if got := int(fragments.LittleEndian.Uint32(bs)); got != want {
		t.Fatalf("length prefix = %d, want %d", got, want)
	}

	var got recordV2
	if err := Unmarshal(bs, &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if diff := cmp.Diff(got, recordV2{5, true, "hi"}); diff != "" {
		t.Fatalf("Unmarshal wrong result (-got+want):\n%s", diff)
	}
}

func TestRecordLengthPrefix(t *testing.T) {
	// The length prefix of every record always covers exactly the
	// bytes from the prefix to the end of the record.
	vals := []any{
		recordV1{},
		recordV2{C: "a much longer string value"},
		outerV2{In: recordV2{1, true, "x"}, Z: 3},
		Arrays{A: []string{"a", "bc"}, B: []Simple{{1, true}, {2, false}}},
		WithUnion{S: ShapePoint{1, 2}},
		WithInline{P: InlinePair{S: ShapeCircle(1.5)}},
	}
	for _, v := range vals {
		bs, err := Marshal(v)
		if err != nil {
			t.Fatalf("Marshal(%T) failed: %v", v, err)
		}
		if got := int(fragments.LittleEndian.Uint32(bs)); got != len(bs) {
			t.Errorf("Marshal(%T) length prefix = %d, want %d", v, got, len(bs))
		}
	}
}

func TestDecodeNewerRecord(t *testing.T) {
	bs, err := Marshal(recordV2{5, true, "hi"})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var got recordV1
	d := fragments.Decoder{
		Order:  fragments.LittleEndian,
		Mapper: decoderFor,
		In:     bs,
	}
	if err := unmarshal(&d, &got); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if diff := cmp.Diff(got, recordV1{5, true}); diff != "" {
		t.Fatalf("decode wrong result (-got+want):\n%s", diff)
	}
	if d.Position() != len(bs) {
		t.Fatalf("decoder position = %d, want end of record at %d", d.Position(), len(bs))
	}
}

func TestDecodeNewerNestedRecord(t *testing.T) {
	bs, err := Marshal(outerV2{In: recordV2{5, true, "hi"}, Z: 9})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var got outerV1
	if err := Unmarshal(bs, &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	want := outerV1{In: recordV1{5, true}, Z: 9}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Fatalf("Unmarshal wrong result (-got+want):\n%s", diff)
	}
}

func TestDecodeOlderRecord(t *testing.T) {
	bs, err := Marshal(outerV1{In: recordV1{5, true}, Z: 9})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var fresh outerV2
	if err := Unmarshal(bs, &fresh); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	want := outerV2{In: recordV2{5, true, ""}, Z: 9}
	if diff := cmp.Diff(fresh, want); diff != "" {
		t.Fatalf("Unmarshal wrong result (-got+want):\n%s", diff)
	}

	// Fields missing from the wire keep their previous values.
	prefilled := outerV2{In: recordV2{C: "keep"}}
	if err := Unmarshal(bs, &prefilled); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	want = outerV2{In: recordV2{5, true, "keep"}, Z: 9}
	if diff := cmp.Diff(prefilled, want); diff != "" {
		t.Fatalf("Unmarshal wrong result (-got+want):\n%s", diff)
	}
}

func TestDecodeFramingError(t *testing.T) {
	got := recordV1{A: 42, B: true}
	err := Unmarshal([]byte{2, 0, 0, 0, 1, 0, 0, 0, 0}, &got)
	var fe *FramingError
	if !errors.As(err, &fe) {
		t.Fatalf("Unmarshal got err %v, want FramingError", err)
	}
	if fe.Length != 2 {
		t.Errorf("FramingError.Length = %d, want 2", fe.Length)
	}
	// No fields were read.
	if diff := cmp.Diff(got, recordV1{A: 42, B: true}); diff != "" {
		t.Fatalf("Unmarshal modified value (-got+want):\n%s", diff)
	}
}

func TestDecodeOverflowError(t *testing.T) {
	raw := []byte{
		// outer length
		0x15, 0, 0, 0,
		// In, present
		1, 0, 0, 0,
		// In length, overflows when added to its position
		0xfc, 0xff, 0xff, 0x7f,
		0, 0, 0, 0,
		0,
		0, 0, 0, 0,
	}
	var got outerV1
	err := Unmarshal(raw, &got)
	var oe *OverflowError
	if !errors.As(err, &oe) {
		t.Fatalf("Unmarshal got err %v, want OverflowError", err)
	}
	if oe.Start != 8 {
		t.Errorf("OverflowError.Start = %d, want 8", oe.Start)
	}
}
