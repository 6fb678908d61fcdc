package parcel

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/danderson/parcel/fragments"
	"github.com/google/go-cmp/cmp"
)

func TestStream(t *testing.T) {
	vals := []Simple{{1, true}, {2, false}, {3, true}}

	for _, ord := range []fragments.ByteOrder{fragments.LittleEndian, fragments.BigEndian} {
		t.Run(ord.Name(), func(t *testing.T) {
			var buf bytes.Buffer
			enc := NewEncoder(&buf)
			enc.Order = ord
			for _, v := range vals {
				if err := enc.Encode(v); err != nil {
					t.Fatalf("Encode(%v) failed: %v", v, err)
				}
			}
			if buf.Len() != 27 {
				t.Fatalf("encoded %d bytes, want 27", buf.Len())
			}

			dec := NewDecoder(&buf)
			dec.Order = ord
			for _, want := range vals {
				var got Simple
				if err := dec.Decode(&got); err != nil {
					t.Fatalf("Decode failed: %v", err)
				}
				if diff := cmp.Diff(got, want); diff != "" {
					t.Fatalf("Decode wrong result (-got+want):\n%s", diff)
				}
			}
			var extra Simple
			if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
				t.Fatalf("Decode at end of stream got err %v, want io.EOF", err)
			}
		})
	}
}

func TestStreamCompat(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	if err := enc.Encode(&recordV2{5, true, "hi"}); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if err := enc.Encode(recordV2{6, false, "there"}); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	dec := NewDecoder(&buf)
	for _, want := range []recordV1{{5, true}, {6, false}} {
		var got recordV1
		if err := dec.Decode(&got); err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if diff := cmp.Diff(got, want); diff != "" {
			t.Fatalf("Decode wrong result (-got+want):\n%s", diff)
		}
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk on fire")
}

func TestStreamErrors(t *testing.T) {
	var te TypeError
	if err := NewEncoder(io.Discard).Encode(int32(1)); !errors.As(err, &te) {
		t.Errorf("Encode(int32) got err %v, want TypeError", err)
	}
	if err := NewEncoder(io.Discard).Encode(InlinePair{}); !errors.As(err, &te) {
		t.Errorf("Encode(inline struct) got err %v, want TypeError", err)
	}
	if err := NewEncoder(failWriter{}).Encode(Simple{}); err == nil {
		t.Error("Encode to failing writer succeeded")
	}

	var i int32
	if err := NewDecoder(bytes.NewReader(nil)).Decode(&i); !errors.As(err, &te) {
		t.Errorf("Decode(*int32) got err %v, want TypeError", err)
	}
	var s Simple
	if err := NewDecoder(bytes.NewReader(nil)).Decode(s); !errors.As(err, &te) {
		t.Errorf("Decode(non-pointer) got err %v, want TypeError", err)
	}

	var fe *FramingError
	err := NewDecoder(bytes.NewReader([]byte{2, 0, 0, 0})).Decode(&s)
	if !errors.As(err, &fe) {
		t.Errorf("Decode of short length got err %v, want FramingError", err)
	}

	dec := NewDecoder(bytes.NewReader([]byte{9, 0, 0, 0, 1, 0, 0, 0, 1}))
	dec.MaxRecordSize = 8
	var rse *RecordSizeError
	if err := dec.Decode(&s); !errors.As(err, &rse) {
		t.Errorf("Decode of oversized record got err %v, want RecordSizeError", err)
	} else if diff := cmp.Diff(rse, &RecordSizeError{Length: 9, Max: 8}); diff != "" {
		t.Errorf("wrong RecordSizeError (-got+want):\n%s", diff)
	}

	err = NewDecoder(bytes.NewReader([]byte{9, 0, 0, 0, 1, 0})).Decode(&s)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("Decode of truncated record got err %v, want io.ErrUnexpectedEOF", err)
	}
	err = NewDecoder(bytes.NewReader([]byte{9, 0})).Decode(&s)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("Decode of truncated length got err %v, want io.ErrUnexpectedEOF", err)
	}
}
