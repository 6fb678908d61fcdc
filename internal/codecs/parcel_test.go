package codecs_test

import (
	"testing"

	"github.com/danderson/parcel/fragments"
	"github.com/danderson/parcel/hal/gnss"
	"github.com/danderson/parcel/internal/codecs"
	"github.com/google/go-cmp/cmp"
)

func TestParcelCodec_Roundtrip(t *testing.T) {
	original := gnss.PositionModeOptions{Mode: gnss.MSAssisted, PreferredTimeMs: 5}

	for _, ord := range []fragments.ByteOrder{fragments.LittleEndian, fragments.BigEndian} {
		var c codecs.Codec = codecs.NewParcel(ord)
		data, err := c.Marshal(original)
		if err != nil {
			t.Fatalf("marshal %s: %v", ord.Name(), err)
		}
		if len(data) != 25 {
			t.Errorf("%s: got %d bytes, want 25", ord.Name(), len(data))
		}
		var got gnss.PositionModeOptions
		if err := c.Unmarshal(data, &got); err != nil {
			t.Fatalf("unmarshal %s: %v", ord.Name(), err)
		}
		if diff := cmp.Diff(got, original); diff != "" {
			t.Errorf("%s roundtrip mismatch (-got+want):\n%s", ord.Name(), diff)
		}
	}
}

func TestParcelCodec_ToJSON(t *testing.T) {
	// The CLI decodes parcels and renders them through the JSON codec.
	in := gnss.PositionModeOptions{Recurrence: gnss.RecurrenceSingle}
	p := codecs.NewParcel(fragments.BigEndian)
	data, err := p.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back gnss.PositionModeOptions
	if err := p.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	js, err := codecs.NewJSONIter().Marshal(back)
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	want := `{"mode":0,"recurrence":1,"minIntervalMs":0,"preferredAccuracyMeters":0,"preferredTimeMs":0,"lowPowerMode":false}`
	if string(js) != want {
		t.Errorf("got %s, want %s", js, want)
	}
}
