package gnss_test

import (
	"errors"
	"testing"

	"github.com/danderson/parcel"
	"github.com/danderson/parcel/hal/gnss"
	"github.com/google/go-cmp/cmp"
)

func TestPositionModeOptions(t *testing.T) {
	in := gnss.PositionModeOptions{
		Mode:                    gnss.MSBased,
		Recurrence:              gnss.RecurrenceSingle,
		MinIntervalMs:           1000,
		PreferredAccuracyMeters: 50,
		PreferredTimeMs:         -1,
		LowPowerMode:            true,
	}
	want := []byte{
		0x19, 0x00, 0x00, 0x00, // length
		0x01, 0x00, 0x00, 0x00, // mode
		0x01, 0x00, 0x00, 0x00, // recurrence
		0xe8, 0x03, 0x00, 0x00, // minIntervalMs
		0x32, 0x00, 0x00, 0x00, // preferredAccuracyMeters
		0xff, 0xff, 0xff, 0xff, // preferredTimeMs
		0x01, // lowPowerMode
	}

	got, err := parcel.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal() got err: %v", err)
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Fatalf("Marshal() wrong output (-got+want):\n%s", diff)
	}

	var back gnss.PositionModeOptions
	if err := parcel.Unmarshal(got, &back); err != nil {
		t.Fatalf("Unmarshal() got err: %v", err)
	}
	if diff := cmp.Diff(back, in); diff != "" {
		t.Fatalf("Unmarshal() wrong result (-got+want):\n%s", diff)
	}
}

func TestPositionModeOptionsOlderWriter(t *testing.T) {
	// A writer that predates lowPowerMode and preferredTimeMs.
	raw := []byte{
		0x14, 0x00, 0x00, 0x00, // length
		0x02, 0x00, 0x00, 0x00, // mode
		0x00, 0x00, 0x00, 0x00, // recurrence
		0x64, 0x00, 0x00, 0x00, // minIntervalMs
		0x0a, 0x00, 0x00, 0x00, // preferredAccuracyMeters
	}
	got := gnss.PositionModeOptions{PreferredTimeMs: 7}
	if err := parcel.Unmarshal(raw, &got); err != nil {
		t.Fatalf("Unmarshal() got err: %v", err)
	}
	want := gnss.PositionModeOptions{
		Mode:                    gnss.MSAssisted,
		Recurrence:              gnss.RecurrencePeriodic,
		MinIntervalMs:           100,
		PreferredAccuracyMeters: 10,
		PreferredTimeMs:         7,
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Fatalf("Unmarshal() wrong result (-got+want):\n%s", diff)
	}
}

func TestPositionModeOptionsNewerWriter(t *testing.T) {
	// A writer with one extra int field after lowPowerMode.
	raw := []byte{
		0x1d, 0x00, 0x00, 0x00, // length
		0x00, 0x00, 0x00, 0x00,
		0x01, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x01,
		0x2a, 0x00, 0x00, 0x00, // unknown
	}
	var got gnss.PositionModeOptions
	if err := parcel.Unmarshal(raw, &got); err != nil {
		t.Fatalf("Unmarshal() got err: %v", err)
	}
	want := gnss.PositionModeOptions{
		Recurrence:   gnss.RecurrenceSingle,
		LowPowerMode: true,
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Fatalf("Unmarshal() wrong result (-got+want):\n%s", diff)
	}
}

func TestPositionModeOptionsTooSmall(t *testing.T) {
	raw := []byte{0x03, 0x00, 0x00, 0x00}
	var got gnss.PositionModeOptions
	err := parcel.Unmarshal(raw, &got)
	var fe *parcel.FramingError
	if !errors.As(err, &fe) {
		t.Fatalf("Unmarshal() got err %v, want FramingError", err)
	}
	if fe.Length != 3 {
		t.Errorf("FramingError.Length = %d, want 3", fe.Length)
	}
}

func TestPositionModeOptionsSchema(t *testing.T) {
	got, err := parcel.SchemaFor[gnss.PositionModeOptions]()
	if err != nil {
		t.Fatalf("SchemaFor() got err: %v", err)
	}
	want := `parcelable PositionModeOptions {
    int mode;
    int recurrence;
    int minIntervalMs;
    int preferredAccuracyMeters;
    int preferredTimeMs;
    boolean lowPowerMode;
}
`
	if diff := cmp.Diff(got, want); diff != "" {
		t.Fatalf("SchemaFor() wrong output (-got+want):\n%s", diff)
	}
}
