package parcel

import (
	"fmt"
	"reflect"

	"github.com/danderson/parcel/fragments"
)

// TypeError is the error returned when a type cannot be represented
// in the parcel wire format.
type TypeError struct {
	// Type is the name of the type that caused the error.
	Type string
	// Reason is an explanation of why the type isn't representable in
	// a parcel.
	Reason error
}

func (e TypeError) Error() string {
	return fmt.Sprintf("parcel cannot represent %s: %s", e.Type, e.Reason)
}

func (e TypeError) Unwrap() error {
	return e.Reason
}

func typeErr(t reflect.Type, reason string, args ...any) error {
	ts := ""
	if t != nil {
		ts = t.String()
	}
	return TypeError{ts, fmt.Errorf(reason, args...)}
}

// AccessError is the error returned when a union value is accessed as
// an alternative other than the one it holds.
type AccessError struct {
	// Union is the name of the union type.
	Union string
	// Want is the name of the requested alternative.
	Want string
	// Have is the name of the alternative the union holds, or "<nil>"
	// if the union holds nothing.
	Have string
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("bad access to %s: %s, %s is available", e.Union, e.Want, e.Have)
}

// TrailingDataError is the error returned by [Unmarshal] when the
// input continues after the decoded value.
type TrailingDataError struct {
	// N is the number of unread bytes.
	N int
}

func (e *TrailingDataError) Error() string {
	return fmt.Sprintf("%d bytes of trailing data after value", e.N)
}

// RecordSizeError is the error returned by [Decoder.Decode] when a
// record's length prefix exceeds the decoder's MaxRecordSize.
type RecordSizeError struct {
	// Length is the declared record length.
	Length int32
	// Max is the largest record length the decoder accepts.
	Max int
}

func (e *RecordSizeError) Error() string {
	return fmt.Sprintf("record of %d bytes exceeds maximum size %d", e.Length, e.Max)
}

// StringError is the error returned by [Marshal] when a string is not
// valid UTF-8, and so has no exact UTF-16 encoding.
type StringError struct {
	// Value is the offending string.
	Value string
}

func (e *StringError) Error() string {
	return fmt.Sprintf("string %q is not valid UTF-8", e.Value)
}

// Wire errors, reported by [fragments] and surfaced unchanged by
// [Unmarshal].
type (
	FramingError             = fragments.FramingError
	OverflowError            = fragments.OverflowError
	UnknownDiscriminantError = fragments.UnknownDiscriminantError
	LengthError              = fragments.LengthError
)
