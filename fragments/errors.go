package fragments

import "fmt"

// FramingError is the error returned when a record's length prefix is
// smaller than the prefix itself.
type FramingError struct {
	// Length is the declared record length.
	Length int32
}

func (e *FramingError) Error() string {
	return fmt.Sprintf("parcelable too small: declared length %d, minimum is 4", e.Length)
}

// OverflowError is the error returned when a record's length prefix
// would move the read position past the largest representable
// position.
type OverflowError struct {
	// Start is the position of the record's length prefix.
	Start int
	// Length is the declared record length.
	Length int32
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("overflow in the size of parcelable: record at %d declares length %d", e.Start, e.Length)
}

// UnknownDiscriminantError is the error returned when a union's
// discriminant does not name any declared alternative.
type UnknownDiscriminantError struct {
	// Union is the name of the union being decoded, if known.
	Union string
	// Tag is the discriminant read from the wire.
	Tag int32
	// Alternatives is the number of alternatives the union declares.
	Alternatives int
}

func (e *UnknownDiscriminantError) Error() string {
	name := e.Union
	if name == "" {
		name = "union"
	}
	return fmt.Sprintf("%s: unknown tag %d (have %d alternatives)", name, e.Tag, e.Alternatives)
}

// LengthError is the error returned when a string, byte array or
// sequence declares an impossible length.
type LengthError struct {
	// What is the kind of value, e.g. "string".
	What string
	// Length is the declared length.
	Length int32
	// Remaining is the number of input bytes left at the point the
	// length was read.
	Remaining int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("invalid %s length %d with %d bytes remaining", e.What, e.Length, e.Remaining)
}
