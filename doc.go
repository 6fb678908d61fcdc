// Package parcel implements the AIDL parcelable wire format for Go
// values.
//
// Parcels carry two kinds of composite values. Records are Go structs:
// their fields are written in declaration order behind a length
// prefix that covers the whole record, so that a reader built against
// an older or newer version of the struct can still decode it. A
// reader that knows fewer fields skips the ones it doesn't know, and
// a reader that knows more fields leaves the missing ones at their
// defaults.
//
// Unions are sealed Go interfaces, registered with [RegisterUnion]
// along with their alternative types. A union is written as the
// discriminant of its active alternative followed by that
// alternative's value. Unions carry no length prefix, so a reader
// that encounters a discriminant it doesn't know cannot skip past it
// and fails with an [UnknownDiscriminantError].
//
//	type Status interface{ isStatus() }
//
//	type StatusLocked bool
//	type StatusSnr int32
//
//	func (StatusLocked) isStatus() {}
//	func (StatusSnr) isStatus()    {}
//
//	func init() {
//	    parcel.MustRegisterUnion[Status](StatusLocked(false), StatusSnr(0))
//	}
//
// [Marshal] and [Unmarshal] convert between Go values and parcels,
// deriving encoders and decoders from the Go types by reflection. The
// [fragments] package provides the underlying cursor used to read and
// write parcels, for types that implement [Marshaler] and
// [Unmarshaler] to encode themselves.
package parcel
