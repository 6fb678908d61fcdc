// Package fragments provides low-level encoding and decoding helpers
// to construct and parse parcels.
//
// The Encoder and Decoder operate on an in-memory buffer with a
// movable cursor. They know the primitive wire formats and the two
// framing rules shared by every composite value: length-prefixed
// records and tag-dispatched unions. They do not know about Go
// types; that is the job of the parent parcel package.
//
// You should not need this package unless you are writing your own
// parcel.Marshaler/parcel.Unmarshaler implementations, in which case
// your code will be handed an [Encoder]/[Decoder] and expected to
// produce or consume correct fragments with it.
package fragments
