package parcel

import "reflect"

var (
	// kindToAIDL maps the reflect.Kinds of the basic types to their
	// AIDL type names, for schema rendering.
	kindToAIDL = map[reflect.Kind]string{
		reflect.Bool:    "boolean",
		reflect.Int8:    "byte",
		reflect.Uint8:   "byte",
		reflect.Uint16:  "char",
		reflect.Int32:   "int",
		reflect.Int64:   "long",
		reflect.Float32: "float",
		reflect.Float64: "double",
		reflect.String:  "String",
	}

	// unportableKinds is the set of reflect.Kinds that have no parcel
	// representation, with the reason why.
	unportableKinds = map[reflect.Kind]string{
		reflect.Int:     "int and uint aren't portable, use fixed width integers",
		reflect.Uint:    "int and uint aren't portable, use fixed width integers",
		reflect.Int16:   "int16 has no parcel type, use int32 instead",
		reflect.Uint32:  "unsigned integers have no parcel type, use int32 instead",
		reflect.Uint64:  "unsigned integers have no parcel type, use int64 instead",
		reflect.Uintptr: "uintptr has no parcel type",
	}
)
