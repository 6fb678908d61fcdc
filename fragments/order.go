package fragments

import (
	"encoding/binary"

	"golang.org/x/sys/cpu"
)

// A ByteOrder is the byte order used for multi-byte values in a
// parcel.
type ByteOrder interface {
	byteOrder
	// Name returns "little" or "big".
	Name() string
}

type byteOrder interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

type wrapStd struct {
	byteOrder
}

func (w wrapStd) Name() string {
	switch w.byteOrder {
	case binary.BigEndian:
		return "big"
	case binary.LittleEndian:
		return "little"
	case binary.NativeEndian:
		if cpu.IsBigEndian {
			return "big"
		}
		return "little"
	default:
		panic("unknown ByteOrder, how did you manage to make one of those?")
	}
}

func (w wrapStd) String() string {
	return w.Name() + "-endian"
}

var (
	BigEndian    ByteOrder = wrapStd{binary.BigEndian}
	LittleEndian ByteOrder = wrapStd{binary.LittleEndian}
	NativeEndian ByteOrder = wrapStd{binary.NativeEndian}
)

// OrderByName returns the ByteOrder called name ("little", "big" or
// "native"), or nil if there is no such order.
func OrderByName(name string) ByteOrder {
	switch name {
	case "little", "le":
		return LittleEndian
	case "big", "be":
		return BigEndian
	case "native":
		return NativeEndian
	}
	return nil
}
