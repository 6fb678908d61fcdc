package codecs

import (
	"github.com/danderson/parcel"
	"github.com/danderson/parcel/fragments"
)

// ParcelCodec is the parcel wire format in a fixed byte order.
type ParcelCodec struct {
	Order fragments.ByteOrder
}

func NewParcel(ord fragments.ByteOrder) *ParcelCodec {
	return &ParcelCodec{Order: ord}
}

func (c *ParcelCodec) Marshal(v any) ([]byte, error) {
	return parcel.MarshalOrder(v, c.Order)
}

func (c *ParcelCodec) Unmarshal(data []byte, v any) error {
	return parcel.UnmarshalOrder(data, c.Order, v)
}
