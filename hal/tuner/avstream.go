package tuner

import "github.com/danderson/parcel"

// AvStreamType is the type of an audio or video stream.
type AvStreamType interface{ isAvStreamType() }

type (
	AvStreamTypeVideo int32
	AvStreamTypeAudio int32
)

func (AvStreamTypeVideo) isAvStreamType() {}
func (AvStreamTypeAudio) isAvStreamType() {}

func init() {
	parcel.MustRegisterUnion[AvStreamType](AvStreamTypeVideo(0), AvStreamTypeAudio(0))
}
