package tuner

import "github.com/danderson/parcel"

// FrontendModulationStatus is the modulation a frontend is locked
// to, for standards that report it in status.
type FrontendModulationStatus interface{ isFrontendModulationStatus() }

type (
	FrontendModulationStatusDvbc   int32
	FrontendModulationStatusDvbs   int32
	FrontendModulationStatusIsdbs  int32
	FrontendModulationStatusIsdbs3 int32
	FrontendModulationStatusIsdbt  int32
)

func (FrontendModulationStatusDvbc) isFrontendModulationStatus()   {}
func (FrontendModulationStatusDvbs) isFrontendModulationStatus()   {}
func (FrontendModulationStatusIsdbs) isFrontendModulationStatus()  {}
func (FrontendModulationStatusIsdbs3) isFrontendModulationStatus() {}
func (FrontendModulationStatusIsdbt) isFrontendModulationStatus()  {}

// FrontendModulation is a modulation of any broadcast standard.
type FrontendModulation interface{ isFrontendModulation() }

type (
	FrontendModulationDvbc   int32
	FrontendModulationDvbs   int32
	FrontendModulationDvbt   int32
	FrontendModulationIsdbs  int32
	FrontendModulationIsdbs3 int32
	FrontendModulationIsdbt  int32
	FrontendModulationAtsc   int32
	FrontendModulationAtsc3  int32
	FrontendModulationDtmb   int32
)

func (FrontendModulationDvbc) isFrontendModulation()   {}
func (FrontendModulationDvbs) isFrontendModulation()   {}
func (FrontendModulationDvbt) isFrontendModulation()   {}
func (FrontendModulationIsdbs) isFrontendModulation()  {}
func (FrontendModulationIsdbs3) isFrontendModulation() {}
func (FrontendModulationIsdbt) isFrontendModulation()  {}
func (FrontendModulationAtsc) isFrontendModulation()   {}
func (FrontendModulationAtsc3) isFrontendModulation()  {}
func (FrontendModulationDtmb) isFrontendModulation()   {}

// FrontendBandwidth is a channel bandwidth.
type FrontendBandwidth interface{ isFrontendBandwidth() }

type (
	FrontendBandwidthAtsc3 int32
	FrontendBandwidthDvbc  int32
	FrontendBandwidthDvbt  int32
	FrontendBandwidthIsdbt int32
	FrontendBandwidthDtmb  int32
)

func (FrontendBandwidthAtsc3) isFrontendBandwidth() {}
func (FrontendBandwidthDvbc) isFrontendBandwidth()  {}
func (FrontendBandwidthDvbt) isFrontendBandwidth()  {}
func (FrontendBandwidthIsdbt) isFrontendBandwidth() {}
func (FrontendBandwidthDtmb) isFrontendBandwidth()  {}

// FrontendGuardInterval is a guard interval.
type FrontendGuardInterval interface{ isFrontendGuardInterval() }

type (
	FrontendGuardIntervalDvbt  int32
	FrontendGuardIntervalIsdbt int32
	FrontendGuardIntervalDtmb  int32
)

func (FrontendGuardIntervalDvbt) isFrontendGuardInterval()  {}
func (FrontendGuardIntervalIsdbt) isFrontendGuardInterval() {}
func (FrontendGuardIntervalDtmb) isFrontendGuardInterval()  {}

// FrontendTransmissionMode is a transmission mode.
type FrontendTransmissionMode interface{ isFrontendTransmissionMode() }

type (
	FrontendTransmissionModeDvbt  int32
	FrontendTransmissionModeIsdbt int32
	FrontendTransmissionModeDtmb  int32
)

func (FrontendTransmissionModeDvbt) isFrontendTransmissionMode()  {}
func (FrontendTransmissionModeIsdbt) isFrontendTransmissionMode() {}
func (FrontendTransmissionModeDtmb) isFrontendTransmissionMode()  {}

// FrontendInterleaveMode is an interleaving mode.
type FrontendInterleaveMode interface{ isFrontendInterleaveMode() }

type (
	FrontendInterleaveModeAtsc3 int32
	FrontendInterleaveModeDvbc  int32
	FrontendInterleaveModeDtmb  int32
	FrontendInterleaveModeIsdbt int32
)

func (FrontendInterleaveModeAtsc3) isFrontendInterleaveMode() {}
func (FrontendInterleaveModeDvbc) isFrontendInterleaveMode()  {}
func (FrontendInterleaveModeDtmb) isFrontendInterleaveMode()  {}
func (FrontendInterleaveModeIsdbt) isFrontendInterleaveMode() {}

// FrontendRollOff is a roll-off factor.
type FrontendRollOff interface{ isFrontendRollOff() }

type (
	FrontendRollOffDvbs   int32
	FrontendRollOffIsdbs  int32
	FrontendRollOffIsdbs3 int32
)

func (FrontendRollOffDvbs) isFrontendRollOff()   {}
func (FrontendRollOffIsdbs) isFrontendRollOff()  {}
func (FrontendRollOffIsdbs3) isFrontendRollOff() {}

func init() {
	parcel.MustRegisterUnion[FrontendModulationStatus](
		FrontendModulationStatusDvbc(0),
		FrontendModulationStatusDvbs(0),
		FrontendModulationStatusIsdbs(0),
		FrontendModulationStatusIsdbs3(0),
		FrontendModulationStatusIsdbt(0),
	)
	parcel.MustRegisterUnion[FrontendModulation](
		FrontendModulationDvbc(0),
		FrontendModulationDvbs(0),
		FrontendModulationDvbt(0),
		FrontendModulationIsdbs(0),
		FrontendModulationIsdbs3(0),
		FrontendModulationIsdbt(0),
		FrontendModulationAtsc(0),
		FrontendModulationAtsc3(0),
		FrontendModulationDtmb(0),
	)
	parcel.MustRegisterUnion[FrontendBandwidth](
		FrontendBandwidthAtsc3(0),
		FrontendBandwidthDvbc(0),
		FrontendBandwidthDvbt(0),
		FrontendBandwidthIsdbt(0),
		FrontendBandwidthDtmb(0),
	)
	parcel.MustRegisterUnion[FrontendGuardInterval](
		FrontendGuardIntervalDvbt(0),
		FrontendGuardIntervalIsdbt(0),
		FrontendGuardIntervalDtmb(0),
	)
	parcel.MustRegisterUnion[FrontendTransmissionMode](
		FrontendTransmissionModeDvbt(0),
		FrontendTransmissionModeIsdbt(0),
		FrontendTransmissionModeDtmb(0),
	)
	parcel.MustRegisterUnion[FrontendInterleaveMode](
		FrontendInterleaveModeAtsc3(0),
		FrontendInterleaveModeDvbc(0),
		FrontendInterleaveModeDtmb(0),
		FrontendInterleaveModeIsdbt(0),
	)
	parcel.MustRegisterUnion[FrontendRollOff](
		FrontendRollOffDvbs(0),
		FrontendRollOffIsdbs(0),
		FrontendRollOffIsdbs3(0),
	)
}
