package tuner

import "github.com/danderson/parcel"

// FrontendStatus is one item of frontend status. The alternative
// type names follow the HAL's field names, which are also their
// names on the wire.
type FrontendStatus interface{ isFrontendStatus() }

type (
	FrontendStatusIsDemodLocked        bool
	FrontendStatusSnr                  int32
	FrontendStatusBer                  int32
	FrontendStatusPer                  int32
	FrontendStatusPreBer               int32
	FrontendStatusSignalQuality        int32
	FrontendStatusSignalStrength       int32
	FrontendStatusSymbolRate           int32
	FrontendStatusInnerFec             FrontendInnerFec
	FrontendStatusInversion            FrontendSpectralInversion
	FrontendStatusLnbVoltage           LnbVoltage
	FrontendStatusPlpId                int32
	FrontendStatusIsEWBS               bool
	FrontendStatusAgc                  int32
	FrontendStatusIsLnaOn              bool
	FrontendStatusIsLayerError         []bool
	FrontendStatusMer                  int32
	FrontendStatusFreqOffset           int64
	FrontendStatusHierarchy            FrontendDvbtHierarchy
	FrontendStatusIsRfLocked           bool
	FrontendStatusPlpInfo              []FrontendStatusAtsc3PlpInfo
	FrontendStatusModulations          []FrontendModulation
	FrontendStatusBers                 []int32
	FrontendStatusCodeRates            []FrontendInnerFec
	FrontendStatusUec                  int32
	FrontendStatusSystemId             int32
	FrontendStatusInterleaving         []FrontendInterleaveMode
	FrontendStatusIsdbtSegment         []int32
	FrontendStatusTsDataRate           []int32
	FrontendStatusIsMiso               bool
	FrontendStatusIsLinear             bool
	FrontendStatusIsShortFrames        bool
	FrontendStatusIsdbtMode            FrontendIsdbtMode
	FrontendStatusPartialReceptionFlag FrontendIsdbtPartialReceptionFlag
	FrontendStatusStreamIdList         []int32
	FrontendStatusDvbtCellIds          []int32
	FrontendStatusAllPlpInfo           []FrontendScanAtsc3PlpInfo
	FrontendStatusIptvContentUrl       string
	FrontendStatusIptvPacketsReceived  int64
	FrontendStatusIptvPacketsLost      int64
	FrontendStatusIptvWorstJitterMs    int32
	FrontendStatusIptvAverageJitterMs  int32
)

// FrontendStatusModulationStatus and the other wrappers below hold a
// nested union. The wrapper gives the alternative the presence marker
// that a union nested in a union carries on the wire.
type FrontendStatusModulationStatus struct {
	parcel.Inline
	Value FrontendModulationStatus
}

type FrontendStatusBandwidth struct {
	parcel.Inline
	Value FrontendBandwidth
}

type FrontendStatusInterval struct {
	parcel.Inline
	Value FrontendGuardInterval
}

type FrontendStatusTransmissionMode struct {
	parcel.Inline
	Value FrontendTransmissionMode
}

type FrontendStatusRollOff struct {
	parcel.Inline
	Value FrontendRollOff
}

func (FrontendStatusIsDemodLocked) isFrontendStatus()        {}
func (FrontendStatusSnr) isFrontendStatus()                  {}
func (FrontendStatusBer) isFrontendStatus()                  {}
func (FrontendStatusPer) isFrontendStatus()                  {}
func (FrontendStatusPreBer) isFrontendStatus()               {}
func (FrontendStatusSignalQuality) isFrontendStatus()        {}
func (FrontendStatusSignalStrength) isFrontendStatus()       {}
func (FrontendStatusSymbolRate) isFrontendStatus()           {}
func (FrontendStatusInnerFec) isFrontendStatus()             {}
func (FrontendStatusModulationStatus) isFrontendStatus()     {}
func (FrontendStatusInversion) isFrontendStatus()            {}
func (FrontendStatusLnbVoltage) isFrontendStatus()           {}
func (FrontendStatusPlpId) isFrontendStatus()                {}
func (FrontendStatusIsEWBS) isFrontendStatus()               {}
func (FrontendStatusAgc) isFrontendStatus()                  {}
func (FrontendStatusIsLnaOn) isFrontendStatus()              {}
func (FrontendStatusIsLayerError) isFrontendStatus()         {}
func (FrontendStatusMer) isFrontendStatus()                  {}
func (FrontendStatusFreqOffset) isFrontendStatus()           {}
func (FrontendStatusHierarchy) isFrontendStatus()            {}
func (FrontendStatusIsRfLocked) isFrontendStatus()           {}
func (FrontendStatusPlpInfo) isFrontendStatus()              {}
func (FrontendStatusModulations) isFrontendStatus()          {}
func (FrontendStatusBers) isFrontendStatus()                 {}
func (FrontendStatusCodeRates) isFrontendStatus()            {}
func (FrontendStatusBandwidth) isFrontendStatus()            {}
func (FrontendStatusInterval) isFrontendStatus()             {}
func (FrontendStatusTransmissionMode) isFrontendStatus()     {}
func (FrontendStatusUec) isFrontendStatus()                  {}
func (FrontendStatusSystemId) isFrontendStatus()             {}
func (FrontendStatusInterleaving) isFrontendStatus()         {}
func (FrontendStatusIsdbtSegment) isFrontendStatus()         {}
func (FrontendStatusTsDataRate) isFrontendStatus()           {}
func (FrontendStatusRollOff) isFrontendStatus()              {}
func (FrontendStatusIsMiso) isFrontendStatus()               {}
func (FrontendStatusIsLinear) isFrontendStatus()             {}
func (FrontendStatusIsShortFrames) isFrontendStatus()        {}
func (FrontendStatusIsdbtMode) isFrontendStatus()            {}
func (FrontendStatusPartialReceptionFlag) isFrontendStatus() {}
func (FrontendStatusStreamIdList) isFrontendStatus()         {}
func (FrontendStatusDvbtCellIds) isFrontendStatus()          {}
func (FrontendStatusAllPlpInfo) isFrontendStatus()           {}
func (FrontendStatusIptvContentUrl) isFrontendStatus()       {}
func (FrontendStatusIptvPacketsReceived) isFrontendStatus()  {}
func (FrontendStatusIptvPacketsLost) isFrontendStatus()      {}
func (FrontendStatusIptvWorstJitterMs) isFrontendStatus()    {}
func (FrontendStatusIptvAverageJitterMs) isFrontendStatus()  {}

func init() {
	parcel.MustRegisterUnion[FrontendStatus](
		FrontendStatusIsDemodLocked(false),
		FrontendStatusSnr(0),
		FrontendStatusBer(0),
		FrontendStatusPer(0),
		FrontendStatusPreBer(0),
		FrontendStatusSignalQuality(0),
		FrontendStatusSignalStrength(0),
		FrontendStatusSymbolRate(0),
		FrontendStatusInnerFec(0),
		FrontendStatusModulationStatus{},
		FrontendStatusInversion(0),
		FrontendStatusLnbVoltage(0),
		FrontendStatusPlpId(0),
		FrontendStatusIsEWBS(false),
		FrontendStatusAgc(0),
		FrontendStatusIsLnaOn(false),
		FrontendStatusIsLayerError(nil),
		FrontendStatusMer(0),
		FrontendStatusFreqOffset(0),
		FrontendStatusHierarchy(0),
		FrontendStatusIsRfLocked(false),
		FrontendStatusPlpInfo(nil),
		FrontendStatusModulations(nil),
		FrontendStatusBers(nil),
		FrontendStatusCodeRates(nil),
		FrontendStatusBandwidth{},
		FrontendStatusInterval{},
		FrontendStatusTransmissionMode{},
		FrontendStatusUec(0),
		FrontendStatusSystemId(0),
		FrontendStatusInterleaving(nil),
		FrontendStatusIsdbtSegment(nil),
		FrontendStatusTsDataRate(nil),
		FrontendStatusRollOff{},
		FrontendStatusIsMiso(false),
		FrontendStatusIsLinear(false),
		FrontendStatusIsShortFrames(false),
		FrontendStatusIsdbtMode(0),
		FrontendStatusPartialReceptionFlag(0),
		FrontendStatusStreamIdList(nil),
		FrontendStatusDvbtCellIds(nil),
		FrontendStatusAllPlpInfo(nil),
		FrontendStatusIptvContentUrl(""),
		FrontendStatusIptvPacketsReceived(0),
		FrontendStatusIptvPacketsLost(0),
		FrontendStatusIptvWorstJitterMs(0),
		FrontendStatusIptvAverageJitterMs(0),
	)
}
