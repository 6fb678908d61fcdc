package tuner

// FrontendStatusAtsc3PlpInfo is the status of one ATSC 3.0 physical
// layer pipe.
type FrontendStatusAtsc3PlpInfo struct {
	PlpID    int32 `parcel:"name=plpId"`
	IsLocked bool
	Uec      int32
}

// FrontendScanAtsc3PlpInfo describes an ATSC 3.0 physical layer pipe
// found during a scan.
type FrontendScanAtsc3PlpInfo struct {
	PlpID    int32 `parcel:"name=plpId"`
	BLlsFlag bool
}
