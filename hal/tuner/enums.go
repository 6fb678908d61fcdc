package tuner

// FrontendInnerFec is a forward error correction code rate. Values
// are bit flags.
type FrontendInnerFec int64

const (
	FecUndefined FrontendInnerFec = 0
	FecAuto      FrontendInnerFec = 1 << 0
	Fec1_2       FrontendInnerFec = 1 << 1
	Fec1_3       FrontendInnerFec = 1 << 2
	Fec1_4       FrontendInnerFec = 1 << 3
	Fec1_5       FrontendInnerFec = 1 << 4
	Fec2_3       FrontendInnerFec = 1 << 5
	Fec2_5       FrontendInnerFec = 1 << 6
	Fec3_4       FrontendInnerFec = 1 << 7
	Fec3_5       FrontendInnerFec = 1 << 8
)

// FrontendSpectralInversion is a frontend's spectral inversion.
type FrontendSpectralInversion int32

const (
	InversionUndefined FrontendSpectralInversion = 0
	InversionNormal    FrontendSpectralInversion = 1 << 0
	InversionInverted  FrontendSpectralInversion = 1 << 1
)

// LnbVoltage is the power voltage supplied to an LNB.
type LnbVoltage int32

const (
	LnbVoltageNone LnbVoltage = iota
	LnbVoltage5V
	LnbVoltage11V
	LnbVoltage12V
	LnbVoltage13V
	LnbVoltage14V
	LnbVoltage15V
	LnbVoltage18V
	LnbVoltage19V
)

// FrontendDvbtHierarchy is a DVB-T hierarchy mode.
type FrontendDvbtHierarchy int32

const (
	HierarchyUndefined FrontendDvbtHierarchy = 0
	HierarchyAuto      FrontendDvbtHierarchy = 1 << 0
	HierarchyNonNative FrontendDvbtHierarchy = 1 << 1
	Hierarchy1Native   FrontendDvbtHierarchy = 1 << 2
	Hierarchy2Native   FrontendDvbtHierarchy = 1 << 3
	Hierarchy4Native   FrontendDvbtHierarchy = 1 << 4
)

// FrontendIsdbtMode is an ISDB-T transmission mode.
type FrontendIsdbtMode int32

const (
	IsdbtModeUndefined FrontendIsdbtMode = 0
	IsdbtModeAuto      FrontendIsdbtMode = 1 << 0
	IsdbtMode1         FrontendIsdbtMode = 1 << 1
	IsdbtMode2         FrontendIsdbtMode = 1 << 2
	IsdbtMode3         FrontendIsdbtMode = 1 << 3
)

// FrontendIsdbtPartialReceptionFlag reports ISDB-T partial reception.
type FrontendIsdbtPartialReceptionFlag int32

const (
	PartialReceptionUndefined FrontendIsdbtPartialReceptionFlag = 0
	PartialReceptionAuto      FrontendIsdbtPartialReceptionFlag = 1 << 0
	PartialReceptionFalse     FrontendIsdbtPartialReceptionFlag = 1 << 1
	PartialReceptionTrue      FrontendIsdbtPartialReceptionFlag = 1 << 2
)
