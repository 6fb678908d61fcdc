// Package gnss holds parcelables of the GNSS HAL.
package gnss

// PositionMode is how a GNSS engine computes fixes.
type PositionMode int32

const (
	Standalone PositionMode = iota
	MSBased
	MSAssisted
)

// PositionRecurrence is whether fixes repeat.
type PositionRecurrence int32

const (
	RecurrencePeriodic PositionRecurrence = iota
	RecurrenceSingle
)

// PositionModeOptions configures a GNSS engine's fixes.
type PositionModeOptions struct {
	Mode                    PositionMode
	Recurrence              PositionRecurrence
	MinIntervalMs           int32
	PreferredAccuracyMeters int32
	PreferredTimeMs         int32
	LowPowerMode            bool
}
