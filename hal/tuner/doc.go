// Package tuner defines parcel types from the TV tuner HAL.
//
// The central type is [FrontendStatus], the union a tuner frontend
// uses to report one item of status at a time. Its alternatives cover
// every kind of parcel field: scalars, strings, arrays, records and
// nested unions.
package tuner
