// internal/cache/constants.go
package cache

// Device Status Block layout constants.
// These values define the exported block layout and MUST NOT be configurable.

// ---- BLOCK GEOMETRY ----

// StatusSlots is the fixed number of registers in the status block.
const StatusSlots = 20

// ---- SLOT INDICES ----

// SlotHealthCode holds the sensor health state.
const SlotHealthCode = 0

// SlotLastErrorCode holds the last failure's code.
const SlotLastErrorCode = 1

// SlotSecondsInError holds how long (in seconds) the sensor has been unhealthy.
const SlotSecondsInError = 2

// ---- RESERVED RANGE ----

// Slots 3–10 are reserved for future use.
const SlotReservedStart = 3
const SlotReservedEnd = 10

// ---- DEVICE NAME ----

// SlotDeviceNameStart is the first slot of the device name, placed at the
// end of the block.
const SlotDeviceNameStart = 11

// SlotDeviceNameSlots is the number of slots reserved for the device name.
const SlotDeviceNameSlots = 8

// DeviceNameMaxChars is the maximum number of ASCII characters stored.
const DeviceNameMaxChars = 16

// ---- HEALTH CODES ----

// HealthUnknown: no cycle has completed since start.
const HealthUnknown uint16 = 0

// HealthOK: the latest cycle produced a valid reading.
const HealthOK uint16 = 1

// HealthError: at least one full cycle has failed since the last success.
const HealthError uint16 = 2

// HealthStale: the last success is older than the configured bound.
const HealthStale uint16 = 3

// ---- ERROR CODES ----

const (
	ErrCodeNone     uint16 = 0
	ErrCodeRead     uint16 = 1 // unclassified read failure
	ErrCodeTimeout  uint16 = 2 // sensor unresponsive / short pulse train
	ErrCodeChecksum uint16 = 3 // frame integrity check failed
)
