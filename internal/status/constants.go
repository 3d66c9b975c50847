// internal/status/constants.go
package status

// Robot Status Block layout constants.
// These values define the mirror protocol and MUST NOT be configurable.

// ---- BLOCK GEOMETRY ----

// SlotsPerDevice is the fixed number of registers per mirrored station.
const SlotsPerDevice = 32

// ---- SLOT INDICES ----

// SlotHealthCode holds the link health state.
const SlotHealthCode = 0

// SlotMode holds the robot-reported mode (0 teleop, 1 test, 2 auto).
const SlotMode = 1

// SlotFlags holds the Flag* bits.
const SlotFlags = 2

// SlotBattery holds battery voltage in centivolts.
const SlotBattery = 3

// SlotSequence holds the last status packet sequence number.
const SlotSequence = 4

// SlotCPU0 and SlotCPU1 hold CPU usage in hundredths of a percent.
const SlotCPU0 = 5
const SlotCPU1 = 6

// SlotDiskHi/Lo and SlotRAMHi/Lo hold 32-bit values, high word first.
const SlotDiskHi = 7
const SlotDiskLo = 8
const SlotRAMHi = 9
const SlotRAMLo = 10

// Slots 11..15 hold CAN utilization, bus-off, tx-full, receive, transmit.
const SlotCANStart = 11
const SlotCANSlots = 5

// SlotTeam holds the team number.
const SlotTeam = 16

// SlotStation holds the station byte (alliance and position).
const SlotStation = 17

// ---- RESERVED RANGE ----

// Slots 18–23 are reserved for future use.
const SlotReservedStart = 18
const SlotReservedEnd = 23

// ---- DEVICE NAME ----

// SlotDeviceNameStart is the first slot used for the device name.
// Device name is always placed at the END of the status block.
const SlotDeviceNameStart = 24

// SlotDeviceNameSlots is the number of slots reserved for the device name.
const SlotDeviceNameSlots = 8

// SlotDeviceNameEnd is the last slot used for the device name (inclusive).
const SlotDeviceNameEnd = SlotDeviceNameStart + SlotDeviceNameSlots - 1

// ---- LIMITS ----

// DeviceNameMaxChars is the maximum number of ASCII characters stored for device name.
const DeviceNameMaxChars = 16

// ---- HEALTH CODES ----

// HealthUnknown represents a station that has never heard from the robot.
const HealthUnknown uint16 = 0

// HealthOK represents a live link with robot code running.
const HealthOK uint16 = 1

// HealthStale represents a link that was up and has gone quiet.
const HealthStale uint16 = 3

// HealthDisabled represents a live link with no robot code.
const HealthDisabled uint16 = 4

// ---- FLAG BITS ----

const (
	FlagConnected uint16 = 1 << iota
	FlagEnabled
	FlagEStop
	FlagCodeRunning
	FlagBrownout
	FlagStationEnable
	FlagStationEStop
)
