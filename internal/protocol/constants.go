// internal/protocol/constants.go
package protocol

import "time"

// Robot link layout constants.
// These values define the wire protocol and MUST NOT be configurable.

// ---- PORTS ----

// RobotPort is where the robot controller listens for command packets.
const RobotPort = 1110

// StationPort is where status packets from the robot arrive.
const StationPort = 1150

// ---- OUTBOUND HEADER ----

// CommVersion is the fixed version byte of every command packet.
const CommVersion byte = 0x01

// CommandHeaderSize is seq(2) + version(1) + control(1) + request(1) + station(1).
const CommandHeaderSize = 6

// control byte
const (
	ControlEStop    byte = 0x80
	ControlEnabled  byte = 0x04
	ControlModeMask byte = 0x03
)

// request byte
const (
	RequestReboot      byte = 0x08
	RequestRestartCode byte = 0x04
)

// ---- OUTBOUND TAGS ----

const (
	TagJoystick byte = 0x0c
	TagDate     byte = 0x0f
	TagTimezone byte = 0x10
)

// Joystick block limits. Longer inputs are truncated.
const (
	MaxAxes    = 12
	MaxButtons = 16
	MaxHats    = 4
)

// HatCentered is the angle reported for a released hat.
const HatCentered int16 = -1

// ---- INBOUND HEADER ----

// StatusHeaderSize is the fixed part of every status packet.
const StatusHeaderSize = 8

// status word, read little-endian from bytes 3..4
const (
	StatusModeMask    uint16 = 0x0003
	StatusEnabled     uint16 = 0x0004
	StatusEStop       uint16 = 0x0080
	StatusBrownout    uint16 = 0x1000
	StatusCodeRunning uint16 = 0x2000
)

// ---- INBOUND TAGS ----

const (
	TagJoystickOutput byte = 0x01
	TagDiskInfo       byte = 0x04
	TagCPUInfo        byte = 0x05
	TagRAMInfo        byte = 0x06
	TagCANMetrics     byte = 0x0e
)

// CPUSamples is the number of per-core samples carried in tag 0x05.
const CPUSamples = 2

// ---- SLOTS ----

// JoystickSlots is the fixed number of joystick slots on both directions.
const JoystickSlots = 6

// ---- TIMING ----

const (
	SendInterval    = 20 * time.Millisecond
	LoopInterval    = 15 * time.Millisecond
	LivenessTimeout = 1000 * time.Millisecond
	RequestWindow   = 500 * time.Millisecond
	ProbeInterval   = 2000 * time.Millisecond
	ProbeTimeout    = 1000 * time.Millisecond
)
