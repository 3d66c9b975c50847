// internal/joystick/device.go
package joystick

import "github.com/tamzrod/driverstation/internal/protocol"

// Device is one physical input device as exposed by the host input layer.
// Implementations must be safe to call from the session loop goroutine.
type Device interface {
	GUID() string
	Name() string

	// State returns the current input snapshot.
	State() protocol.JoystickInput

	SetOutputs(bits uint32)
	SetRumble(left, right uint16)
}

// Source enumerates the devices currently attached.
type Source interface {
	Devices() []Device
}

// StaticSource is a fixed device list. It is what the process uses when no
// host input layer is attached, and what tests use.
type StaticSource []Device

func (s StaticSource) Devices() []Device {
	out := make([]Device, len(s))
	copy(out, s)
	return out
}

// AxisValue narrows a 16-bit host axis reading to the wire range.
func AxisValue(raw int16) int8 {
	return int8(raw / 256)
}
