// internal/protocol/command.go
package protocol

import (
	"time"

	"github.com/tamzrod/driverstation/internal/wire"
)

// Command is the per-packet header state sent to the robot.
type Command struct {
	Seq         uint16
	Mode        Mode
	Enabled     bool
	EStop       bool
	Reboot      bool
	RestartCode bool
	Alliance    Alliance
	Position    int
}

// JoystickInput is one slot's input snapshot as carried on the wire.
type JoystickInput struct {
	Axes    []int8  `json:"axes"`
	Buttons []bool  `json:"buttons"`
	Hats    []int16 `json:"hats"`
}

// ControlByte packs estop, enabled and mode.
func ControlByte(mode Mode, enabled, estop bool) byte {
	b := byte(mode) & ControlModeMask
	if enabled {
		b |= ControlEnabled
	}
	if estop {
		b |= ControlEStop
	}
	return b
}

// ParseControl is the inverse of ControlByte.
func ParseControl(b byte) (mode Mode, enabled, estop bool) {
	return Mode(b & ControlModeMask), b&ControlEnabled != 0, b&ControlEStop != 0
}

// RequestByte packs the one-shot reboot and restart-code requests.
func RequestByte(reboot, restartCode bool) byte {
	var b byte
	if reboot {
		b |= RequestReboot
	}
	if restartCode {
		b |= RequestRestartCode
	}
	return b
}

// WriteHeader appends the fixed 6-byte command header.
func WriteHeader(c *wire.Cursor, cmd Command) {
	c.WriteUint16(cmd.Seq, wire.Big)
	c.WriteUint8(CommVersion)
	c.WriteUint8(ControlByte(cmd.Mode, cmd.Enabled, cmd.EStop))
	c.WriteUint8(RequestByte(cmd.Reboot, cmd.RestartCode))
	c.WriteUint8(StationByte(cmd.Alliance, cmd.Position))
}

// WriteTimeSync appends the date tag followed by the timezone tag.
// Calendar fields are UTC; zone is the name reported for t's location.
func WriteTimeSync(c *wire.Cursor, t time.Time) {
	zone, _ := t.Zone()
	u := t.UTC()

	c.WriteUint8(11)
	c.WriteUint8(TagDate)
	c.WriteUint32(uint32(u.Nanosecond()/int(time.Millisecond)), wire.Default)
	c.WriteUint8(uint8(u.Second()))
	c.WriteUint8(uint8(u.Minute()))
	c.WriteUint8(uint8(u.Hour()))
	c.WriteUint8(uint8(u.Day()))
	c.WriteUint8(uint8(u.Month() - 1))
	c.WriteUint8(uint8(u.Year() - 1900))

	if len(zone) > 254 {
		zone = zone[:254]
	}
	c.WriteUint8(uint8(len(zone) + 1))
	c.WriteUint8(TagTimezone)
	c.WriteBytes([]byte(zone))
}

// WriteJoystick appends one joystick tag. Counts beyond MaxAxes,
// MaxButtons and MaxHats are truncated.
func WriteJoystick(c *wire.Cursor, js JoystickInput) {
	axes := js.Axes
	if len(axes) > MaxAxes {
		axes = axes[:MaxAxes]
	}
	buttons := js.Buttons
	if len(buttons) > MaxButtons {
		buttons = buttons[:MaxButtons]
	}
	hats := js.Hats
	if len(hats) > MaxHats {
		hats = hats[:MaxHats]
	}

	// id + axisCount + axes + buttonCount + mask + hatCount + hats
	size := 1 + 1 + len(axes) + 1 + 2 + 1 + 2*len(hats)

	c.WriteUint8(uint8(size))
	c.WriteUint8(TagJoystick)

	c.WriteUint8(uint8(len(axes)))
	for _, a := range axes {
		c.WriteInt8(a)
	}

	c.WriteUint8(uint8(len(buttons)))
	c.WriteUint16(ButtonMask(buttons), wire.Big)

	c.WriteUint8(uint8(len(hats)))
	for _, h := range hats {
		c.WriteInt16(h, wire.Default)
	}
}

// ButtonMask places button 0 in the most significant used bit.
func ButtonMask(buttons []bool) uint16 {
	if len(buttons) > MaxButtons {
		buttons = buttons[:MaxButtons]
	}
	var m uint16
	for _, pressed := range buttons {
		m <<= 1
		if pressed {
			m |= 1
		}
	}
	return m
}
