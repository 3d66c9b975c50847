// internal/protocol/mode.go
package protocol

import (
	"fmt"
	"strings"
)

// Mode is the robot operating mode. Values are the on-wire encoding.
type Mode uint8

const (
	ModeTeleOp Mode = 0
	ModeTest   Mode = 1
	ModeAuto   Mode = 2
)

func (m Mode) String() string {
	switch m {
	case ModeTeleOp:
		return "teleop"
	case ModeTest:
		return "test"
	case ModeAuto:
		return "auto"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// ParseMode accepts the String() forms, case-insensitive.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "teleop", "tele":
		return ModeTeleOp, nil
	case "test":
		return ModeTest, nil
	case "auto", "autonomous":
		return ModeAuto, nil
	}
	return 0, fmt.Errorf("protocol: unknown mode %q", s)
}

// Alliance is the field side the station represents.
type Alliance uint8

const (
	AllianceRed  Alliance = 0
	AllianceBlue Alliance = 1
)

func (a Alliance) String() string {
	if a == AllianceBlue {
		return "blue"
	}
	return "red"
}

func (a Alliance) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *Alliance) UnmarshalText(b []byte) error {
	v, err := ParseAlliance(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

func ParseAlliance(s string) (Alliance, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "red":
		return AllianceRed, nil
	case "blue":
		return AllianceBlue, nil
	}
	return 0, fmt.Errorf("protocol: unknown alliance %q", s)
}

// StationByte encodes alliance and position (1..3) as
// (position-1) + 3 for blue. Out-of-range positions are clamped.
func StationByte(a Alliance, position int) byte {
	if position < 1 {
		position = 1
	}
	if position > 3 {
		position = 3
	}
	b := byte(position - 1)
	if a == AllianceBlue {
		b += 3
	}
	return b
}

// ParseStation is the inverse of StationByte.
func ParseStation(b byte) (Alliance, int) {
	if b >= 3 {
		return AllianceBlue, int(b-3) + 1
	}
	return AllianceRed, int(b) + 1
}
