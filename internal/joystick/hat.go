// internal/joystick/hat.go
package joystick

import "github.com/tamzrod/driverstation/internal/protocol"

// HatDirection is a bitset of pressed hat directions.
type HatDirection uint8

const (
	HatUp    HatDirection = 0x01
	HatRight HatDirection = 0x02
	HatDown  HatDirection = 0x04
	HatLeft  HatDirection = 0x08
)

// HatAngle converts a direction set to degrees clockwise from up.
// Released or contradictory input reports protocol.HatCentered.
func HatAngle(d HatDirection) int16 {
	switch d {
	case HatUp:
		return 0
	case HatUp | HatRight:
		return 45
	case HatRight:
		return 90
	case HatDown | HatRight:
		return 135
	case HatDown:
		return 180
	case HatDown | HatLeft:
		return 225
	case HatLeft:
		return 270
	case HatUp | HatLeft:
		return 315
	}
	return protocol.HatCentered
}
