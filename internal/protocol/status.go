// internal/protocol/status.go
package protocol

import (
	"github.com/tamzrod/driverstation/internal/wire"
)

// JoystickOutput is the per-slot feedback the robot asks the station to
// drive on the physical device.
type JoystickOutput struct {
	Outputs     uint32 `json:"outputs"`
	RumbleLeft  uint16 `json:"rumble_left"`
	RumbleRight uint16 `json:"rumble_right"`
}

// CANMetrics mirrors tag 0x0e.
type CANMetrics struct {
	Utilization uint8 `json:"utilization"`
	BusOff      uint8 `json:"bus_off"`
	TxFull      uint8 `json:"tx_full"`
	Receive     uint8 `json:"receive"`
	Transmit    uint8 `json:"transmit"`
}

// RobotStatus is the decoded view of the most recent status packet.
// The zero value is the disconnected state.
type RobotStatus struct {
	Seq         uint16  `json:"seq"`
	Mode        Mode    `json:"mode"`
	Enabled     bool    `json:"enabled"`
	EStop       bool    `json:"estop"`
	Brownout    bool    `json:"brownout"`
	CodeRunning bool    `json:"code_running"`
	Battery     float64 `json:"battery"`

	CPUCount uint8               `json:"cpu_count"`
	CPU      [CPUSamples]float32 `json:"cpu"`
	Disk     uint32              `json:"disk"`
	RAM      uint32              `json:"ram"`
	CAN      CANMetrics          `json:"can"`

	Outputs [JoystickSlots]JoystickOutput `json:"outputs"`
}

// DecodeReport describes anomalies seen while decoding. None of them make
// the decode fail.
type DecodeReport struct {
	// Short is set when the packet is smaller than the fixed header.
	Short bool
	// Overrun is set when any field read ran past its block.
	Overrun bool
	// Truncated is set when a tag declared more bytes than remained.
	Truncated bool
	Tags      []byte
	Unknown   []byte
}

// Decode parses one status packet on top of prev. Fields the packet cannot
// satisfy keep their previous value. A packet that is exactly the header
// zeroes every joystick output.
func Decode(prev RobotStatus, data []byte) (RobotStatus, DecodeReport) {
	s := prev
	var rep DecodeReport

	hdr := data
	if len(hdr) > StatusHeaderSize {
		hdr = hdr[:StatusHeaderSize]
	}
	if len(hdr) < StatusHeaderSize {
		rep.Short = true
	}
	hc := wire.From(hdr)
	decodeHeader(&s, hc)
	rep.Overrun = hc.Overran()

	if len(data) == StatusHeaderSize {
		s.Outputs = [JoystickSlots]JoystickOutput{}
		return s, rep
	}

	slot := 0
	off := StatusHeaderSize
	for off < len(data) {
		size := int(data[off])
		end := off + 1 + size
		if end > len(data) {
			rep.Truncated = true
			end = len(data)
		}

		if block := data[off+1 : end]; len(block) > 0 {
			id := block[0]
			rep.Tags = append(rep.Tags, id)
			known, overran := decodeTag(&s, id, block[1:], &slot)
			if !known {
				rep.Unknown = append(rep.Unknown, id)
			}
			rep.Overrun = rep.Overrun || overran
		}

		if rep.Truncated {
			break
		}
		off = end
	}

	return s, rep
}

func decodeHeader(s *RobotStatus, c *wire.Cursor) {
	c.ReadUint16(&s.Seq, wire.Big)
	c.Skip(1)

	var word uint16
	if c.ReadUint16(&word, wire.Little) {
		s.Mode = Mode(word & StatusModeMask)
		s.Enabled = word&StatusEnabled != 0
		s.EStop = word&StatusEStop != 0
		s.Brownout = word&StatusBrownout != 0
		s.CodeRunning = word&StatusCodeRunning != 0
	}

	var whole, frac uint8
	if c.ReadUint8(&whole) && c.ReadUint8(&frac) {
		s.Battery = BatteryVolts(whole, frac)
	}
}

// BatteryVolts converts the two battery bytes into volts.
func BatteryVolts(whole, frac uint8) float64 {
	return float64(whole) + float64(frac)*99/255/100
}

// decodeTag applies one extension block. Unknown ids are reported and their
// payload is left to the caller to skip.
func decodeTag(s *RobotStatus, id byte, payload []byte, slot *int) (known, overran bool) {
	c := wire.From(payload)

	switch id {
	case TagJoystickOutput:
		if *slot >= JoystickSlots {
			return true, false
		}
		out := &s.Outputs[*slot]
		*slot++
		if len(payload) == 0 {
			*out = JoystickOutput{}
			return true, false
		}
		c.ReadUint32(&out.Outputs, wire.Big)
		c.ReadUint16(&out.RumbleLeft, wire.Big)
		c.ReadUint16(&out.RumbleRight, wire.Big)

	case TagDiskInfo:
		if c.Skip(3) {
			c.ReadUint32(&s.Disk, wire.Big)
		}

	case TagCPUInfo:
		c.ReadUint8(&s.CPUCount)
		for i := 0; i < CPUSamples; i++ {
			if !c.ReadFloat32(&s.CPU[i], wire.Big) {
				break
			}
			c.Skip(12)
		}

	case TagRAMInfo:
		if c.Skip(3) {
			c.ReadUint32(&s.RAM, wire.Big)
		}

	case TagCANMetrics:
		if c.Skip(9) {
			c.ReadUint8(&s.CAN.Utilization)
			c.ReadUint8(&s.CAN.BusOff)
			c.ReadUint8(&s.CAN.TxFull)
			c.ReadUint8(&s.CAN.Receive)
			c.ReadUint8(&s.CAN.Transmit)
		}

	default:
		return false, false
	}

	return true, c.Overran()
}
