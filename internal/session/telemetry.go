// internal/session/telemetry.go
package session

import (
	"math"

	"github.com/tamzrod/driverstation/internal/probe"
	"github.com/tamzrod/driverstation/internal/protocol"
	"github.com/tamzrod/driverstation/internal/status"
)

// View is the operator-facing summary of a session.
type View struct {
	Team      uint16               `json:"team"`
	SessionID string               `json:"session_id,omitempty"`
	Connected bool                 `json:"connected"`
	Enabled   bool                 `json:"enabled"`
	EStop     bool                 `json:"estop"`
	Mode      protocol.Mode        `json:"mode"`
	Alliance  protocol.Alliance    `json:"alliance"`
	Position  int                  `json:"position"`
	Robot     protocol.RobotStatus `json:"robot"`
	Versions  probe.Versions       `json:"versions"`
}

// View samples the whole session at once.
func (c *Controller) View() View {
	now := c.clock.Now()
	return View{
		Team:      c.cfg.Team,
		SessionID: c.SessionID(),
		Connected: c.connectedAt(now),
		Enabled:   c.enabled.Load(),
		EStop:     c.estop.Load(),
		Mode:      protocol.Mode(c.mode.Load()),
		Alliance:  protocol.Alliance(c.alliance.Load()),
		Position:  int(c.position.Load()),
		Robot:     c.robot.Status(now),
		Versions:  c.Versions(),
	}
}

// Telemetry converts the session into a mirror status snapshot.
func (c *Controller) Telemetry() status.Snapshot {
	now := c.clock.Now()
	rs := c.robot.Status(now)
	connected := c.connectedAt(now)

	s := status.Snapshot{
		Mode:     uint16(rs.Mode),
		Battery:  clampU16(rs.Battery * 100),
		Sequence: rs.Seq,
		Disk:     rs.Disk,
		RAM:      rs.RAM,
		Team:     c.cfg.Team,
		Station: uint16(protocol.StationByte(
			protocol.Alliance(c.alliance.Load()),
			int(c.position.Load()),
		)),
	}

	switch {
	case c.lastRecv.Load() == 0:
		s.Health = status.HealthUnknown
	case !connected:
		s.Health = status.HealthStale
	case !rs.CodeRunning:
		s.Health = status.HealthDisabled
	default:
		s.Health = status.HealthOK
	}

	for i, v := range rs.CPU {
		s.CPU[i] = clampU16(float64(v) * 100)
	}
	s.CAN = [status.SlotCANSlots]uint16{
		uint16(rs.CAN.Utilization),
		uint16(rs.CAN.BusOff),
		uint16(rs.CAN.TxFull),
		uint16(rs.CAN.Receive),
		uint16(rs.CAN.Transmit),
	}

	flag := func(on bool, f uint16) {
		if on {
			s.Flags |= f
		}
	}
	flag(connected, status.FlagConnected)
	flag(rs.Enabled, status.FlagEnabled)
	flag(rs.EStop, status.FlagEStop)
	flag(rs.CodeRunning, status.FlagCodeRunning)
	flag(rs.Brownout, status.FlagBrownout)
	flag(c.enabled.Load(), status.FlagStationEnable)
	flag(c.estop.Load(), status.FlagStationEStop)

	return s
}

func clampU16(v float64) uint16 {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= math.MaxUint16:
		return math.MaxUint16
	}
	return uint16(math.Round(v))
}
