// internal/writer/types.go
package writer

import (
	"time"

	"github.com/tamzrod/driverstation/internal/probe"
	"github.com/tamzrod/driverstation/internal/status"
)

// Frame is one mirror sample of the robot session.
type Frame struct {
	At        time.Time
	Status    status.Snapshot
	SessionID string
	Versions  probe.Versions
}

// Writer delivers frames into one sink.
// Implementations hold no session logic; they only mirror what they are given.
type Writer interface {
	Name() string
	Write(f Frame) error
}

// StatusPlan is where a station's status block lives inside a Modbus endpoint.
type StatusPlan struct {
	Endpoint   string
	UnitID     uint16
	BaseSlot   uint16
	DeviceName string
}

// endpointClient is the exact contract the status writer uses.
type endpointClient interface {
	WriteRegisters(unitID uint8, addr uint16, regs []uint16) error
}
