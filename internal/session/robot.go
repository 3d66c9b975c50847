// internal/session/robot.go
package session

import (
	"sync"
	"time"

	"github.com/tamzrod/driverstation/internal/protocol"
)

// Robot holds the last decoded status packet.
//
// Staleness is enforced on read: if nothing was decoded within the
// timeout, the snapshot is reset to the zero value before it is returned.
type Robot struct {
	mu      sync.Mutex
	status  protocol.RobotStatus
	last    time.Time
	timeout time.Duration
}

func newRobot(timeout time.Duration) *Robot {
	return &Robot{timeout: timeout}
}

// Update decodes data on top of the current snapshot.
func (r *Robot) Update(data []byte, now time.Time) protocol.DecodeReport {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, rep := protocol.Decode(r.status, data)
	r.status = s
	r.last = now
	return rep
}

// Status returns the snapshot as of now.
func (r *Robot) Status(now time.Time) protocol.RobotStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	if now.Sub(r.last) > r.timeout {
		r.status = protocol.RobotStatus{}
	}
	return r.status
}

// LastPacket is the time of the last decode, zero if none.
func (r *Robot) LastPacket() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}
