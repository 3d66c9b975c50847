// internal/session/loop.go
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tamzrod/driverstation/internal/protocol"
	"github.com/tamzrod/driverstation/internal/wire"
)

// Step performs exactly one loop iteration without the trailing sleep.
// Order: receive, send, probe, link bookkeeping.
func (c *Controller) Step() {
	now := c.clock.Now()

	c.receive(now)

	if now.Sub(c.lastSend) >= c.cfg.SendInterval {
		c.send(now)
	}

	c.maybeProbe(now)

	c.trackLink(now)
}

// ------------------------------------------------------------
// inbound
// ------------------------------------------------------------

func (c *Controller) receive(now time.Time) {
	data, err := c.link.Receive()
	if err != nil {
		c.metrics.ReceiveError()
		c.log.Debug("session: receive: %v", err)
		return
	}
	if len(data) == 0 {
		return
	}

	c.log.DebugPacket("In", data)
	c.metrics.PacketReceived()
	c.lastRecv.Store(now.UnixNano())

	rep := c.robot.Update(data, now)
	c.recordDecode(rep)

	rs := c.robot.Status(now)
	c.metrics.SetBattery(rs.Battery)

	if !c.joysticks.TryApply(rs.Outputs, c.enabled.Load()) {
		c.metrics.JoystickSkip("apply")
	}
}

func (c *Controller) recordDecode(rep protocol.DecodeReport) {
	if rep.Short {
		c.metrics.DecodeAnomaly("short")
	}
	if rep.Overrun {
		c.metrics.DecodeAnomaly("overrun")
	}
	if rep.Truncated {
		c.metrics.DecodeAnomaly("truncated")
		c.log.Debug("session: status tag overruns packet, rest dropped")
	}
	for _, id := range rep.Unknown {
		c.metrics.UnknownTag(id)
	}
}

// ------------------------------------------------------------
// outbound
// ------------------------------------------------------------

func (c *Controller) send(now time.Time) {
	pkt := c.MakePacket(now)
	c.lastSend = now

	c.log.DebugPacket("Out", pkt)
	if err := c.link.Send(pkt); err != nil {
		c.metrics.SendError()
		c.log.Debug("session: send: %v", err)
		return
	}
	c.metrics.PacketSent()
}

// MakePacket encodes the next command packet and advances the sequence.
// The first packet of a session carries the clock sync block; later ones
// carry all joystick slots, or nothing if the slots are busy.
func (c *Controller) MakePacket(now time.Time) []byte {
	cur := wire.NewSize(64)

	protocol.WriteHeader(cur, protocol.Command{
		Seq:         c.seq,
		Mode:        protocol.Mode(c.mode.Load()),
		Enabled:     c.enabled.Load(),
		EStop:       c.estop.Load(),
		Reboot:      now.UnixNano() < c.rebootUntil.Load(),
		RestartCode: now.UnixNano() < c.restartUntil.Load(),
		Alliance:    protocol.Alliance(c.alliance.Load()),
		Position:    int(c.position.Load()),
	})
	c.seq++

	if !c.sentTime.Load() {
		c.sentTime.Store(true)
		protocol.WriteTimeSync(cur, now)
		c.metrics.TimeSync()
		c.log.Debug("session: clock sync sent")
		return cur.Bytes()
	}

	inputs, ok := c.joysticks.TryInputs()
	if !ok {
		c.metrics.JoystickSkip("encode")
		return cur.Bytes()
	}
	for _, in := range inputs {
		protocol.WriteJoystick(cur, in)
	}
	return cur.Bytes()
}

// ------------------------------------------------------------
// link bookkeeping
// ------------------------------------------------------------

func (c *Controller) trackLink(now time.Time) {
	connected := c.connectedAt(now)

	if connected != c.wasConnected {
		c.wasConnected = connected
		c.metrics.SetConnected(connected)
		if connected {
			id := uuid.NewString()
			c.sessionID.Store(&id)
			c.log.Info("session: robot connected (session %s)", id)
		} else {
			c.log.Warn("session: robot link lost")
		}
	}

	if !connected || !c.robot.Status(now).CodeRunning {
		c.sentTime.Store(false)
		c.estop.Store(false)
		c.enabled.Store(false)
	}
}

func (c *Controller) connectedAt(now time.Time) bool {
	last := c.lastRecv.Load()
	if last == 0 {
		return false
	}
	return now.Sub(time.Unix(0, last)) < c.cfg.Liveness
}

// ------------------------------------------------------------
// version probe
// ------------------------------------------------------------

func (c *Controller) maybeProbe(now time.Time) {
	if c.prober == nil {
		return
	}
	if c.versions.Load().Complete() {
		return
	}
	if last := c.lastProbe.Load(); last != 0 && now.Sub(time.Unix(0, last)) < c.cfg.ProbeInterval {
		return
	}
	if !c.probing.CompareAndSwap(false, true) {
		return
	}

	c.lastProbe.Store(now.UnixNano())
	c.metrics.ProbeStarted()

	go func() {
		defer c.probing.Store(false)

		ctx, cancel := context.WithTimeout(context.Background(), c.cfg.ProbeTimeout)
		defer cancel()

		got := c.prober.Probe(ctx)

		prev := c.versions.Load()
		merged := *prev
		if got.Library != "" {
			merged.Library = got.Library
		}
		if got.Firmware != "" {
			merged.Firmware = got.Firmware
		}
		c.versions.Store(&merged)

		if merged.Complete() {
			c.log.Info("session: controller firmware %q library %q", merged.Firmware, merged.Library)
		} else {
			c.log.Debug("session: version probe incomplete: %+v", merged)
		}
	}()
}
