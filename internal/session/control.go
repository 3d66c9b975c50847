// internal/session/control.go
package session

import (
	"errors"
	"fmt"

	"github.com/tamzrod/driverstation/internal/config"
	"github.com/tamzrod/driverstation/internal/joystick"
	"github.com/tamzrod/driverstation/internal/protocol"
)

var ErrPosition = errors.New("session: position must be 1..3")

// ---- user intent ----

// SetEnable requests the robot be enabled or disabled. The loop clears
// the request while the link is down or no robot code is running.
func (c *Controller) SetEnable(on bool) {
	c.enabled.Store(on)
}

// ToggleEnable flips the enable request and returns the new value.
func (c *Controller) ToggleEnable() bool {
	for {
		cur := c.enabled.Load()
		if c.enabled.CompareAndSwap(cur, !cur) {
			return !cur
		}
	}
}

// EStop latches the emergency stop. Only a lost link or lost robot code
// clears it.
func (c *Controller) EStop() {
	c.estop.Store(true)
	c.enabled.Store(false)
	c.log.Warn("session: emergency stop")
}

func (c *Controller) SetMode(m protocol.Mode) {
	c.mode.Store(uint32(m))
}

func (c *Controller) SetAlliance(a protocol.Alliance) {
	c.alliance.Store(uint32(a))
	c.store.SetAlliance(a)
}

func (c *Controller) SetPosition(p int) error {
	if p < 1 || p > 3 {
		return fmt.Errorf("%w: %d", ErrPosition, p)
	}
	c.position.Store(int32(p))
	c.store.SetPosition(p)
	return nil
}

// Reboot asserts the reboot request for the request window.
func (c *Controller) Reboot() {
	c.rebootUntil.Store(c.clock.Now().Add(c.cfg.RequestWindow).UnixNano())
	c.log.Info("session: controller reboot requested")
}

// RestartCode asserts the restart-code request for the request window.
func (c *Controller) RestartCode() {
	c.restartUntil.Store(c.clock.Now().Add(c.cfg.RequestWindow).UnixNano())
	c.log.Info("session: robot code restart requested")
}

// ---- accessors ----

func (c *Controller) Enabled() bool       { return c.enabled.Load() }
func (c *Controller) EStopped() bool      { return c.estop.Load() }
func (c *Controller) Mode() protocol.Mode { return protocol.Mode(c.mode.Load()) }
func (c *Controller) Position() int       { return int(c.position.Load()) }

func (c *Controller) Alliance() protocol.Alliance {
	return protocol.Alliance(c.alliance.Load())
}

// Connected reports whether a status packet arrived within the liveness
// window.
func (c *Controller) Connected() bool {
	return c.connectedAt(c.clock.Now())
}

// Robot returns the robot-reported status, reset if stale.
func (c *Controller) Robot() protocol.RobotStatus {
	return c.robot.Status(c.clock.Now())
}

// ---- joysticks ----

// LoadJoysticks rebinds attached devices to slots and persists the result.
// The enable request is dropped first.
func (c *Controller) LoadJoysticks() {
	c.enabled.Store(false)

	guids := c.joysticks.Load(c.store.JoystickGUIDs(), c.devices)
	c.store.SetJoystickGUIDs(guids)

	n := 0
	for _, info := range c.joysticks.Infos() {
		if info.Present {
			c.store.SetJoystickName(info.GUID, info.Name)
			n++
		}
	}
	c.log.Info("session: %d joystick(s) loaded", n)

	_ = c.SaveJoysticks()
}

// SaveJoysticks persists slot identities and the rest of the station settings.
func (c *Controller) SaveJoysticks() error {
	c.store.SetJoystickGUIDs(c.joysticks.GUIDs())
	if err := c.store.Save(); err != nil {
		if errors.Is(err, config.ErrNoPath) {
			c.log.Debug("session: settings not persisted: %v", err)
		} else {
			c.log.Error("session: save settings: %v", err)
		}
		return err
	}
	return nil
}

// SwapJoysticks exchanges two slots. The enable request is dropped first.
func (c *Controller) SwapJoysticks(a, b int) error {
	c.enabled.Store(false)
	if err := c.joysticks.Swap(a, b); err != nil {
		return err
	}
	c.log.Info("session: swapped joystick slots %d and %d", a, b)

	if err := c.SaveJoysticks(); err != nil && !errors.Is(err, config.ErrNoPath) {
		return err
	}
	return nil
}

func (c *Controller) Joysticks() []joystick.Info { return c.joysticks.Infos() }

func (c *Controller) HasJoysticks() bool { return c.joysticks.Present() }
