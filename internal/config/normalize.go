// internal/config/normalize.go
package config

import (
	"fmt"
	"strings"

	"github.com/tamzrod/driverstation/internal/protocol"
	"github.com/tamzrod/driverstation/internal/status"
)

// DefaultRemoteHost is the robot controller's mDNS name pattern.
const DefaultRemoteHost = "roborio-{team}.local"

// Default returns a configuration that passes Validate and has been
// normalized.
func Default() *Config {
	cfg := &Config{}
	Normalize(cfg)
	return cfg
}

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	// ------------------------------------------------------------
	// STATION
	// ------------------------------------------------------------

	st := &cfg.Station
	if st.Alliance == "" {
		st.Alliance = protocol.AllianceRed.String()
	} else {
		st.Alliance = strings.ToLower(strings.TrimSpace(st.Alliance))
	}
	if st.Position == 0 {
		st.Position = 1
	}

	// exactly one entry per slot
	for len(st.Joysticks) < protocol.JoystickSlots {
		st.Joysticks = append(st.Joysticks, "")
	}

	// ------------------------------------------------------------
	// NETWORK
	// ------------------------------------------------------------

	nw := &cfg.Network
	if nw.Listen == "" {
		nw.Listen = fmt.Sprintf(":%d", protocol.StationPort)
	}
	if nw.RemoteHost == "" {
		nw.RemoteHost = DefaultRemoteHost
	}
	if nw.RemotePort == 0 {
		nw.RemotePort = protocol.RobotPort
	}
	if nw.ResolveRetryMs == 0 {
		nw.ResolveRetryMs = 1000
	}

	// ------------------------------------------------------------
	// TIMING
	// ------------------------------------------------------------

	tm := &cfg.Timing
	setDefault(&tm.SendIntervalMs, int(protocol.SendInterval.Milliseconds()))
	setDefault(&tm.LoopIntervalMs, int(protocol.LoopInterval.Milliseconds()))
	setDefault(&tm.LivenessMs, int(protocol.LivenessTimeout.Milliseconds()))
	setDefault(&tm.ProbeIntervalMs, int(protocol.ProbeInterval.Milliseconds()))
	setDefault(&tm.ProbeTimeoutMs, int(protocol.ProbeTimeout.Milliseconds()))
	setDefault(&tm.RequestWindowMs, int(protocol.RequestWindow.Milliseconds()))

	// ------------------------------------------------------------
	// MIRROR (OPT-IN)
	// ------------------------------------------------------------

	setDefault(&cfg.Mirror.IntervalMs, 100)

	if m := cfg.Mirror.Modbus; m != nil {
		setDefault(&m.TimeoutMs, 1000)

		// Normalize device_name:
		// - ASCII already validated
		// - Truncate to the status block's name capacity
		if len(m.DeviceName) > status.DeviceNameMaxChars {
			m.DeviceName = m.DeviceName[:status.DeviceNameMaxChars]
		}
	}
}

func setDefault(v *int, def int) {
	if *v == 0 {
		*v = def
	}
}

// RemoteHostFor expands {team} in the configured host pattern.
func RemoteHostFor(pattern string, team uint16) string {
	return strings.ReplaceAll(pattern, "{team}", fmt.Sprintf("%d", team))
}
