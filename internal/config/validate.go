// internal/config/validate.go
package config

import (
	"fmt"
	"strings"

	"github.com/tamzrod/driverstation/internal/logging"
	"github.com/tamzrod/driverstation/internal/protocol"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil")
	}

	// ------------------------------------------------------------
	// STATION
	// ------------------------------------------------------------

	st := cfg.Station

	if st.Alliance != "" {
		if _, err := protocol.ParseAlliance(st.Alliance); err != nil {
			return fmt.Errorf("driverstation.alliance: %w", err)
		}
	}

	// zero is allowed and means "use default"
	if st.Position != 0 && (st.Position < 1 || st.Position > 3) {
		return fmt.Errorf("driverstation.position: %d out of range 1..3", st.Position)
	}

	if len(st.Joysticks) > protocol.JoystickSlots {
		return fmt.Errorf(
			"driverstation.joysticks: %d entries, at most %d slots",
			len(st.Joysticks),
			protocol.JoystickSlots,
		)
	}

	// ------------------------------------------------------------
	// NETWORK / TIMING
	// ------------------------------------------------------------

	if p := cfg.Network.RemotePort; p < 0 || p > 65535 {
		return fmt.Errorf("network.remote_port: %d out of range", p)
	}
	if cfg.Network.ResolveRetryMs < 0 {
		return fmt.Errorf("network.resolve_retry_ms must be >= 0")
	}

	tm := cfg.Timing
	for name, v := range map[string]int{
		"send_interval_ms":  tm.SendIntervalMs,
		"loop_interval_ms":  tm.LoopIntervalMs,
		"liveness_ms":       tm.LivenessMs,
		"probe_interval_ms": tm.ProbeIntervalMs,
		"probe_timeout_ms":  tm.ProbeTimeoutMs,
		"request_window_ms": tm.RequestWindowMs,
	} {
		if v < 0 {
			return fmt.Errorf("timing.%s must be >= 0", name)
		}
	}

	// ------------------------------------------------------------
	// MIRROR (OPT-IN)
	// ------------------------------------------------------------

	if cfg.Mirror.IntervalMs < 0 {
		return fmt.Errorf("mirror.interval_ms must be >= 0")
	}

	if m := cfg.Mirror.Modbus; m != nil {
		if strings.TrimSpace(m.Endpoint) == "" {
			return fmt.Errorf("mirror.modbus.endpoint is required")
		}
		if m.UnitID < 1 || m.UnitID > 247 {
			return fmt.Errorf("mirror.modbus.unit_id: %d out of range 1..247", m.UnitID)
		}

		// device_name sanity (ASCII only)
		for i := 0; i < len(m.DeviceName); i++ {
			if m.DeviceName[i] > 0x7F {
				return fmt.Errorf("mirror.modbus.device_name must contain ASCII characters only")
			}
		}
	}

	if r := cfg.Mirror.Redis; r != nil {
		if strings.TrimSpace(r.Addr) == "" {
			return fmt.Errorf("mirror.redis.addr is required")
		}
		if r.DB < 0 {
			return fmt.Errorf("mirror.redis.db must be >= 0")
		}
	}

	// ------------------------------------------------------------
	// LOGGING
	// ------------------------------------------------------------

	if _, err := logging.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}

	return nil
}
