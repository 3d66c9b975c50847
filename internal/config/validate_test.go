// internal/config/validate_test.go
package config

import (
	"strings"
	"testing"
)

// helper to build a valid config quickly
func valid() *Config {
	return &Config{
		Station: StationConfig{
			Team:     1234,
			Alliance: "blue",
			Position: 2,
		},
		Mirror: MirrorConfig{
			Modbus: &ModbusSink{
				Endpoint:   "127.0.0.1:502",
				UnitID:     1,
				DeviceName: "ROBOT-1234",
			},
		},
	}
}

// ---- tests ----

func TestValidate_OK(t *testing.T) {
	if err := Validate(valid()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_EmptyIsOK(t *testing.T) {
	if err := Validate(&Config{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Rejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"alliance", func(c *Config) { c.Station.Alliance = "green" }, "alliance"},
		{"position", func(c *Config) { c.Station.Position = 4 }, "position"},
		{"joysticks", func(c *Config) { c.Station.Joysticks = make([]string, 7) }, "joysticks"},
		{"port", func(c *Config) { c.Network.RemotePort = 70000 }, "remote_port"},
		{"timing", func(c *Config) { c.Timing.LivenessMs = -1 }, "liveness_ms"},
		{"unit id", func(c *Config) { c.Mirror.Modbus.UnitID = 0 }, "unit_id"},
		{"endpoint", func(c *Config) { c.Mirror.Modbus.Endpoint = " " }, "endpoint"},
		{"device name", func(c *Config) { c.Mirror.Modbus.DeviceName = "RÖBOT" }, "ASCII"},
		{"redis", func(c *Config) { c.Mirror.Redis = &RedisSink{} }, "redis.addr"},
		{"log level", func(c *Config) { c.Log.Level = "chatty" }, "log.level"},
	}

	for _, tc := range cases {
		cfg := valid()
		tc.mutate(cfg)

		err := Validate(cfg)
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: error %q does not mention %q", tc.name, err, tc.want)
		}
	}
}

func TestValidate_DoesNotMutate(t *testing.T) {
	cfg := valid()
	cfg.Mirror.Modbus.DeviceName = "A-VERY-LONG-DEVICE-NAME"

	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Mirror.Modbus.DeviceName != "A-VERY-LONG-DEVICE-NAME" {
		t.Fatalf("Validate mutated device_name")
	}
}

func TestNormalize_Defaults(t *testing.T) {
	cfg := &Config{}
	Normalize(cfg)

	if cfg.Station.Alliance != "red" || cfg.Station.Position != 1 {
		t.Fatalf("station defaults: %+v", cfg.Station)
	}
	if len(cfg.Station.Joysticks) != 6 {
		t.Fatalf("joysticks not padded: %d", len(cfg.Station.Joysticks))
	}
	if cfg.Network.Listen != ":1150" || cfg.Network.RemotePort != 1110 {
		t.Fatalf("network defaults: %+v", cfg.Network)
	}
	if cfg.Timing.SendIntervalMs != 20 || cfg.Timing.LoopIntervalMs != 15 || cfg.Timing.LivenessMs != 1000 {
		t.Fatalf("timing defaults: %+v", cfg.Timing)
	}
	if !cfg.ProbeEnabled() {
		t.Fatalf("probe should default to enabled")
	}
}

func TestNormalize_TruncatesDeviceName(t *testing.T) {
	cfg := valid()
	cfg.Mirror.Modbus.DeviceName = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	Normalize(cfg)

	if got := cfg.Mirror.Modbus.DeviceName; got != "ABCDEFGHIJKLMNOP" {
		t.Fatalf("device name not truncated: %q", got)
	}
}

func TestRemoteHostFor(t *testing.T) {
	if got := RemoteHostFor(DefaultRemoteHost, 254); got != "roborio-254.local" {
		t.Fatalf("got %q", got)
	}
}
