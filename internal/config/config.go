// internal/config/config.go
package config

// Config is the root document of driverstation.yaml.
type Config struct {
	Station StationConfig `yaml:"driverstation"`
	Network NetworkConfig `yaml:"network"`
	Timing  TimingConfig  `yaml:"timing"`
	Probe   ProbeConfig   `yaml:"probe"`
	Mirror  MirrorConfig  `yaml:"mirror"`
	HTTP    HTTPConfig    `yaml:"http"`
	Log     LogConfig     `yaml:"log"`
}

// ------------------------------
// Station identity
// ------------------------------

type StationConfig struct {
	Team     uint16 `yaml:"team"`
	Alliance string `yaml:"alliance"`
	Position int    `yaml:"position"`

	// Joysticks holds the remembered device identity per slot.
	Joysticks []string `yaml:"joysticks"`

	// JoystickNames maps device identity to the last seen device name.
	JoystickNames map[string]string `yaml:"joystick_names,omitempty"`
}

// ------------------------------
// Robot link
// ------------------------------

type NetworkConfig struct {
	Listen string `yaml:"listen"`

	// RemoteHost may contain {team}.
	RemoteHost     string `yaml:"remote_host"`
	RemotePort     int    `yaml:"remote_port"`
	ResolveRetryMs int    `yaml:"resolve_retry_ms"`
}

type TimingConfig struct {
	SendIntervalMs  int `yaml:"send_interval_ms"`
	LoopIntervalMs  int `yaml:"loop_interval_ms"`
	LivenessMs      int `yaml:"liveness_ms"`
	ProbeIntervalMs int `yaml:"probe_interval_ms"`
	ProbeTimeoutMs  int `yaml:"probe_timeout_ms"`
	RequestWindowMs int `yaml:"request_window_ms"`
}

type ProbeConfig struct {
	Enabled *bool  `yaml:"enabled"`
	Host    string `yaml:"host"`
}

// ------------------------------
// Telemetry mirror (optional)
// ------------------------------

type MirrorConfig struct {
	IntervalMs int         `yaml:"interval_ms"`
	Modbus     *ModbusSink `yaml:"modbus,omitempty"`
	Redis      *RedisSink  `yaml:"redis,omitempty"`
}

type ModbusSink struct {
	Endpoint   string `yaml:"endpoint"`
	UnitID     uint16 `yaml:"unit_id"`
	BaseSlot   uint16 `yaml:"base_slot"`
	TimeoutMs  int    `yaml:"timeout_ms"`
	DeviceName string `yaml:"device_name"`
}

type RedisSink struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Key      string `yaml:"key"`
}

// ------------------------------
// Operator API / logging
// ------------------------------

type HTTPConfig struct {
	Listen string `yaml:"listen"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// ProbeEnabled reports the effective probe switch. Unset means on.
func (c *Config) ProbeEnabled() bool {
	return c.Probe.Enabled == nil || *c.Probe.Enabled
}
