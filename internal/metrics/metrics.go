// internal/metrics/metrics.go
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace prefixes every metric name.
const Namespace = "driverstation"

// Metrics holds the link and decode instruments.
// All methods are safe on a nil receiver so callers can run without metrics.
type Metrics struct {
	packetsSent     prometheus.Counter
	packetsReceived prometheus.Counter
	sendErrors      prometheus.Counter
	receiveErrors   prometheus.Counter
	decodeAnomalies *prometheus.CounterVec
	unknownTags     *prometheus.CounterVec
	joystickSkips   *prometheus.CounterVec
	timeSyncs       prometheus.Counter
	probes          prometheus.Counter
	mirrorWrites    *prometheus.CounterVec
	connected       prometheus.Gauge
	battery         prometheus.Gauge
}

// New registers every instrument with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		packetsSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "packets_sent_total",
			Help:      "Command packets handed to the transport",
		}),
		packetsReceived: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "packets_received_total",
			Help:      "Status packets received from the robot",
		}),
		sendErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "send_errors_total",
			Help:      "Command packets the transport failed to send",
		}),
		receiveErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "receive_errors_total",
			Help:      "Inbound socket errors",
		}),
		decodeAnomalies: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "decode_anomalies_total",
			Help:      "Status packets decoded with anomalies by kind",
		}, []string{"kind"}),
		unknownTags: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "unknown_tags_total",
			Help:      "Skipped status extension tags by id",
		}, []string{"tag"}),
		joystickSkips: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "joystick_skips_total",
			Help:      "Loop cycles that skipped joystick data because the slot set was busy",
		}, []string{"path"}),
		timeSyncs: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "time_syncs_total",
			Help:      "Packets carrying the clock sync block",
		}),
		probes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "version_probes_total",
			Help:      "Version probes started",
		}),
		mirrorWrites: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "mirror_writes_total",
			Help:      "Telemetry mirror writes by sink and result",
		}, []string{"sink", "result"}),
		connected: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "robot_connected",
			Help:      "1 while status packets arrive within the liveness window",
		}),
		battery: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "robot_battery_volts",
			Help:      "Battery voltage from the last status packet",
		}),
	}
}

func (m *Metrics) PacketSent() {
	if m != nil {
		m.packetsSent.Inc()
	}
}

func (m *Metrics) PacketReceived() {
	if m != nil {
		m.packetsReceived.Inc()
	}
}

func (m *Metrics) SendError() {
	if m != nil {
		m.sendErrors.Inc()
	}
}

func (m *Metrics) ReceiveError() {
	if m != nil {
		m.receiveErrors.Inc()
	}
}

// DecodeAnomaly counts one anomaly. kind is short, overrun or truncated.
func (m *Metrics) DecodeAnomaly(kind string) {
	if m != nil {
		m.decodeAnomalies.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) UnknownTag(id byte) {
	if m != nil {
		m.unknownTags.WithLabelValues(fmt.Sprintf("0x%02x", id)).Inc()
	}
}

// JoystickSkip counts a try-lock miss. path is encode or apply.
func (m *Metrics) JoystickSkip(path string) {
	if m != nil {
		m.joystickSkips.WithLabelValues(path).Inc()
	}
}

func (m *Metrics) TimeSync() {
	if m != nil {
		m.timeSyncs.Inc()
	}
}

func (m *Metrics) ProbeStarted() {
	if m != nil {
		m.probes.Inc()
	}
}

func (m *Metrics) MirrorWrite(sink string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.mirrorWrites.WithLabelValues(sink, result).Inc()
}

func (m *Metrics) SetConnected(up bool) {
	if m == nil {
		return
	}
	if up {
		m.connected.Set(1)
	} else {
		m.connected.Set(0)
	}
}

func (m *Metrics) SetBattery(volts float64) {
	if m != nil {
		m.battery.Set(volts)
	}
}
