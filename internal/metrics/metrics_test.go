// internal/metrics/metrics_test.go
package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.PacketSent()
	m.PacketSent()
	m.UnknownTag(0x99)
	m.MirrorWrite("modbus", errors.New("boom"))
	m.SetConnected(true)

	if got := testutil.ToFloat64(m.packetsSent); got != 2 {
		t.Fatalf("packets sent: %v", got)
	}
	if got := testutil.ToFloat64(m.unknownTags.WithLabelValues("0x99")); got != 1 {
		t.Fatalf("unknown tag: %v", got)
	}
	if got := testutil.ToFloat64(m.mirrorWrites.WithLabelValues("modbus", "error")); got != 1 {
		t.Fatalf("mirror writes: %v", got)
	}
	if got := testutil.ToFloat64(m.connected); got != 1 {
		t.Fatalf("connected: %v", got)
	}
}

func TestNilSafe(t *testing.T) {
	var m *Metrics
	m.PacketSent()
	m.DecodeAnomaly("short")
	m.SetBattery(12.5)
	m.MirrorWrite("redis", nil)
}
