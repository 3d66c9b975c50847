// internal/writer/redis/publisher_test.go
package redis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tamzrod/driverstation/internal/status"
)

func TestHashFields(t *testing.T) {
	at := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	s := Sample{
		At:        at,
		SessionID: "abc",
		Firmware:  "9.0",
		Status: status.Snapshot{
			Health:  status.HealthOK,
			Mode:    2,
			Flags:   status.FlagConnected | status.FlagEnabled,
			Battery: 1250,
			CPU:     [2]uint16{5000, 125},
			Team:    1234,
		},
	}

	f := HashFields(s)
	require.Equal(t, "ok", f["health"])
	require.Equal(t, "on", f["connected"])
	require.Equal(t, "on", f["enabled"])
	require.Equal(t, "off", f["estop"])
	require.Equal(t, "auto", f["mode"])
	require.Equal(t, "12.50", f["battery"])
	require.Equal(t, "50.00", f["cpu:0"])
	require.Equal(t, "1.25", f["cpu:1"])
	require.Equal(t, uint16(1234), f["team"])
	require.Equal(t, "abc", f["session"])
	require.Equal(t, "9.0", f["fw-version"])
	require.Equal(t, "2024-03-09T12:00:00Z", f["updated"])
}

func TestHealthNames(t *testing.T) {
	require.Equal(t, "unknown", health(status.HealthUnknown))
	require.Equal(t, "stale", health(status.HealthStale))
	require.Equal(t, "no-code", health(status.HealthDisabled))
}

func TestNewValidates(t *testing.T) {
	_, err := New(Config{Key: "robot:1"})
	require.Error(t, err)

	_, err = New(Config{Addr: "localhost:6379"})
	require.Error(t, err)

	p, err := New(Config{Addr: "localhost:6379", Key: "robot:1"})
	require.NoError(t, err)
	require.Equal(t, "robot:1", p.Key())
	require.NoError(t, p.Close())
}

func TestPublishUnreachable(t *testing.T) {
	p, err := New(Config{Addr: "127.0.0.1:1", Key: "robot:1", Timeout: 100 * time.Millisecond})
	require.NoError(t, err)
	defer p.Close()

	require.Error(t, p.Publish(Sample{At: time.Now()}))
}
