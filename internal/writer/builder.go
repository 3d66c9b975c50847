// internal/writer/builder.go
package writer

import (
	"fmt"
	"time"

	cfg "github.com/tamzrod/driverstation/internal/config"
	wmodbus "github.com/tamzrod/driverstation/internal/writer/modbus"
	wredis "github.com/tamzrod/driverstation/internal/writer/redis"
)

// redisWriter adapts the Redis publisher to Writer.
type redisWriter struct {
	pub *wredis.Publisher
}

func (w redisWriter) Name() string { return "redis" }

func (w redisWriter) Write(f Frame) error {
	return w.pub.Publish(wredis.Sample{
		At:        f.At,
		Status:    f.Status,
		SessionID: f.SessionID,
		Firmware:  f.Versions.Firmware,
		Library:   f.Versions.Library,
	})
}

// BuildSinks creates one Writer per configured mirror sink.
// Assumes config has already passed validation. The returned closer
// releases every connection that was opened.
func BuildSinks(m cfg.MirrorConfig, team uint16) ([]Writer, func() error, error) {
	var sinks []Writer
	var closers []func() error

	closeAll := func() error {
		var last error
		for _, fn := range closers {
			if err := fn(); err != nil {
				last = err
			}
		}
		return last
	}

	if mb := m.Modbus; mb != nil {
		c, err := wmodbus.NewEndpointClient(wmodbus.Config{
			Endpoint: mb.Endpoint,
			Timeout:  time.Duration(mb.TimeoutMs) * time.Millisecond,
		})
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, c.Close)

		sw, err := NewDeviceStatusWriter(StatusPlan{
			Endpoint:   mb.Endpoint,
			UnitID:     mb.UnitID,
			BaseSlot:   mb.BaseSlot,
			DeviceName: mb.DeviceName,
		}, c)
		if err != nil {
			_ = closeAll()
			return nil, nil, err
		}
		sinks = append(sinks, sw)
	}

	if rd := m.Redis; rd != nil {
		key := rd.Key
		if key == "" {
			key = fmt.Sprintf("robot:%d", team)
		}
		p, err := wredis.New(wredis.Config{
			Addr:     rd.Addr,
			Password: rd.Password,
			DB:       rd.DB,
			Key:      key,
		})
		if err != nil {
			_ = closeAll()
			return nil, nil, err
		}
		closers = append(closers, p.Close)
		sinks = append(sinks, redisWriter{pub: p})
	}

	return sinks, closeAll, nil
}
