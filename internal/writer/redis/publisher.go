// internal/writer/redis/publisher.go
package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/tamzrod/driverstation/internal/status"
)

type Config struct {
	Addr     string
	Password string
	DB       int
	Key      string
	Timeout  time.Duration
}

// Sample is what the publisher mirrors: the register snapshot plus the
// string facts registers cannot carry.
type Sample struct {
	At        time.Time
	Status    status.Snapshot
	SessionID string
	Firmware  string
	Library   string
}

// Publisher mirrors samples into one Redis hash and announces each update
// on a channel of the same name.
type Publisher struct {
	client  *redis.Client
	key     string
	timeout time.Duration
}

func New(cfg Config) (*Publisher, error) {
	if cfg.Addr == "" {
		return nil, errors.New("writer redis: addr required")
	}
	if cfg.Key == "" {
		return nil, errors.New("writer redis: key required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Second
	}

	return &Publisher{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		key:     cfg.Key,
		timeout: cfg.Timeout,
	}, nil
}

func (p *Publisher) Key() string { return p.key }

func (p *Publisher) Close() error { return p.client.Close() }

// Publish writes one sample as a single pipeline.
func (p *Publisher) Publish(s Sample) error {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	pipe := p.client.Pipeline()
	pipe.HSet(ctx, p.key, HashFields(s))
	pipe.Publish(ctx, p.key, health(s.Status.Health))

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("writer redis: publish %s: %w", p.key, err)
	}
	return nil
}

// HashFields renders a sample as hash fields.
func HashFields(s Sample) map[string]interface{} {
	st := s.Status
	onOff := func(f uint16) string {
		return map[bool]string{true: "on", false: "off"}[st.Has(f)]
	}

	return map[string]interface{}{
		"updated":         s.At.UTC().Format(time.RFC3339Nano),
		"session":         s.SessionID,
		"health":          health(st.Health),
		"connected":       onOff(status.FlagConnected),
		"enabled":         onOff(status.FlagEnabled),
		"estop":           onOff(status.FlagEStop),
		"code":            onOff(status.FlagCodeRunning),
		"brownout":        onOff(status.FlagBrownout),
		"mode":            mode(st.Mode),
		"battery":         strconv.FormatFloat(float64(st.Battery)/100, 'f', 2, 64),
		"seq":             st.Sequence,
		"cpu:0":           strconv.FormatFloat(float64(st.CPU[0])/100, 'f', 2, 64),
		"cpu:1":           strconv.FormatFloat(float64(st.CPU[1])/100, 'f', 2, 64),
		"disk":            st.Disk,
		"ram":             st.RAM,
		"can:utilization": st.CAN[0],
		"can:bus-off":     st.CAN[1],
		"can:tx-full":     st.CAN[2],
		"can:receive":     st.CAN[3],
		"can:transmit":    st.CAN[4],
		"team":            st.Team,
		"station":         st.Station,
		"fw-version":      s.Firmware,
		"lib-version":     s.Library,
	}
}

func health(h uint16) string {
	switch h {
	case status.HealthOK:
		return "ok"
	case status.HealthStale:
		return "stale"
	case status.HealthDisabled:
		return "no-code"
	default:
		return "unknown"
	}
}

func mode(m uint16) string {
	switch m {
	case 0:
		return "teleop"
	case 1:
		return "test"
	case 2:
		return "auto"
	default:
		return "unknown"
	}
}
