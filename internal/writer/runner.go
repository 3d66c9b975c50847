// internal/writer/runner.go
package writer

import (
	"context"
	"time"

	"github.com/tamzrod/driverstation/internal/clock"
	"github.com/tamzrod/driverstation/internal/metrics"
	"github.com/tamzrod/driverstation/internal/probe"
	"github.com/tamzrod/driverstation/internal/status"
)

// Source is the session the mirror samples.
type Source interface {
	Telemetry() status.Snapshot
	SessionID() string
	Versions() probe.Versions
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
}

// Runner samples the session on a fixed interval and fans each frame out
// to every sink. Sink errors never stop the loop.
type Runner struct {
	interval time.Duration
	src      Source
	sinks    []Writer
	clock    clock.Clock
	log      Logger
	metrics  *metrics.Metrics

	failing map[string]bool
}

func NewRunner(interval time.Duration, src Source, sinks []Writer, clk clock.Clock, log Logger, m *metrics.Metrics) *Runner {
	if interval <= 0 {
		interval = time.Second
	}
	if clk == nil {
		clk = clock.Real{}
	}
	return &Runner{
		interval: interval,
		src:      src,
		sinks:    sinks,
		clock:    clk,
		log:      log,
		metrics:  m,
		failing:  make(map[string]bool),
	}
}

// Run starts the ticker loop. One goroutine. No overlap. No retries.
func (r *Runner) Run(ctx context.Context) {
	if len(r.sinks) == 0 {
		return
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Once()
		}
	}
}

// Once samples the source and writes one frame to every sink.
func (r *Runner) Once() {
	f := Frame{
		At:        r.clock.Now(),
		Status:    r.src.Telemetry(),
		SessionID: r.src.SessionID(),
		Versions:  r.src.Versions(),
	}

	for _, w := range r.sinks {
		err := w.Write(f)
		r.metrics.MirrorWrite(w.Name(), err)

		// log transitions only
		name := w.Name()
		switch {
		case err != nil && !r.failing[name]:
			r.failing[name] = true
			if r.log != nil {
				r.log.Warn("mirror: %s: %v", name, err)
			}
		case err == nil && r.failing[name]:
			r.failing[name] = false
			if r.log != nil {
				r.log.Info("mirror: %s recovered", name)
			}
		}
	}
}
