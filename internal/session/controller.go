// internal/session/controller.go
package session

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/tamzrod/driverstation/internal/clock"
	"github.com/tamzrod/driverstation/internal/joystick"
	"github.com/tamzrod/driverstation/internal/logging"
	"github.com/tamzrod/driverstation/internal/metrics"
	"github.com/tamzrod/driverstation/internal/probe"
	"github.com/tamzrod/driverstation/internal/protocol"
)

// Link is the datagram transport the loop drives.
// Receive must not block; it returns nil, nil when nothing is pending.
type Link interface {
	Receive() ([]byte, error)
	Send(p []byte) error
}

// Store is the persisted station settings.
type Store interface {
	Alliance() protocol.Alliance
	SetAlliance(a protocol.Alliance)
	Position() int
	SetPosition(p int)
	JoystickGUIDs() [protocol.JoystickSlots]string
	SetJoystickGUIDs(guids [protocol.JoystickSlots]string)
	SetJoystickName(guid, name string)
	Save() error
}

// Prober fetches controller versions. It must honour ctx.
type Prober interface {
	Probe(ctx context.Context) probe.Versions
}

// Logger is the logging surface the session uses.
type Logger interface {
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
	DebugPacket(direction string, data []byte)
}

// Config is the immutable timing and identity of one session.
// Zero durations take the protocol defaults.
type Config struct {
	Team          uint16
	SendInterval  time.Duration
	LoopInterval  time.Duration
	Liveness      time.Duration
	RequestWindow time.Duration
	ProbeInterval time.Duration
	ProbeTimeout  time.Duration
}

func (c *Config) applyDefaults() {
	def := func(d *time.Duration, v time.Duration) {
		if *d <= 0 {
			*d = v
		}
	}
	def(&c.SendInterval, protocol.SendInterval)
	def(&c.LoopInterval, protocol.LoopInterval)
	def(&c.Liveness, protocol.LivenessTimeout)
	def(&c.RequestWindow, protocol.RequestWindow)
	def(&c.ProbeInterval, protocol.ProbeInterval)
	def(&c.ProbeTimeout, protocol.ProbeTimeout)
}

// Deps are the collaborators of a session. Link and Store are required.
type Deps struct {
	Link    Link
	Store   Store
	Devices joystick.Source
	Prober  Prober
	Clock   clock.Clock
	Logger  Logger
	Metrics *metrics.Metrics
}

// Controller owns one robot session: the pacing loop, liveness, the
// joystick slots and the user-intent flags.
//
// Setters and accessors are safe to call from any goroutine while Run is
// active. Only Run (or Step) may drive the link.
type Controller struct {
	cfg     Config
	link    Link
	store   Store
	devices joystick.Source
	prober  Prober
	clock   clock.Clock
	log     Logger
	metrics *metrics.Metrics

	joysticks *joystick.Set
	robot     *Robot

	// user intent
	enabled      atomic.Bool
	estop        atomic.Bool
	mode         atomic.Uint32
	alliance     atomic.Uint32
	position     atomic.Int32
	rebootUntil  atomic.Int64
	restartUntil atomic.Int64

	// link state shared with accessors
	lastRecv  atomic.Int64
	sentTime  atomic.Bool
	sessionID atomic.Pointer[string]
	stopped   atomic.Bool

	// version probe
	probing   atomic.Bool
	lastProbe atomic.Int64
	versions  atomic.Pointer[probe.Versions]

	// loop-owned
	seq          uint16
	lastSend     time.Time
	wasConnected bool
}

// New creates a controller with immutable config.
func New(cfg Config, deps Deps) (*Controller, error) {
	if deps.Link == nil {
		return nil, errors.New("session: link required")
	}
	if deps.Store == nil {
		return nil, errors.New("session: store required")
	}
	cfg.applyDefaults()

	c := &Controller{
		cfg:       cfg,
		link:      deps.Link,
		store:     deps.Store,
		devices:   deps.Devices,
		prober:    deps.Prober,
		clock:     deps.Clock,
		log:       deps.Logger,
		metrics:   deps.Metrics,
		joysticks: joystick.NewSet(),
		robot:     newRobot(cfg.Liveness),
		seq:       1,
	}
	if c.devices == nil {
		c.devices = joystick.StaticSource{}
	}
	if c.clock == nil {
		c.clock = clock.Real{}
	}
	if c.log == nil {
		c.log = logging.Discard()
	}

	c.alliance.Store(uint32(deps.Store.Alliance()))
	c.position.Store(int32(deps.Store.Position()))
	c.versions.Store(&probe.Versions{})

	return c, nil
}

// Run drives the loop until ctx is done or Stop is called.
func (c *Controller) Run(ctx context.Context) error {
	c.log.Info("session: team %d loop started", c.cfg.Team)
	defer c.log.Info("session: team %d loop stopped", c.cfg.Team)

	for !c.stopped.Load() {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.Step()
		c.clock.Sleep(c.cfg.LoopInterval)
	}
	return nil
}

// Stop asks Run to return at the top of its next iteration.
func (c *Controller) Stop() {
	c.stopped.Store(true)
}

func (c *Controller) Team() uint16 { return c.cfg.Team }

// SessionID identifies the current connection. It changes on every
// transition to connected and is empty before the first one.
func (c *Controller) SessionID() string {
	if p := c.sessionID.Load(); p != nil {
		return *p
	}
	return ""
}

// Versions returns the cached controller versions.
func (c *Controller) Versions() probe.Versions {
	return *c.versions.Load()
}
