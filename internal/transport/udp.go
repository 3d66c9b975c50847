// internal/transport/udp.go
package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tamzrod/driverstation/internal/clock"
	"github.com/tamzrod/driverstation/internal/protocol"
)

// MaxDatagram is the receive buffer size. Status packets never come close.
const MaxDatagram = 2048

// ErrClosed is returned after Close.
var ErrClosed = errors.New("transport: closed")

// Logger is the logging surface of the transport.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
}

type Config struct {
	RemoteHost string
	RemotePort int // default protocol.RobotPort
	LocalAddr  string
	LocalPort  int // default protocol.StationPort; -1 picks any free port

	ResolveRetry time.Duration // default 1s
	BindRetry    time.Duration // default 1s
	ReadWait     time.Duration // default 1ms

	Clock  clock.Clock
	Logger Logger
}

// UDP is the station side of the robot link: one socket bound to the
// local status port and one connected to the robot command port.
//
// Receive and Send are called from the session loop only. Neither blocks
// for longer than ReadWait.
type UDP struct {
	cfg Config
	log Logger

	out atomic.Pointer[net.UDPConn]

	mu       sync.Mutex
	in       *net.UDPConn
	lastBind time.Time
	buf      []byte

	closed atomic.Bool
	cancel context.CancelFunc
	done   chan struct{}
}

// New starts resolving the remote host in the background and returns
// immediately. Send is a no-op until resolution succeeds.
func New(ctx context.Context, cfg Config) (*UDP, error) {
	if cfg.RemoteHost == "" {
		return nil, errors.New("transport: remote host required")
	}
	if cfg.RemotePort == 0 {
		cfg.RemotePort = protocol.RobotPort
	}
	if cfg.LocalPort == 0 {
		cfg.LocalPort = protocol.StationPort
	}
	if cfg.LocalPort < 0 {
		cfg.LocalPort = 0
	}
	if cfg.ResolveRetry <= 0 {
		cfg.ResolveRetry = time.Second
	}
	if cfg.BindRetry <= 0 {
		cfg.BindRetry = time.Second
	}
	if cfg.ReadWait <= 0 {
		cfg.ReadWait = time.Millisecond
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.Real{}
	}

	u := &UDP{
		cfg:  cfg,
		log:  cfg.Logger,
		buf:  make([]byte, MaxDatagram),
		done: make(chan struct{}),
	}
	if u.log == nil {
		u.log = nopLogger{}
	}

	ctx, u.cancel = context.WithCancel(ctx)
	go u.resolve(ctx)

	u.mu.Lock()
	u.bindLocked(cfg.Clock.Now())
	u.mu.Unlock()

	return u, nil
}

// ------------------------------------------------------------
// outbound
// ------------------------------------------------------------

func (u *UDP) resolve(ctx context.Context) {
	defer close(u.done)

	target := net.JoinHostPort(u.cfg.RemoteHost, strconv.Itoa(u.cfg.RemotePort))
	var resolver net.Resolver

	for attempt := 1; ; attempt++ {
		conn, err := u.dial(ctx, &resolver, target)
		if err == nil {
			u.out.Store(conn)
			u.log.Info("transport: robot at %s", conn.RemoteAddr())
			return
		}
		if attempt == 1 {
			u.log.Warn("transport: resolve %s: %v (retrying)", target, err)
		}

		t := time.NewTimer(u.cfg.ResolveRetry)
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
		}
	}
}

func (u *UDP) dial(ctx context.Context, r *net.Resolver, target string) (*net.UDPConn, error) {
	host, port, err := net.SplitHostPort(target)
	if err != nil {
		return nil, err
	}
	ips, err := r.LookupIPAddr(ctx, host)
	if err != nil {
		return nil, err
	}
	p, _ := strconv.Atoi(port)

	for _, ip := range ips {
		if ip.IP.To4() == nil {
			continue
		}
		return net.DialUDP("udp4", nil, &net.UDPAddr{IP: ip.IP, Port: p})
	}
	return nil, fmt.Errorf("no IPv4 address for %s", host)
}

// Send writes one datagram to the robot. It is a no-op while the robot
// address is still unresolved.
func (u *UDP) Send(p []byte) error {
	if u.closed.Load() {
		return ErrClosed
	}
	conn := u.out.Load()
	if conn == nil {
		return nil
	}
	_, err := conn.Write(p)
	return err
}

// Ready reports whether the robot address has been resolved.
func (u *UDP) Ready() bool { return u.out.Load() != nil }

// ------------------------------------------------------------
// inbound
// ------------------------------------------------------------

// bindLocked opens the status socket, at most once per BindRetry.
func (u *UDP) bindLocked(now time.Time) {
	if u.in != nil {
		return
	}
	if !u.lastBind.IsZero() && now.Sub(u.lastBind) < u.cfg.BindRetry {
		return
	}
	u.lastBind = now

	addr := &net.UDPAddr{IP: net.ParseIP(u.cfg.LocalAddr), Port: u.cfg.LocalPort}
	conn, err := net.ListenUDP("udp4", addr)
	if err != nil {
		u.log.Warn("transport: bind %s: %v", addr, err)
		return
	}
	u.in = conn
	u.log.Info("transport: listening on %s", conn.LocalAddr())
}

// Receive returns one pending datagram, or nil, nil if none arrives within
// ReadWait. Empty datagrams are dropped. The returned slice is a copy.
func (u *UDP) Receive() ([]byte, error) {
	if u.closed.Load() {
		return nil, ErrClosed
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	u.bindLocked(u.cfg.Clock.Now())
	if u.in == nil {
		return nil, nil
	}

	if err := u.in.SetReadDeadline(time.Now().Add(u.cfg.ReadWait)); err != nil {
		return nil, err
	}
	n, _, err := u.in.ReadFromUDP(u.buf)
	if err != nil {
		if errors.Is(err, os.ErrDeadlineExceeded) {
			return nil, nil
		}
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}

	out := make([]byte, n)
	copy(out, u.buf[:n])
	return out, nil
}

// LocalAddr is the bound status address, nil before the first bind.
func (u *UDP) LocalAddr() *net.UDPAddr {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.in == nil {
		return nil
	}
	return u.in.LocalAddr().(*net.UDPAddr)
}

// Close stops resolution and releases both sockets.
func (u *UDP) Close() error {
	if !u.closed.CompareAndSwap(false, true) {
		return nil
	}
	u.cancel()
	<-u.done

	var errs []error
	if conn := u.out.Swap(nil); conn != nil {
		errs = append(errs, conn.Close())
	}

	u.mu.Lock()
	if u.in != nil {
		errs = append(errs, u.in.Close())
		u.in = nil
	}
	u.mu.Unlock()

	return errors.Join(errs...)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{}) {}
