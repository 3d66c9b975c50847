// internal/httpapi/server.go
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tamzrod/driverstation/internal/joystick"
	"github.com/tamzrod/driverstation/internal/probe"
	"github.com/tamzrod/driverstation/internal/protocol"
	"github.com/tamzrod/driverstation/internal/session"
)

// Controller is the session surface exposed to operators.
type Controller interface {
	View() session.View
	Versions() probe.Versions
	Joysticks() []joystick.Info

	SetEnable(on bool)
	ToggleEnable() bool
	EStop()
	Reboot()
	RestartCode()
	SetMode(m protocol.Mode)
	SetAlliance(a protocol.Alliance)
	SetPosition(p int) error

	LoadJoysticks()
	SwapJoysticks(a, b int) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
}

// PushInterval is how often /ws clients receive the session view.
const PushInterval = 100 * time.Millisecond

const writeTimeout = time.Second

// Server is the operator control API. It is the collaborator that calls
// the session setters; it never touches the link.
type Server struct {
	ctrl     Controller
	gatherer prometheus.Gatherer
	log      Logger
	upgrader websocket.Upgrader
	router   chi.Router
}

func New(ctrl Controller, gatherer prometheus.Gatherer, log Logger) *Server {
	s := &Server{
		ctrl:     ctrl,
		gatherer: gatherer,
		log:      log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/status", s.getStatus)
	r.Get("/versions", s.getVersions)
	r.Get("/joysticks", s.getJoysticks)
	r.Get("/ws", s.stream)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Post("/enable", s.intent(func() { s.ctrl.SetEnable(true) }))
	r.Post("/disable", s.intent(func() { s.ctrl.SetEnable(false) }))
	r.Post("/toggle", s.intent(func() { s.ctrl.ToggleEnable() }))
	r.Post("/estop", s.intent(s.ctrl.EStop))
	r.Post("/reboot", s.intent(s.ctrl.Reboot))
	r.Post("/restart-code", s.intent(s.ctrl.RestartCode))
	r.Post("/mode/{mode}", s.setMode)
	r.Post("/alliance/{alliance}", s.setAlliance)
	r.Post("/position/{n}", s.setPosition)
	r.Post("/joysticks/reload", s.intent(s.ctrl.LoadJoysticks))
	r.Post("/joysticks/swap", s.swapJoysticks)

	return r
}

func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	if s.log != nil {
		s.log.Info("httpapi: listening on %s", addr)
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ------------------------------------------------------------
// reads
// ------------------------------------------------------------

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ctrl.View())
}

func (s *Server) getVersions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ctrl.Versions())
}

func (s *Server) getJoysticks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ctrl.Joysticks())
}

// stream pushes the session view until the client goes away.
func (s *Server) stream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(PushInterval)
	defer ticker.Stop()

	for {
		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(s.ctrl.View()); err != nil {
			return
		}

		select {
		case <-gone:
			return
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}

// ------------------------------------------------------------
// writes
// ------------------------------------------------------------

func (s *Server) intent(fn func()) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fn()
		writeJSON(w, http.StatusOK, s.ctrl.View())
	}
}

func (s *Server) setMode(w http.ResponseWriter, r *http.Request) {
	m, err := protocol.ParseMode(chi.URLParam(r, "mode"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.ctrl.SetMode(m)
	writeJSON(w, http.StatusOK, s.ctrl.View())
}

func (s *Server) setAlliance(w http.ResponseWriter, r *http.Request) {
	a, err := protocol.ParseAlliance(chi.URLParam(r, "alliance"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.ctrl.SetAlliance(a)
	writeJSON(w, http.StatusOK, s.ctrl.View())
}

func (s *Server) setPosition(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.ctrl.SetPosition(n); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, s.ctrl.View())
}

func (s *Server) swapJoysticks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	a, errA := strconv.Atoi(q.Get("a"))
	b, errB := strconv.Atoi(q.Get("b"))
	if err := errors.Join(errA, errB); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := s.ctrl.SwapJoysticks(a, b); err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, joystick.ErrSlotRange) {
			code = http.StatusBadRequest
		}
		writeError(w, code, err)
		return
	}
	writeJSON(w, http.StatusOK, s.ctrl.Joysticks())
}

// ------------------------------------------------------------
// helpers
// ------------------------------------------------------------

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
