// internal/config/store.go
package config

import (
	"errors"
	"sync"

	"github.com/tamzrod/driverstation/internal/protocol"
)

// ErrNoPath is returned by Save when the store has nowhere to persist.
var ErrNoPath = errors.New("config: store has no file")

// Store is the live, persisted station settings. It is shared between the
// session loop and operator-facing collaborators.
type Store struct {
	mu   sync.Mutex
	cfg  *Config
	path string
}

// NewStore wraps a normalized config. An empty path disables Save.
func NewStore(cfg *Config, path string) *Store {
	if cfg == nil {
		cfg = Default()
	}
	return &Store{cfg: cfg, path: path}
}

func (s *Store) Path() string { return s.path }

// Snapshot returns a copy of the whole document.
func (s *Store) Snapshot() Config {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := *s.cfg
	c.Station.Joysticks = append([]string(nil), s.cfg.Station.Joysticks...)
	c.Station.JoystickNames = make(map[string]string, len(s.cfg.Station.JoystickNames))
	for k, v := range s.cfg.Station.JoystickNames {
		c.Station.JoystickNames[k] = v
	}
	return c
}

// ---- station ----

func (s *Store) Team() uint16 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Station.Team
}

func (s *Store) SetTeam(team uint16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Station.Team = team
}

// Alliance falls back to red for unparsable values.
func (s *Store) Alliance() protocol.Alliance {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, err := protocol.ParseAlliance(s.cfg.Station.Alliance)
	if err != nil {
		return protocol.AllianceRed
	}
	return a
}

func (s *Store) SetAlliance(a protocol.Alliance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Station.Alliance = a.String()
}

func (s *Store) Position() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p := s.cfg.Station.Position; p >= 1 && p <= 3 {
		return p
	}
	return 1
}

func (s *Store) SetPosition(p int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Station.Position = p
}

// ---- joysticks ----

func (s *Store) JoystickGUIDs() [protocol.JoystickSlots]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out [protocol.JoystickSlots]string
	copy(out[:], s.cfg.Station.Joysticks)
	return out
}

func (s *Store) SetJoystickGUIDs(guids [protocol.JoystickSlots]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Station.Joysticks = append(s.cfg.Station.Joysticks[:0], guids[:]...)
}

func (s *Store) JoystickName(guid string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Station.JoystickNames[guid]
}

func (s *Store) SetJoystickName(guid, name string) {
	if guid == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cfg.Station.JoystickNames == nil {
		s.cfg.Station.JoystickNames = make(map[string]string)
	}
	s.cfg.Station.JoystickNames[guid] = name
}

// ---- persistence ----

// Save writes the document back to its file.
func (s *Store) Save() error {
	if s.path == "" {
		return ErrNoPath
	}
	snap := s.Snapshot()
	return Save(s.path, &snap)
}
