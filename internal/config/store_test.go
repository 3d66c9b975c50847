// internal/config/store_test.go
package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tamzrod/driverstation/internal/protocol"
)

func TestStoreSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ds.yaml")

	s := NewStore(Default(), path)
	s.SetTeam(1234)
	s.SetAlliance(protocol.AllianceBlue)
	s.SetPosition(3)
	s.SetJoystickGUIDs([protocol.JoystickSlots]string{"g0", "", "g2"})
	s.SetJoystickName("g0", "Gamepad F310")

	if err := s.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("saved config does not validate: %v", err)
	}
	Normalize(cfg)

	got := NewStore(cfg, path)
	if got.Team() != 1234 || got.Alliance() != protocol.AllianceBlue || got.Position() != 3 {
		t.Fatalf("station mismatch: %+v", cfg.Station)
	}

	want := [protocol.JoystickSlots]string{"g0", "", "g2"}
	if diff := cmp.Diff(want, got.JoystickGUIDs()); diff != "" {
		t.Fatalf("guids mismatch (-want +got):\n%s", diff)
	}
	if got.JoystickName("g0") != "Gamepad F310" {
		t.Fatalf("name lost: %q", got.JoystickName("g0"))
	}
}

func TestStoreWithoutPath(t *testing.T) {
	s := NewStore(nil, "")
	if err := s.Save(); !errors.Is(err, ErrNoPath) {
		t.Fatalf("expected ErrNoPath, got %v", err)
	}
	if s.Alliance() != protocol.AllianceRed || s.Position() != 1 {
		t.Fatalf("defaults not applied")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	s := NewStore(Default(), "")
	snap := s.Snapshot()
	snap.Station.Joysticks[0] = "mutated"

	if s.JoystickGUIDs()[0] != "" {
		t.Fatalf("snapshot aliases store")
	}
}
