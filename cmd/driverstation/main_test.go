// cmd/driverstation/main_test.go
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tamzrod/driverstation/internal/logging"
)

func TestResolveTeam(t *testing.T) {
	cases := []struct {
		name       string
		configured uint16
		args       []string
		want       uint16
		wantErr    bool
	}{
		{"from config", 1234, nil, 1234, false},
		{"argument overrides", 1234, []string{"254"}, 254, false},
		{"zero without argument", 0, nil, 0, true},
		{"zero argument", 1234, []string{"0"}, 0, true},
		{"not a number", 0, []string{"abc"}, 0, true},
		{"too large", 0, []string{"70000"}, 0, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := resolveTeam(tc.configured, tc.args)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got team %d", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("team: got %d want %d", got, tc.want)
			}
		})
	}
}

func TestSplitListen(t *testing.T) {
	host, port, err := splitListen(":1150")
	if err != nil || host != "" || port != 1150 {
		t.Fatalf("got %q %d %v", host, port, err)
	}

	_, port, err = splitListen("127.0.0.1:0")
	if err != nil || port != -1 {
		t.Fatalf("port 0 should mean any, got %d %v", port, err)
	}

	if _, _, err := splitListen("1150"); err == nil {
		t.Fatalf("expected error for missing host part")
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.yaml")

	cfg, storePath, err := loadConfig(path, logging.Discard())
	if err != nil {
		t.Fatalf("missing config must not fail: %v", err)
	}
	if storePath != "" {
		t.Fatalf("store path should be empty, got %q", storePath)
	}
	if cfg.Station.Position != 1 || len(cfg.Station.Joysticks) != 6 {
		t.Fatalf("defaults not applied: %+v", cfg.Station)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("driverstation:\n  position: 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := loadConfig(path, logging.Discard()); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestVersionFlag(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"-V"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if strings.TrimSpace(out.String()) != version {
		t.Fatalf("version output: %q", out.String())
	}
}

func TestTooManyArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"1", "2"})
	cmd.SetErr(&bytes.Buffer{})

	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected usage error")
	}
}
