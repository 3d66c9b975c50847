// internal/logging/logger_test.go
package logging

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(log.New(&buf, "", 0), LevelWarn)

	l.Debug("d")
	l.Info("i")
	l.Warn("w %d", 1)
	l.Error("e")

	out := buf.String()
	if strings.Contains(out, "[DEBUG]") || strings.Contains(out, "[INFO]") {
		t.Fatalf("filtered levels leaked: %q", out)
	}
	if !strings.Contains(out, "[WARN] w 1") || !strings.Contains(out, "[ERROR] e") {
		t.Fatalf("missing output: %q", out)
	}
}

func TestDebugPacket(t *testing.T) {
	var buf bytes.Buffer
	l := New(log.New(&buf, "", 0), LevelDebug)

	l.DebugPacket("In", []byte{0x00, 0x05, 0xab})

	if got := strings.TrimSpace(buf.String()); got != "[DEBUG] In : 00 05 ab" {
		t.Fatalf("unexpected dump: %q", got)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{"": LevelInfo, "DEBUG": LevelDebug, "warning": LevelWarn, "off": LevelNone}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error")
	}
}
