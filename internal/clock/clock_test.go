// internal/clock/clock_test.go
package clock

import (
	"testing"
	"time"
)

func TestMockAdvanceAndSleep(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMock(start)

	m.Advance(time.Second)
	m.Sleep(15 * time.Millisecond)

	if got := m.Since(start); got != time.Second+15*time.Millisecond {
		t.Fatalf("since: %v", got)
	}
	if s := m.Sleeps(); len(s) != 1 || s[0] != 15*time.Millisecond {
		t.Fatalf("sleeps: %v", s)
	}
}

func TestRealIsMonotonic(t *testing.T) {
	var c Clock = Real{}
	a := c.Now()
	if c.Since(a) < 0 {
		t.Fatalf("negative elapsed time")
	}
}
