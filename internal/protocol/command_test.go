// internal/protocol/command_test.go
package protocol

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/tamzrod/driverstation/internal/wire"
)

func TestControlByteRoundTrip(t *testing.T) {
	for _, mode := range []Mode{ModeTeleOp, ModeTest, ModeAuto} {
		for _, enabled := range []bool{false, true} {
			for _, estop := range []bool{false, true} {
				b := ControlByte(mode, enabled, estop)
				m, e, s := ParseControl(b)
				if m != mode || e != enabled || s != estop {
					t.Fatalf("round trip %v/%v/%v -> %#02x -> %v/%v/%v",
						mode, enabled, estop, b, m, e, s)
				}
			}
		}
	}
}

func TestControlByteBits(t *testing.T) {
	if got := ControlByte(ModeAuto, true, true); got != 0x86 {
		t.Fatalf("expected 0x86, got %#02x", got)
	}
	if got := RequestByte(true, true); got != 0x0C {
		t.Fatalf("expected 0x0C, got %#02x", got)
	}
}

func TestStationByte(t *testing.T) {
	cases := []struct {
		a    Alliance
		pos  int
		want byte
	}{
		{AllianceRed, 1, 0},
		{AllianceRed, 3, 2},
		{AllianceBlue, 1, 3},
		{AllianceBlue, 3, 5},
		{AllianceBlue, 9, 5},
	}
	for _, tc := range cases {
		if got := StationByte(tc.a, tc.pos); got != tc.want {
			t.Fatalf("%v/%d: want %d got %d", tc.a, tc.pos, tc.want, got)
		}
	}

	a, p := ParseStation(4)
	if a != AllianceBlue || p != 2 {
		t.Fatalf("parse station 4: %v %d", a, p)
	}
}

func TestWriteHeader(t *testing.T) {
	c := wire.New()
	WriteHeader(c, Command{
		Seq:      0x0102,
		Mode:     ModeTest,
		Enabled:  true,
		Reboot:   true,
		Alliance: AllianceBlue,
		Position: 2,
	})

	want := []byte{0x01, 0x02, CommVersion, 0x05, 0x08, 4}
	if diff := cmp.Diff(want, c.Bytes()); diff != "" {
		t.Fatalf("header mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteTimeSync(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)
	ts := time.Date(2024, time.March, 9, 7, 30, 15, 250*int(time.Millisecond), loc)

	c := wire.New()
	WriteTimeSync(c, ts)

	// 12:30:15.250 UTC
	want := []byte{
		11, TagDate,
		250, 0, 0, 0,
		15, 30, 12, 9, 2, 124,
		4, TagTimezone, 'E', 'S', 'T',
	}
	if diff := cmp.Diff(want, c.Bytes()); diff != "" {
		t.Fatalf("time sync mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteJoystick(t *testing.T) {
	c := wire.New()
	WriteJoystick(c, JoystickInput{
		Axes:    []int8{-128, 0, 127},
		Buttons: []bool{true, false, false, true},
		Hats:    []int16{90},
	})

	want := []byte{
		11, TagJoystick,
		3, 0x80, 0x00, 0x7F,
		4, 0x00, 0x09,
		1, 90, 0,
	}
	if diff := cmp.Diff(want, c.Bytes()); diff != "" {
		t.Fatalf("joystick mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteEmptyJoystick(t *testing.T) {
	c := wire.New()
	WriteJoystick(c, JoystickInput{})

	want := []byte{6, TagJoystick, 0, 0, 0, 0, 0}
	if diff := cmp.Diff(want, c.Bytes()); diff != "" {
		t.Fatalf("empty joystick mismatch (-want +got):\n%s", diff)
	}
}

func TestButtonMask(t *testing.T) {
	if got := ButtonMask([]bool{true, false, false}); got != 0x04 {
		t.Fatalf("button 0 should be the top used bit, got %#04x", got)
	}

	many := make([]bool, 20)
	many[0] = true
	if got := ButtonMask(many); got != 0x8000 {
		t.Fatalf("expected truncation to 16 buttons, got %#04x", got)
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"TeleOp": ModeTeleOp, "auto": ModeAuto, " test ": ModeTest} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseMode("practice"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}
