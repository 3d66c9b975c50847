// internal/protocol/status_test.go
package protocol

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func header(seq uint16, word uint16, whole, frac byte) []byte {
	return []byte{
		byte(seq >> 8), byte(seq),
		0x01,
		byte(word), byte(word >> 8),
		whole, frac,
		0x00,
	}
}

func TestDecodeEnabledTeleOp(t *testing.T) {
	s, rep := Decode(RobotStatus{}, []byte{0x00, 0x05, 0x01, 0x04, 0x00, 0xC8, 0x32, 0x00})

	if !s.Enabled || s.Mode != ModeTeleOp {
		t.Fatalf("expected enabled teleop, got enabled=%v mode=%v", s.Enabled, s.Mode)
	}
	if s.Seq != 5 {
		t.Fatalf("expected seq 5, got %d", s.Seq)
	}
	if rep.Short || rep.Overrun {
		t.Fatalf("unexpected report: %+v", rep)
	}
}

func TestDecodeStatusWord(t *testing.T) {
	word := uint16(ModeAuto) | StatusEStop | StatusCodeRunning
	s, _ := Decode(RobotStatus{}, header(1, word, 12, 0))

	if s.Mode != ModeAuto || !s.EStop || !s.CodeRunning || s.Enabled || s.Brownout {
		t.Fatalf("unexpected flags: %+v", s)
	}
}

func TestBatteryVolts(t *testing.T) {
	s, _ := Decode(RobotStatus{}, header(1, 0, 12, 128))
	want := 12.0 + 128.0*99/255/100
	if math.Abs(s.Battery-want) > 1e-9 {
		t.Fatalf("battery: want %v got %v", want, s.Battery)
	}
	if math.Abs(s.Battery-12.497) > 0.001 {
		t.Fatalf("battery should be about 12.497, got %v", s.Battery)
	}
}

func TestDecodeHeaderOnlyZeroesOutputs(t *testing.T) {
	prev := RobotStatus{}
	prev.Outputs[2] = JoystickOutput{Outputs: 7, RumbleLeft: 100}

	s, _ := Decode(prev, header(1, 0, 12, 0))
	if s.Outputs != ([JoystickSlots]JoystickOutput{}) {
		t.Fatalf("outputs not cleared: %+v", s.Outputs)
	}
}

func TestDecodeShortKeepsPrevious(t *testing.T) {
	prev := RobotStatus{Seq: 9, Battery: 11.5, Enabled: true}

	s, rep := Decode(prev, []byte{0x00, 0x0A, 0x01})
	if !rep.Short {
		t.Fatalf("expected short report")
	}
	if s.Seq != 10 {
		t.Fatalf("seq should decode, got %d", s.Seq)
	}
	if s.Battery != 11.5 || !s.Enabled {
		t.Fatalf("unreadable fields should keep previous values: %+v", s)
	}
}

func TestDecodeJoystickOutputs(t *testing.T) {
	pkt := header(1, StatusEnabled, 12, 0)
	pkt = append(pkt,
		9, TagJoystickOutput, 0x00, 0x00, 0x00, 0x05, 0x01, 0x00, 0x00, 0x02,
		1, TagJoystickOutput,
		9, TagJoystickOutput, 0xFF, 0xFF, 0xFF, 0xFF, 0x00, 0x00, 0x00, 0x00,
	)

	prev := RobotStatus{}
	prev.Outputs[1] = JoystickOutput{Outputs: 3}

	s, rep := Decode(prev, pkt)

	want := [JoystickSlots]JoystickOutput{
		{Outputs: 5, RumbleLeft: 256, RumbleRight: 2},
		{},
		{Outputs: 0xFFFFFFFF},
	}
	if diff := cmp.Diff(want, s.Outputs); diff != "" {
		t.Fatalf("outputs mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]byte{1, 1, 1}, rep.Tags); diff != "" {
		t.Fatalf("tags mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeTelemetryTags(t *testing.T) {
	pkt := header(1, 0, 12, 0)
	// disk
	pkt = append(pkt, 8, TagDiskInfo, 0, 0, 0, 0x00, 0x01, 0x00, 0x00)
	// ram
	pkt = append(pkt, 8, TagRAMInfo, 0, 0, 0, 0x00, 0x00, 0x10, 0x00)
	// can
	pkt = append(pkt, 15, TagCANMetrics, 0, 0, 0, 0, 0, 0, 0, 0, 0, 42, 1, 2, 3, 4)
	// cpu: count + 2 x (f32 + 12 bytes)
	cpu := []byte{TagCPUInfo, 2}
	cpu = append(cpu, 0x42, 0x48, 0x00, 0x00) // 50.0
	cpu = append(cpu, make([]byte, 12)...)
	cpu = append(cpu, 0x41, 0x20, 0x00, 0x00) // 10.0
	cpu = append(cpu, make([]byte, 12)...)
	pkt = append(pkt, byte(len(cpu)))
	pkt = append(pkt, cpu...)

	s, rep := Decode(RobotStatus{}, pkt)
	if rep.Overrun || rep.Truncated || len(rep.Unknown) != 0 {
		t.Fatalf("unexpected report: %+v", rep)
	}

	if s.Disk != 0x00010000 || s.RAM != 0x1000 {
		t.Fatalf("disk/ram: %d %d", s.Disk, s.RAM)
	}
	if s.CAN != (CANMetrics{Utilization: 42, BusOff: 1, TxFull: 2, Receive: 3, Transmit: 4}) {
		t.Fatalf("can: %+v", s.CAN)
	}
	if s.CPUCount != 2 || s.CPU[0] != 50 || s.CPU[1] != 10 {
		t.Fatalf("cpu: %d %v", s.CPUCount, s.CPU)
	}
}

func TestDecodeSkipsUnknownTag(t *testing.T) {
	pkt := header(1, 0, 12, 0)
	pkt = append(pkt, 5, 0x99, 0xDE, 0xAD, 0xBE, 0xEF)
	pkt = append(pkt, 8, TagRAMInfo, 0, 0, 0, 0x00, 0x00, 0x00, 0x40)

	s, rep := Decode(RobotStatus{}, pkt)
	if s.RAM != 0x40 {
		t.Fatalf("tag after unknown tag not decoded, ram=%d", s.RAM)
	}
	if diff := cmp.Diff([]byte{0x99}, rep.Unknown); diff != "" {
		t.Fatalf("unknown mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeTruncatedTagStops(t *testing.T) {
	pkt := header(1, 0, 12, 0)
	pkt = append(pkt, 40, TagRAMInfo, 0, 0, 0, 0x00, 0x00, 0x00, 0x40)

	s, rep := Decode(RobotStatus{}, pkt)
	if !rep.Truncated {
		t.Fatalf("expected truncated report")
	}
	// the visible part of the block is still applied
	if s.RAM != 0x40 {
		t.Fatalf("ram: %d", s.RAM)
	}
}

func TestDecodeExtraOutputSlotsIgnored(t *testing.T) {
	pkt := header(1, 0, 12, 0)
	for i := 0; i < JoystickSlots+2; i++ {
		pkt = append(pkt, 9, TagJoystickOutput, 0, 0, 0, byte(i+1), 0, 0, 0, 0)
	}

	s, _ := Decode(RobotStatus{}, pkt)
	if s.Outputs[JoystickSlots-1].Outputs != JoystickSlots {
		t.Fatalf("last slot: %+v", s.Outputs[JoystickSlots-1])
	}
}
