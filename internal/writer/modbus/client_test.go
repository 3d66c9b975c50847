// internal/writer/modbus/client_test.go
package modbus

import (
	"bytes"
	"testing"
	"time"
)

func TestPackRegistersBigEndian(t *testing.T) {
	got := PackRegisters([]uint16{0x0102, 0xA0B0})
	want := []byte{0x01, 0x02, 0xA0, 0xB0}
	if !bytes.Equal(got, want) {
		t.Fatalf("got % x want % x", got, want)
	}
}

func TestNewEndpointClientRequiresEndpoint(t *testing.T) {
	if _, err := NewEndpointClient(Config{}); err == nil {
		t.Fatalf("expected error for empty endpoint")
	}
}

func TestWriteRegistersUnreachable(t *testing.T) {
	c, err := NewEndpointClient(Config{Endpoint: "127.0.0.1:1", Timeout: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("construct: %v", err)
	}
	defer c.Close()

	if err := c.WriteRegisters(1, 0, []uint16{1}); err == nil {
		t.Fatalf("expected error writing to closed port")
	}
}
