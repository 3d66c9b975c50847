// internal/status/encode.go
package status

// Encode converts a Snapshot into the live part of a status block.
// Reserved and device name slots are left zero.
// Layout is protocol-locked.
// No IO. No side effects.
func Encode(s Snapshot) []uint16 {
	regs := make([]uint16, SlotsPerDevice)

	regs[SlotHealthCode] = s.Health
	regs[SlotMode] = s.Mode
	regs[SlotFlags] = s.Flags
	regs[SlotBattery] = s.Battery
	regs[SlotSequence] = s.Sequence
	regs[SlotCPU0] = s.CPU[0]
	regs[SlotCPU1] = s.CPU[1]
	regs[SlotDiskHi] = uint16(s.Disk >> 16)
	regs[SlotDiskLo] = uint16(s.Disk)
	regs[SlotRAMHi] = uint16(s.RAM >> 16)
	regs[SlotRAMLo] = uint16(s.RAM)
	for i, v := range s.CAN {
		regs[SlotCANStart+i] = v
	}
	regs[SlotTeam] = s.Team
	regs[SlotStation] = s.Station

	return regs
}

// EncodeDeviceName packs up to 16 ASCII characters into 8 registers.
// Each register stores two bytes, high byte first. Non-printable bytes
// become '?'.
func EncodeDeviceName(name string) []uint16 {
	out := make([]uint16, SlotDeviceNameSlots)

	b := []byte(name)
	if len(b) > DeviceNameMaxChars {
		b = b[:DeviceNameMaxChars]
	}

	// sanitize to printable ASCII
	for i := 0; i < len(b); i++ {
		if b[i] < 0x20 || b[i] > 0x7E {
			b[i] = '?'
		}
	}

	for i := 0; i < DeviceNameMaxChars; i += 2 {
		var hi, lo byte
		if i < len(b) {
			hi = b[i]
		}
		if i+1 < len(b) {
			lo = b[i+1]
		}
		out[i/2] = uint16(hi)<<8 | uint16(lo)
	}

	return out
}

// FullBlock is Encode plus the device name.
func FullBlock(s Snapshot, nameRegs []uint16) []uint16 {
	regs := Encode(s)
	for i := 0; i < SlotDeviceNameSlots && i < len(nameRegs); i++ {
		regs[SlotDeviceNameStart+i] = nameRegs[i]
	}
	return regs
}
