// internal/status/snapshot.go
package status

// Snapshot represents exactly what the writers are allowed to deliver.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	Health   uint16
	Mode     uint16
	Flags    uint16
	Battery  uint16 // centivolts
	Sequence uint16
	CPU      [2]uint16 // hundredths of a percent
	Disk     uint32
	RAM      uint32
	CAN      [SlotCANSlots]uint16
	Team     uint16
	Station  uint16
}

// Has reports whether all bits in f are set.
func (s Snapshot) Has(f uint16) bool {
	return s.Flags&f == f
}
