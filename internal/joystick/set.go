// internal/joystick/set.go
package joystick

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/tamzrod/driverstation/internal/protocol"
)

// Slots is the fixed slot count.
const Slots = protocol.JoystickSlots

var ErrSlotRange = errors.New("joystick: slot out of range")

type slot struct {
	guid string
	dev  Device
	out  protocol.JoystickOutput
}

func (s slot) empty() bool { return s.guid == "" && s.dev == nil }

// Set holds the six joystick slots.
//
// Slot order is the robot-visible numbering, so a device keeps its slot
// across reloads as long as its identity is remembered. The loop only ever
// try-locks; collaborators take the lock outright.
type Set struct {
	mu    sync.Mutex
	slots [Slots]slot
}

func NewSet() *Set {
	return &Set{}
}

// Load binds the attached devices to slots.
//
// A slot whose remembered identity matches an attached device gets that
// device. A remembered identity with no device keeps the slot reserved.
// Remaining devices fill empty slots in order. The returned identities are
// what the caller should persist.
func (s *Set) Load(guids [Slots]string, src Source) [Slots]string {
	devs := src.Devices()
	used := make([]bool, len(devs))

	var next [Slots]slot
	for i, g := range guids {
		next[i].guid = g
		if g == "" {
			continue
		}
		for j, d := range devs {
			if !used[j] && d.GUID() == g {
				next[i].dev = d
				used[j] = true
				break
			}
		}
	}

	for j, d := range devs {
		if used[j] {
			continue
		}
		for i := range next {
			if next[i].empty() {
				next[i] = slot{guid: d.GUID(), dev: d}
				used[j] = true
				break
			}
		}
	}

	s.mu.Lock()
	s.slots = next
	s.mu.Unlock()

	return s.GUIDs()
}

// GUIDs returns the identity remembered for each slot.
func (s *Set) GUIDs() [Slots]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out [Slots]string
	for i, sl := range s.slots {
		out[i] = sl.guid
	}
	return out
}

// Swap exchanges two slots.
func (s *Set) Swap(a, b int) error {
	if a < 0 || a >= Slots || b < 0 || b >= Slots {
		return fmt.Errorf("%w: swap %d,%d", ErrSlotRange, a, b)
	}
	s.mu.Lock()
	s.slots[a], s.slots[b] = s.slots[b], s.slots[a]
	s.mu.Unlock()
	return nil
}

// Present reports whether any slot has an attached device.
func (s *Set) Present() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sl := range s.slots {
		if sl.dev != nil {
			return true
		}
	}
	return false
}

// TryInputs snapshots every slot's input without blocking. ok is false when
// the set is busy; callers then skip joystick data for this cycle.
// Slots without a device yield the zero input.
func (s *Set) TryInputs() (in [Slots]protocol.JoystickInput, ok bool) {
	if !s.mu.TryLock() {
		return in, false
	}
	defer s.mu.Unlock()

	for i, sl := range s.slots {
		if sl.dev != nil {
			in[i] = sl.dev.State()
		}
	}
	return in, true
}

// TryApply pushes robot feedback to the attached devices without blocking.
// When enabled is false every device is driven to zero.
func (s *Set) TryApply(outs [Slots]protocol.JoystickOutput, enabled bool) bool {
	if !s.mu.TryLock() {
		return false
	}
	defer s.mu.Unlock()

	for i := range s.slots {
		sl := &s.slots[i]
		if sl.dev == nil {
			continue
		}
		var o protocol.JoystickOutput
		if enabled {
			o = outs[i]
		}
		sl.dev.SetOutputs(o.Outputs)
		sl.dev.SetRumble(o.RumbleLeft, o.RumbleRight)
		sl.out = o
	}
	return true
}

// Info is a read-only view of one slot.
type Info struct {
	Slot    int                     `json:"slot"`
	GUID    string                  `json:"guid"`
	Name    string                  `json:"name"`
	Present bool                    `json:"present"`
	Input   protocol.JoystickInput  `json:"input"`
	Output  protocol.JoystickOutput `json:"output"`
}

// Infos returns every slot, empty ones included.
func (s *Set) Infos() []Info {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Info, 0, Slots)
	for i, sl := range s.slots {
		info := Info{Slot: i, GUID: sl.guid, Output: sl.out}
		if sl.dev != nil {
			info.Present = true
			info.Name = sl.dev.Name()
			info.Input = sl.dev.State()
		}
		out = append(out, info)
	}
	return out
}

// String renders the slot for debug output.
func (i Info) String() string {
	if !i.Present {
		if i.GUID == "" {
			return fmt.Sprintf("%d: <empty>", i.Slot)
		}
		return fmt.Sprintf("%d: <missing %s>", i.Slot, i.GUID)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d: %s [%s]\n", i.Slot, i.Name, i.GUID)

	b.WriteString("  axes:")
	for _, a := range i.Input.Axes {
		fmt.Fprintf(&b, " %d", a)
	}
	b.WriteString("\n  buttons:")
	for _, p := range i.Input.Buttons {
		if p {
			b.WriteString(" 1")
		} else {
			b.WriteString(" 0")
		}
	}
	b.WriteString("\n  hats:")
	for _, h := range i.Input.Hats {
		fmt.Fprintf(&b, " %d", h)
	}
	fmt.Fprintf(&b, "\n  outputs: %#08x rumble: %d/%d",
		i.Output.Outputs, i.Output.RumbleLeft, i.Output.RumbleRight)
	return b.String()
}
