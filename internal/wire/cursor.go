// internal/wire/cursor.go
package wire

import (
	"fmt"
	"math"
)

// Order selects the byte order of a multi-byte field.
// Default resolves to the cursor's configured order.
type Order uint8

const (
	Default Order = iota
	Little
	Big
)

func (o Order) String() string {
	switch o {
	case Little:
		return "little"
	case Big:
		return "big"
	default:
		return "default"
	}
}

// Width is the encoded size of a length prefix.
type Width uint8

const (
	Width8  Width = 1
	Width16 Width = 2
	Width32 Width = 4
	Width64 Width = 8
)

// Cursor is a growable byte buffer with a single read/write position.
//
// Writes at the end append. Writes in the middle overwrite. Reads that
// would run past the end fail without moving the position and set the
// overrun flag, which stays set until ClearOverrun.
type Cursor struct {
	buf     []byte
	pos     int
	order   Order
	overran bool
}

// New returns an empty cursor with little-endian default order.
func New() *Cursor {
	return &Cursor{order: Little}
}

// NewSize returns an empty cursor with capacity reserved for n bytes.
func NewSize(n int) *Cursor {
	if n < 0 {
		n = 0
	}
	return &Cursor{buf: make([]byte, 0, n), order: Little}
}

// From returns a cursor positioned at the start of a copy of b.
func From(b []byte) *Cursor {
	buf := make([]byte, len(b))
	copy(buf, b)
	return &Cursor{buf: buf, order: Little}
}

// ---- position ----

func (c *Cursor) Len() int       { return len(c.buf) }
func (c *Cursor) Tell() int      { return c.pos }
func (c *Cursor) BytesLeft() int { return len(c.buf) - c.pos }

// Seek moves the position to an absolute offset. Offsets past the end are
// clamped to the end.
func (c *Cursor) Seek(off int) {
	switch {
	case off < 0:
		c.pos = 0
	case off > len(c.buf):
		c.pos = len(c.buf)
	default:
		c.pos = off
	}
}

// Skip advances the position by n bytes. Skipping past the end clamps the
// position to the end, sets the overrun flag and reports false.
func (c *Cursor) Skip(n int) bool {
	switch {
	case n < 0:
		c.overran = true
		return false
	case n > c.BytesLeft():
		c.pos = len(c.buf)
		c.overran = true
		return false
	}
	c.pos += n
	return true
}

// Bytes returns the whole buffer. The slice aliases the cursor.
func (c *Cursor) Bytes() []byte { return c.buf }

// ---- flags ----

func (c *Cursor) SetOrder(o Order) {
	if o == Default {
		o = Little
	}
	c.order = o
}

func (c *Cursor) Order() Order { return c.order }

func (c *Cursor) Overran() bool { return c.overran }

func (c *Cursor) ClearOverrun() { c.overran = false }

func (c *Cursor) resolve(o Order) Order {
	if o == Default {
		return c.order
	}
	return o
}

// ---- writes ----

// reserve makes room for n bytes at the current position and returns the
// window to fill.
func (c *Cursor) reserve(n int) []byte {
	if end := c.pos + n; end > len(c.buf) {
		c.buf = append(c.buf, make([]byte, end-len(c.buf))...)
	}
	w := c.buf[c.pos : c.pos+n]
	c.pos += n
	return w
}

// putUint stores the low size bytes of v one byte at a time.
func (c *Cursor) putUint(v uint64, size int, o Order) {
	w := c.reserve(size)
	big := c.resolve(o) == Big
	for i := 0; i < size; i++ {
		b := byte(v >> (8 * uint(i)))
		if big {
			w[size-1-i] = b
		} else {
			w[i] = b
		}
	}
}

func (c *Cursor) WriteUint8(v uint8)            { c.putUint(uint64(v), 1, Default) }
func (c *Cursor) WriteInt8(v int8)              { c.putUint(uint64(uint8(v)), 1, Default) }
func (c *Cursor) WriteUint16(v uint16, o Order) { c.putUint(uint64(v), 2, o) }
func (c *Cursor) WriteInt16(v int16, o Order)   { c.putUint(uint64(uint16(v)), 2, o) }
func (c *Cursor) WriteUint32(v uint32, o Order) { c.putUint(uint64(v), 4, o) }
func (c *Cursor) WriteInt32(v int32, o Order)   { c.putUint(uint64(uint32(v)), 4, o) }
func (c *Cursor) WriteUint64(v uint64, o Order) { c.putUint(v, 8, o) }
func (c *Cursor) WriteInt64(v int64, o Order)   { c.putUint(uint64(v), 8, o) }

func (c *Cursor) WriteFloat32(v float32, o Order) {
	c.putUint(uint64(math.Float32bits(v)), 4, o)
}

func (c *Cursor) WriteFloat64(v float64, o Order) {
	c.putUint(math.Float64bits(v), 8, o)
}

// WriteBytes writes raw bytes with no prefix.
func (c *Cursor) WriteBytes(b []byte) {
	copy(c.reserve(len(b)), b)
}

// WritePrefixed writes b preceded by its length encoded in w bytes.
func (c *Cursor) WritePrefixed(b []byte, w Width, o Order) error {
	if limit := maxForWidth(w); uint64(len(b)) > limit {
		return fmt.Errorf("wire: %d bytes do not fit a %d-byte length prefix", len(b), w)
	}
	c.putUint(uint64(len(b)), int(w), o)
	c.WriteBytes(b)
	return nil
}

func maxForWidth(w Width) uint64 {
	if w >= Width64 {
		return math.MaxUint64
	}
	return 1<<(8*uint(w)) - 1
}

// ---- reads ----

// getUint reads size bytes. It fails without moving when short.
func (c *Cursor) getUint(size int, o Order) (uint64, bool) {
	if size > c.BytesLeft() {
		c.overran = true
		return 0, false
	}
	r := c.buf[c.pos : c.pos+size]
	big := c.resolve(o) == Big
	var v uint64
	for i := 0; i < size; i++ {
		var b byte
		if big {
			b = r[size-1-i]
		} else {
			b = r[i]
		}
		v |= uint64(b) << (8 * uint(i))
	}
	c.pos += size
	return v, true
}

// Read methods store into dst only on success. A failed read leaves dst
// and the position untouched and sets the overrun flag.

func (c *Cursor) ReadUint8(dst *uint8) bool {
	v, ok := c.getUint(1, Default)
	if ok {
		*dst = uint8(v)
	}
	return ok
}

func (c *Cursor) ReadInt8(dst *int8) bool {
	v, ok := c.getUint(1, Default)
	if ok {
		*dst = int8(uint8(v))
	}
	return ok
}

func (c *Cursor) ReadUint16(dst *uint16, o Order) bool {
	v, ok := c.getUint(2, o)
	if ok {
		*dst = uint16(v)
	}
	return ok
}

func (c *Cursor) ReadInt16(dst *int16, o Order) bool {
	v, ok := c.getUint(2, o)
	if ok {
		*dst = int16(uint16(v))
	}
	return ok
}

func (c *Cursor) ReadUint32(dst *uint32, o Order) bool {
	v, ok := c.getUint(4, o)
	if ok {
		*dst = uint32(v)
	}
	return ok
}

func (c *Cursor) ReadInt32(dst *int32, o Order) bool {
	v, ok := c.getUint(4, o)
	if ok {
		*dst = int32(uint32(v))
	}
	return ok
}

func (c *Cursor) ReadUint64(dst *uint64, o Order) bool {
	v, ok := c.getUint(8, o)
	if ok {
		*dst = v
	}
	return ok
}

func (c *Cursor) ReadInt64(dst *int64, o Order) bool {
	v, ok := c.getUint(8, o)
	if ok {
		*dst = int64(v)
	}
	return ok
}

func (c *Cursor) ReadFloat32(dst *float32, o Order) bool {
	v, ok := c.getUint(4, o)
	if ok {
		*dst = math.Float32frombits(uint32(v))
	}
	return ok
}

func (c *Cursor) ReadFloat64(dst *float64, o Order) bool {
	v, ok := c.getUint(8, o)
	if ok {
		*dst = math.Float64frombits(v)
	}
	return ok
}

// Uint8 reads one byte, returning 0 on overrun.
func (c *Cursor) Uint8() uint8 {
	var v uint8
	c.ReadUint8(&v)
	return v
}

// ReadBytes returns a copy of the next n bytes.
func (c *Cursor) ReadBytes(n int) ([]byte, bool) {
	if n < 0 || n > c.BytesLeft() {
		c.overran = true
		return nil, false
	}
	out := make([]byte, n)
	copy(out, c.buf[c.pos:c.pos+n])
	c.pos += n
	return out, true
}

// ReadPrefixed reads a length prefix of width w followed by that many bytes.
// If the payload is short the position is restored to before the prefix.
func (c *Cursor) ReadPrefixed(w Width, o Order) ([]byte, bool) {
	start := c.pos
	n, ok := c.getUint(int(w), o)
	if !ok {
		return nil, false
	}
	if n > uint64(c.BytesLeft()) {
		c.pos = start
		c.overran = true
		return nil, false
	}
	return c.ReadBytes(int(n))
}
