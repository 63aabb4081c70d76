package gt

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// cursor is the single sequential read position over a decompressed buffer.
// It is owned by one parse; after a failed read the parse is abandoned.
type cursor struct {
	buf []byte
	pos int
}

func newCursor(b []byte) *cursor {
	return &cursor{buf: b}
}

func (c *cursor) remaining() int { return len(c.buf) - c.pos }

// fits reports whether count items of size bytes each can still be read.
func (c *cursor) fits(count uint64, size int) bool {
	if size == 0 {
		return true
	}
	return count <= uint64(c.remaining())/uint64(size)
}

func (c *cursor) short(n uint64) error {
	return fmt.Errorf("need %d bytes at offset %d, %d remain", n, c.pos, c.remaining())
}

func (c *cursor) take(n uint64) ([]byte, error) {
	if n > uint64(c.remaining()) {
		return nil, c.short(n)
	}
	b := c.buf[c.pos : c.pos+int(n)]
	c.pos += int(n)
	return b, nil
}

func (c *cursor) u8() (uint8, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *cursor) u16() (uint16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (c *cursor) u32() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *cursor) u64() (uint64, error) {
	b, err := c.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// uint reads a little-endian unsigned integer of the given width,
// zero-extended to 64 bits.
func (c *cursor) uint(width int) (uint64, error) {
	switch width {
	case 1:
		v, err := c.u8()
		return uint64(v), err
	case 2:
		v, err := c.u16()
		return uint64(v), err
	case 4:
		v, err := c.u32()
		return uint64(v), err
	case 8:
		return c.u64()
	}
	return 0, fmt.Errorf("unsupported integer width %d", width)
}

// text reads a u64 length prefix and that many bytes as lossy UTF-8.
// The returned string never aliases the input buffer.
func (c *cursor) text() (string, error) {
	n, err := c.u64()
	if err != nil {
		return "", err
	}
	b, err := c.take(n)
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(b), "\uFFFD"), nil
}

// blob reads a u64 length prefix and a copy of that many raw bytes.
func (c *cursor) blob() ([]byte, error) {
	n, err := c.u64()
	if err != nil {
		return nil, err
	}
	b, err := c.take(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

// Element readers used by the property decoder.

func readBool(c *cursor) (bool, error) {
	b, err := c.u8()
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, fmt.Errorf("invalid bool byte %#02x at offset %d", b, c.pos-1)
}

func readInt16(c *cursor) (int16, error) {
	v, err := c.u16()
	return int16(v), err
}

func readInt32(c *cursor) (int32, error) {
	v, err := c.u32()
	return int32(v), err
}

func readInt64(c *cursor) (int64, error) {
	v, err := c.u64()
	return int64(v), err
}

func readDouble(c *cursor) (float64, error) {
	v, err := c.u64()
	return math.Float64frombits(v), err
}

// readLongDouble reads 16 little-endian bytes as an unsigned 128-bit value
// and widens it to float64. Precision beyond 64 bits is dropped.
func readLongDouble(c *cursor) (float64, error) {
	b, err := c.take(16)
	if err != nil {
		return 0, err
	}
	lo := binary.LittleEndian.Uint64(b[:8])
	hi := binary.LittleEndian.Uint64(b[8:])
	return math.Ldexp(float64(hi), 64) + float64(lo), nil
}

func readString(c *cursor) (string, error) { return c.text() }

func readBlob(c *cursor) ([]byte, error) { return c.blob() }

// readSeq reads n elements with read. minSize is the smallest encoded size
// of one element and bounds n against the remaining input before anything
// is allocated.
func readSeq[T any](c *cursor, n uint64, minSize int, read func(*cursor) (T, error)) ([]T, error) {
	if !c.fits(n, minSize) {
		return nil, fmt.Errorf("%d elements of at least %d bytes at offset %d, %d bytes remain",
			n, minSize, c.pos, c.remaining())
	}
	out := make([]T, n)
	for i := range out {
		v, err := read(c)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// vectorOf lifts a scalar reader into a reader of a u64-count-prefixed vector.
func vectorOf[T any](elemSize int, read func(*cursor) (T, error)) func(*cursor) ([]T, error) {
	return func(c *cursor) ([]T, error) {
		n, err := c.u64()
		if err != nil {
			return nil, err
		}
		return readSeq(c, n, elemSize, read)
	}
}
