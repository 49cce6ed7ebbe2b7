// Package slots tracks occupancy of small fixed-capacity tables.
package slots

import "math/bits"

// MaxCapacity is the largest table a Bitmap can track.
const MaxCapacity = 64

// Bitmap records which of the first Cap slots are in use. The zero value
// with Cap set is an empty table.
type Bitmap struct {
	Cap  int
	used uint64
}

func New(capacity int) Bitmap {
	if capacity <= 0 || capacity > MaxCapacity {
		panic("slots: capacity out of range")
	}

	return Bitmap{Cap: capacity}
}

// FirstFree returns the lowest unused slot.
func (b *Bitmap) FirstFree() (int, bool) {
	i := bits.TrailingZeros64(^b.used)
	if i >= b.Cap {
		return 0, false
	}

	return i, true
}

func (b *Bitmap) Set(i int) {
	b.used |= 1 << uint(i)
}

func (b *Bitmap) Clear(i int) {
	b.used &^= 1 << uint(i)
}

func (b *Bitmap) IsSet(i int) bool {
	if i < 0 || i >= b.Cap {
		return false
	}

	return b.used&(1<<uint(i)) != 0
}

func (b *Bitmap) Len() int {
	return bits.OnesCount64(b.used)
}

func (b *Bitmap) Full() bool {
	return b.Len() >= b.Cap
}
