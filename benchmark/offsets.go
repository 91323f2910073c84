package benchmark

import (
	"math/rand/v2"
)

// OffsetGenerator produces the offset of each operation. It keeps the
// sequential cursor unaligned so that small strides still advance, and
// only the returned offsets are aligned.
type OffsetGenerator struct {
	pattern   Pattern
	opSize    int64
	stride    int64
	capacity  int64
	alignment int64
	slots     int64
	cursor    int64
	started   bool
	rng       *rand.Rand
}

// NewOffsetGenerator builds a generator for cfg over the given capacity.
// capacity must be at least cfg.OpSize.
func NewOffsetGenerator(cfg Config, capacity int64, rng *rand.Rand) *OffsetGenerator {
	return &OffsetGenerator{
		pattern:   cfg.Pattern,
		opSize:    cfg.OpSize,
		stride:    cfg.Stride,
		capacity:  capacity,
		alignment: cfg.alignment(),
		slots:     (capacity-cfg.OpSize)/cfg.OpSize + 1,
		rng:       rng,
	}
}

// Next returns the next offset to issue.
func (g *OffsetGenerator) Next() int64 {
	var offset int64
	if g.pattern == Random {
		offset = g.rng.Int64N(g.slots) * g.opSize
	} else if g.started {
		g.cursor = g.advance()
		offset = g.cursor
	} else {
		g.started = true
	}
	return AlignDown(offset, g.alignment)
}

// advance moves the cursor forward by one operation plus the stride,
// wrapping modulo the capacity. The cursor always lies in
// [0, capacity-opSize], so no intermediate sum can overflow.
func (g *OffsetGenerator) advance() int64 {
	if g.stride <= g.capacity-g.opSize-g.cursor-g.opSize {
		return g.cursor + g.opSize + g.stride
	}
	next := addMod(g.cursor, g.opSize%g.capacity, g.capacity)
	next = addMod(next, g.stride%g.capacity, g.capacity)
	if next+g.opSize > g.capacity {
		// The tail of the window is shorter than one operation.
		next = 0
	}
	return next
}

// addMod returns (a+b) mod m for a and b in [0, m).
func addMod(a, b, m int64) int64 {
	if a >= m-b {
		return a - (m - b)
	}
	return a + b
}

// AlignDown rounds offset down to a multiple of alignment.
func AlignDown(offset, alignment int64) int64 {
	if alignment <= 1 {
		return offset
	}
	return offset - offset%alignment
}
