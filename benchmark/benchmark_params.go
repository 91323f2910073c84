package benchmark

import (
	"fmt"
	"math"
	"time"
)

// DefaultCapacity bounds offsets when the target gives no size of its own
// (a new or empty regular file).
const DefaultCapacity int64 = 512 * 1024 * 1024

// DefaultAlignment is the offset granularity used when Config.Alignment is 0.
const DefaultAlignment int64 = 4096

// Pattern selects how offsets are generated.
type Pattern int

const (
	Sequential Pattern = iota
	Random
)

func (p Pattern) String() string {
	if p == Random {
		return "Random"
	}
	return "Sequential"
}

// Direction selects whether the run reads or writes.
type Direction int

const (
	Read Direction = iota
	Write
)

func (d Direction) String() string {
	if d == Write {
		return "Write"
	}
	return "Read"
}

// Config fully specifies a single run.
type Config struct {
	Target     string    // File, directory or block device path
	OpSize     int64     // Size of each I/O operation in bytes
	Stride     int64     // Gap between sequential operations in bytes
	Pattern    Pattern   // Sequential or Random
	Direction  Direction // Read or Write
	TotalBytes int64     // Stop after this many bytes (0 means no byte bound)
	MaxOps     int64     // Stop after this many operations (0 means no count bound)
	Durable    bool      // fsync after every write
	Capacity   int64     // Usable capacity window in bytes (0 means derive from target)
	Alignment  int64     // Offset alignment in bytes (0 means DefaultAlignment)
	Seed       uint64    // Random pattern seed (0 means seeded from the clock)
}

// Validate rejects configurations the engine cannot run.
func (c Config) Validate() error {
	if c.Target == "" {
		return &ConfigError{Field: "target", Reason: "path is required"}
	}
	if c.OpSize <= 0 {
		return &ConfigError{Field: "op size", Reason: fmt.Sprintf("must be positive, got %d", c.OpSize)}
	}
	if c.TotalBytes < 0 || c.MaxOps < 0 {
		return &ConfigError{Field: "bound", Reason: "total bytes and operation count must not be negative"}
	}
	if c.TotalBytes == 0 && c.MaxOps == 0 {
		return &ConfigError{Field: "bound", Reason: "total bytes or operation count must be set"}
	}
	if c.TotalBytes > math.MaxInt64-c.OpSize {
		return &ConfigError{Field: "bound", Reason: fmt.Sprintf("total bytes %d leaves no room for one more operation", c.TotalBytes)}
	}
	if c.Stride < 0 {
		return &ConfigError{Field: "stride", Reason: fmt.Sprintf("must not be negative, got %d", c.Stride)}
	}
	if c.Capacity < 0 {
		return &ConfigError{Field: "capacity", Reason: fmt.Sprintf("must not be negative, got %d", c.Capacity)}
	}
	if c.Capacity > 0 && c.Capacity < c.OpSize {
		return &ConfigError{Field: "capacity", Reason: fmt.Sprintf("%d is smaller than op size %d", c.Capacity, c.OpSize)}
	}
	if a := c.Alignment; a < 0 || (a > 0 && a&(a-1) != 0) {
		return &ConfigError{Field: "alignment", Reason: fmt.Sprintf("must be a power of two, got %d", a)}
	}
	return nil
}

func (c Config) alignment() int64 {
	if c.Alignment == 0 {
		return DefaultAlignment
	}
	return c.Alignment
}

// Result is the measurement of one run.
type Result struct {
	Config     Config
	Path       string        // Path actually opened (differs from Config.Target for directories)
	Bytes      int64         // Bytes transferred
	Ops        int64         // Operations issued
	Elapsed    time.Duration // Wall-clock time of the I/O loop
	Throughput float64       // Bytes per second
	Bypass     bool          // Whether the page cache was bypassed
	Capacity   int64         // Usable capacity the offsets were bounded by
}
