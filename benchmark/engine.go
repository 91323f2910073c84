package benchmark

import (
	"math/rand/v2"
	"time"

	"github.com/sirupsen/logrus"
)

// Op describes one completed operation.
type Op struct {
	Index     int64
	Offset    int64
	Size      int64
	Direction Direction
}

// Observer is told about every completed operation. It runs on the
// benchmark goroutine, inside the timed loop, so it must be cheap.
type Observer interface {
	Observe(op Op)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(op Op)

func (f ObserverFunc) Observe(op Op) { f(op) }

// RunObserver is an Observer that is also told when a run starts issuing
// operations and when it stops, successful or not.
type RunObserver interface {
	Observer
	Begin(cfg Config)
	End()
}

// Engine runs benchmarks one at a time. It holds no per-run state.
type Engine struct {
	log       logrus.FieldLogger
	observers []Observer
}

// NewEngine returns an engine logging to log (the standard logger when nil)
// that reports every operation to observers.
func NewEngine(log logrus.FieldLogger, observers ...Observer) *Engine {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Engine{log: log, observers: observers}
}

// Run opens the target, issues operations until the configured bound is
// reached and releases the target on every path out.
func (e *Engine) Run(cfg Config) (res *Result, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	target, err := OpenTarget(cfg, e.log)
	if err != nil {
		return nil, err
	}
	defer func() {
		if rerr := target.Release(); rerr != nil && err == nil {
			res, err = nil, rerr
		}
	}()

	for _, o := range e.observers {
		if ro, ok := o.(RunObserver); ok {
			ro.Begin(cfg)
			defer ro.End()
		}
	}

	gen := NewOffsetGenerator(cfg, target.Capacity, newRand(cfg.Seed))
	buf := GetBuffer(int(cfg.OpSize))
	defer PutBuffer(buf)

	durable := cfg.Direction == Write && cfg.Durable
	var bytes, ops int64

	start := time.Now()
	for !boundReached(cfg, bytes, ops) {
		offset := gen.Next()
		if err := target.issue(cfg.Direction, buf, offset); err != nil {
			return nil, err
		}
		if durable {
			if err := target.sync(offset); err != nil {
				return nil, err
			}
		}
		for _, o := range e.observers {
			o.Observe(Op{Index: ops, Offset: offset, Size: cfg.OpSize, Direction: cfg.Direction})
		}
		ops++
		bytes += cfg.OpSize
	}
	elapsed := time.Since(start)

	res = &Result{
		Config:     cfg,
		Path:       target.Path,
		Bytes:      bytes,
		Ops:        ops,
		Elapsed:    elapsed,
		Throughput: Throughput(bytes, elapsed),
		Bypass:     target.Bypass,
		Capacity:   target.Capacity,
	}
	e.log.WithFields(logrus.Fields{
		"path":       res.Path,
		"direction":  cfg.Direction,
		"pattern":    cfg.Pattern,
		"ops":        ops,
		"bytes":      bytes,
		"elapsed":    elapsed,
		"throughput": res.Throughput,
	}).Info("run complete")
	return res, nil
}

func boundReached(cfg Config, bytes, ops int64) bool {
	if cfg.TotalBytes > 0 && bytes >= cfg.TotalBytes {
		return true
	}
	return cfg.MaxOps > 0 && ops >= cfg.MaxOps
}

// Throughput returns bytes per second. Elapsed times below the clock's
// resolution count as one nanosecond so the result stays finite.
func Throughput(bytes int64, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		elapsed = time.Nanosecond
	}
	return float64(bytes) / elapsed.Seconds()
}

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
