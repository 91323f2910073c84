package report

import (
	"time"

	"iobench/benchmark"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Tracer logs issued offsets, at most one per interval so tracing a fast
// device does not flood the log or slow the loop down.
type Tracer struct {
	log       logrus.FieldLogger
	sometimes rate.Sometimes
}

func NewTracer(log logrus.FieldLogger, interval time.Duration) *Tracer {
	return &Tracer{log: log, sometimes: rate.Sometimes{Interval: interval}}
}

func (t *Tracer) Observe(op benchmark.Op) {
	t.sometimes.Do(func() {
		t.log.WithFields(logrus.Fields{
			"op":     op.Index,
			"offset": op.Offset,
			"size":   op.Size,
		}).Infof("%s issued", op.Direction)
	})
}
