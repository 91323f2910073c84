package progress

import (
	"sync"
	"time"

	"iobench/benchmark"

	"github.com/cheggaaa/pb/v3"
	"github.com/fatih/color"
	"github.com/minio/pkg/console"
)

// Mutex to protect bar replacement between runs
var barMu sync.Mutex

// ProgressBar wrapper structure
type ProgressBar struct {
	*pb.ProgressBar
}

// NewProgressBar - instantiate a byte-counting progress bar.
func NewProgressBar(total int64) *ProgressBar {
	// Progress bar specific theme customization.
	console.SetColor("Bar", color.New(color.FgGreen, color.Bold))

	bar := pb.New64(total)
	bar.Set(pb.Bytes, true)

	// Customize the refresh rate and behavior
	bar.SetRefreshRate(time.Millisecond * 125)
	bar.SetTemplateString(`{{string . "prefix"}} {{counters . }} {{bar . }} {{percent . }} {{speed . }}`)

	bar.Start()

	return &ProgressBar{ProgressBar: bar}
}

// SetCaption sets the caption of the progress bar.
func (p *ProgressBar) SetCaption(caption string) *ProgressBar {
	p.ProgressBar.Set("prefix", caption)
	return p
}

// Observe advances the bar by the size of a completed operation.
func (p *ProgressBar) Observe(op benchmark.Op) {
	p.Add64(op.Size)
}

// Tracker shows one bar per run. Begin and End bracket each run; Observe
// is a no-op outside of them.
type Tracker struct {
	bar *ProgressBar
}

// Begin starts a bar sized to the run's byte bound.
func (t *Tracker) Begin(cfg benchmark.Config) {
	total := cfg.TotalBytes
	if cfg.MaxOps > 0 && (total == 0 || cfg.MaxOps*cfg.OpSize < total) {
		total = cfg.MaxOps * cfg.OpSize
	}
	barMu.Lock()
	defer barMu.Unlock()
	t.bar = NewProgressBar(total).SetCaption(console.Colorize("Bar", cfg.Direction.String()))
}

func (t *Tracker) Observe(op benchmark.Op) {
	if t.bar != nil {
		t.bar.Observe(op)
	}
}

// End finishes the current bar.
func (t *Tracker) End() {
	barMu.Lock()
	defer barMu.Unlock()
	if t.bar != nil {
		t.bar.Finish()
		t.bar = nil
	}
}
