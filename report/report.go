package report

import (
	"fmt"
	"io"

	"iobench/benchmark"

	"github.com/fatih/color"
	"github.com/minio/pkg/console"
)

func init() {
	console.SetColor("Heading", color.New(color.FgCyan, color.Bold))
	console.SetColor("Throughput", color.New(color.FgGreen, color.Bold))
	console.SetColor("Warning", color.New(color.FgYellow, color.Bold))
}

// MiB converts a bytes-per-second rate to MiB/s.
func MiB(bytesPerSecond float64) float64 {
	return bytesPerSecond / (1024 * 1024)
}

// DisplayResults shows the summary of one run
func DisplayResults(w io.Writer, res *benchmark.Result) {
	cfg := res.Config
	fmt.Fprintln(w, console.Colorize("Heading", fmt.Sprintf("%s Test", cfg.Direction)))
	fmt.Fprintf(w, "IO Size: %.2f KiB, Stride: %.2f KiB, Mode: %s\n",
		float64(cfg.OpSize)/1024, float64(cfg.Stride)/1024, cfg.Pattern)
	fmt.Fprintf(w, "Throughput: %s\n", console.Colorize("Throughput", fmt.Sprintf("%.2f MiB/s", MiB(res.Throughput))))
	fmt.Fprintf(w, "Time Taken: %.2f seconds\n", res.Elapsed.Seconds())
	fmt.Fprintf(w, "Operations: %d (%d bytes) within %d byte window\n", res.Ops, res.Bytes, res.Capacity)
	if res.Bypass {
		fmt.Fprintln(w, "Direct I/O: enabled")
	} else {
		fmt.Fprintln(w, console.Colorize("Warning", "Direct I/O: unavailable, the page cache is part of this measurement"))
	}
}
