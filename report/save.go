package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"iobench/benchmark"
)

// Report collects the runs of one invocation.
type Report struct {
	TestDate time.Time
	Target   string
	Results  []*benchmark.Result
}

type jsonRun struct {
	Path           string  `json:"path"`
	Direction      string  `json:"direction"`
	Pattern        string  `json:"pattern"`
	OpSize         int64   `json:"op_size"`
	Stride         int64   `json:"stride"`
	Durable        bool    `json:"durable"`
	Capacity       int64   `json:"capacity"`
	Ops            int64   `json:"ops"`
	Bytes          int64   `json:"bytes"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
	Throughput     float64 `json:"throughput_bytes_per_second"`
	DirectIO       bool    `json:"direct_io"`
}

type jsonReport struct {
	TestDate time.Time `json:"test_date"`
	Target   string    `json:"target"`
	Runs     []jsonRun `json:"runs"`
}

// SaveReport writes a JSON and a text report into outputDir and returns
// their paths.
func (r *Report) SaveReport(outputDir string) ([]string, error) {
	timestamp := r.TestDate.Format("20060102-150405")

	doc := jsonReport{TestDate: r.TestDate, Target: r.Target, Runs: make([]jsonRun, 0, len(r.Results))}
	for _, res := range r.Results {
		doc.Runs = append(doc.Runs, jsonRun{
			Path:           res.Path,
			Direction:      res.Config.Direction.String(),
			Pattern:        res.Config.Pattern.String(),
			OpSize:         res.Config.OpSize,
			Stride:         res.Config.Stride,
			Durable:        res.Config.Durable,
			Capacity:       res.Capacity,
			Ops:            res.Ops,
			Bytes:          res.Bytes,
			ElapsedSeconds: res.Elapsed.Seconds(),
			Throughput:     res.Throughput,
			DirectIO:       res.Bypass,
		})
	}

	jsonPath := filepath.Join(outputDir, fmt.Sprintf("iobench-report-%s.json", timestamp))
	jsonData, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %v", err)
	}
	if err := os.WriteFile(jsonPath, jsonData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write JSON report: %v", err)
	}

	textPath := filepath.Join(outputDir, fmt.Sprintf("iobench-report-%s.txt", timestamp))
	if err := os.WriteFile(textPath, []byte(r.GenerateTextReport()), 0644); err != nil {
		return nil, fmt.Errorf("failed to write text report: %v", err)
	}
	return []string{jsonPath, textPath}, nil
}

// GenerateTextReport renders every run as a fixed-width table.
func (r *Report) GenerateTextReport() string {
	var b strings.Builder
	b.WriteString("========================================\n")
	b.WriteString("iobench Report\n")
	b.WriteString("========================================\n\n")
	fmt.Fprintf(&b, "Test Date: %s\n", r.TestDate.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Target: %s\n\n", r.Target)
	fmt.Fprintf(&b, "%-6s %-10s %10s %10s %12s %10s %6s\n", "Op", "Mode", "IO KiB", "Stride KiB", "MiB/s", "Seconds", "Direct")
	for _, res := range r.Results {
		direct := "no"
		if res.Bypass {
			direct = "yes"
		}
		fmt.Fprintf(&b, "%-6s %-10s %10.2f %10.2f %12.2f %10.2f %6s\n",
			res.Config.Direction, res.Config.Pattern,
			float64(res.Config.OpSize)/1024, float64(res.Config.Stride)/1024,
			MiB(res.Throughput), res.Elapsed.Seconds(), direct)
	}
	b.WriteString("========================================\n")
	return b.String()
}
