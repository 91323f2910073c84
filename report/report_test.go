package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"iobench/benchmark"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult(bypass bool) *benchmark.Result {
	return &benchmark.Result{
		Config: benchmark.Config{
			OpSize:    4096,
			Stride:    8192,
			Pattern:   benchmark.Random,
			Direction: benchmark.Write,
		},
		Path:       "/tmp/x",
		Bytes:      3 << 20,
		Ops:        768,
		Elapsed:    1500 * time.Millisecond,
		Throughput: 2 << 20,
		Bypass:     bypass,
		Capacity:   benchmark.DefaultCapacity,
	}
}

func TestDisplayResults(t *testing.T) {
	var buf bytes.Buffer
	DisplayResults(&buf, sampleResult(true))
	out := buf.String()

	assert.Contains(t, out, "Write Test")
	assert.Contains(t, out, "IO Size: 4.00 KiB, Stride: 8.00 KiB, Mode: Random")
	assert.Contains(t, out, "2.00 MiB/s")
	assert.Contains(t, out, "Time Taken: 1.50 seconds")
	assert.Contains(t, out, "Direct I/O: enabled")
}

func TestDisplayResults_WarnsWithoutBypass(t *testing.T) {
	var buf bytes.Buffer
	DisplayResults(&buf, sampleResult(false))
	assert.Contains(t, buf.String(), "Direct I/O: unavailable")
}

func TestResultsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.txt")
	require.NoError(t, os.WriteFile(path, []byte("stale\n"), 0644))

	out, err := CreateResultsFile(path)
	require.NoError(t, err)
	res := sampleResult(true)
	require.NoError(t, out.Append(res))
	res.Throughput = 100.5 * 1024 * 1024
	require.NoError(t, out.Append(res))
	require.NoError(t, out.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "2.00\n100.50\n", string(data))
}

func TestExperimentFileProducesOneResultLine(t *testing.T) {
	dir := t.TempDir()
	experiments, err := benchmark.ParseExperiments(strings.NewReader(
		"# io_size_kib stride_kib pattern op total_size_kib desired_kib\n" +
			"# random 4 KiB reads over 1 MiB\n" +
			"4 0 random read 1024 1024\n"))
	require.NoError(t, err)

	resultsPath := filepath.Join(dir, "results.txt")
	out, err := CreateResultsFile(resultsPath)
	require.NoError(t, err)

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	engine := benchmark.NewEngine(log)
	results, err := engine.RunExperiments(benchmark.Config{Target: dir}, experiments,
		func(_ benchmark.Experiment, res *benchmark.Result) error {
			return out.Append(res)
		})
	require.NoError(t, err)
	require.NoError(t, out.Close())
	require.Len(t, results, 1)
	assert.Equal(t, int64(256), results[0].Ops)

	data, err := os.ReadFile(resultsPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 1)
	assert.Regexp(t, `^\d+\.\d{2}$`, lines[0])

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "only the results file remains")
}

func TestSaveReport(t *testing.T) {
	dir := t.TempDir()
	rep := &Report{
		TestDate: time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC),
		Target:   "/dev/sdb",
		Results:  []*benchmark.Result{sampleResult(true), sampleResult(false)},
	}

	paths, err := rep.SaveReport(dir)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, filepath.Join(dir, "iobench-report-20261018-093000.json"), paths[0])
	assert.Equal(t, filepath.Join(dir, "iobench-report-20261018-093000.txt"), paths[1])

	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	var doc jsonReport
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "/dev/sdb", doc.Target)
	require.Len(t, doc.Runs, 2)
	assert.Equal(t, "Write", doc.Runs[0].Direction)
	assert.Equal(t, "Random", doc.Runs[0].Pattern)
	assert.True(t, doc.Runs[0].DirectIO)
	assert.False(t, doc.Runs[1].DirectIO)
	assert.InDelta(t, 1.5, doc.Runs[0].ElapsedSeconds, 1e-9)

	text, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	assert.Contains(t, string(text), "Target: /dev/sdb")
	assert.Contains(t, string(text), "2.00")
}

func TestTracerThrottles(t *testing.T) {
	log, hook := test.NewNullLogger()
	tracer := NewTracer(log, time.Hour)

	for i := int64(0); i < 100; i++ {
		tracer.Observe(benchmark.Op{Index: i, Offset: i * 4096, Size: 4096, Direction: benchmark.Read})
	}
	require.Len(t, hook.AllEntries(), 1)
	entry := hook.LastEntry()
	assert.Equal(t, "Read issued", entry.Message)
	assert.Equal(t, int64(0), entry.Data["offset"])
}
