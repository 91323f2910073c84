package benchmark

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExperiments(t *testing.T) {
	input := `# io_size stride pattern op total desired
# all sizes in KiB

4 0 random read 1024 1024
  64 4 sequential WRITE 2048 512
`
	experiments, err := ParseExperiments(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, experiments, 2)

	assert.Equal(t, Experiment{
		Line:      4,
		OpSize:    4 * KiB,
		Stride:    0,
		Pattern:   Random,
		Direction: Read,
		Window:    1024 * KiB,
		Total:     1024 * KiB,
	}, experiments[0])
	assert.Equal(t, Experiment{
		Line:      5,
		OpSize:    64 * KiB,
		Stride:    4 * KiB,
		Pattern:   Sequential,
		Direction: Write,
		Window:    2048 * KiB,
		Total:     512 * KiB,
	}, experiments[1])
	assert.Equal(t, "64 4 sequential write 2048 512", experiments[1].String())
}

func TestParseExperiments_Malformed(t *testing.T) {
	cases := []struct {
		name  string
		line  string
		field string
	}{
		{"too few fields", "4 0 random read 1024", "record"},
		{"too many fields", "4 0 random read 1024 1024 9", "record"},
		{"not a number", "four 0 random read 1024 1024", "io size"},
		{"zero io size", "0 0 random read 1024 1024", "io size"},
		{"negative stride", "4 -1 sequential read 1024 1024", "stride"},
		{"bad pattern", "4 0 zigzag read 1024 1024", "pattern"},
		{"bad direction", "4 0 random append 1024 1024", "direction"},
		{"zero desired", "4 0 random read 1024 0", "desired size"},
		{"stride overflows bytes", "4 9007199254740992 sequential read 1024 1024", "stride"},
		{"window smaller than io", "64 0 random read 32 1024", "total size"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			input := "# header\n4 0 random read 1024 1024\n" + c.line + "\n"
			_, err := ParseExperiments(strings.NewReader(input))
			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr), "got %v", err)
			assert.Equal(t, 3, cfgErr.Line)
			assert.Equal(t, c.field, cfgErr.Field)
			assert.Contains(t, cfgErr.Error(), "line 3")
		})
	}
}

func TestExperiment_Config(t *testing.T) {
	base := Config{Target: "/dev/nvme0n1", Durable: true, MaxOps: 99, Seed: 3}
	x := Experiment{OpSize: 8 * KiB, Stride: 4 * KiB, Pattern: Random, Direction: Write, Window: 64 * KiB, Total: 128 * KiB}

	cfg := x.Config(base)
	assert.Equal(t, Config{
		Target:     "/dev/nvme0n1",
		OpSize:     8 * KiB,
		Stride:     4 * KiB,
		Pattern:    Random,
		Direction:  Write,
		TotalBytes: 128 * KiB,
		Durable:    true,
		Capacity:   64 * KiB,
		Seed:       3,
	}, cfg)
}

func TestRunExperiments_StopsAtFirstFailure(t *testing.T) {
	engine, _ := newTestEngine()
	base := Config{Target: t.TempDir()}
	experiments := []Experiment{
		{Line: 1, OpSize: 4 * KiB, Direction: Write, Window: 64 * KiB, Total: 64 * KiB},
		{Line: 2, OpSize: 0, Direction: Write, Window: 64 * KiB, Total: 64 * KiB},
		{Line: 3, OpSize: 4 * KiB, Direction: Read, Window: 64 * KiB, Total: 64 * KiB},
	}

	var handled []int
	results, err := engine.RunExperiments(base, experiments, func(x Experiment, res *Result) error {
		handled = append(handled, x.Line)
		return nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
	var cfgErr *ConfigError
	assert.True(t, errors.As(err, &cfgErr))
	assert.Len(t, results, 1)
	assert.Equal(t, []int{1}, handled)
}

func TestRunExperiments_HandlerErrorStopsBatch(t *testing.T) {
	engine, _ := newTestEngine()
	base := Config{Target: t.TempDir()}
	x := Experiment{Line: 1, OpSize: 4 * KiB, Direction: Write, Window: 64 * KiB, Total: 16 * KiB}

	sinkErr := errors.New("disk full")
	calls := 0
	results, err := engine.RunExperiments(base, []Experiment{x, x}, func(Experiment, *Result) error {
		calls++
		return sinkErr
	})
	assert.ErrorIs(t, err, sinkErr)
	assert.Equal(t, 1, calls)
	assert.Len(t, results, 1)
}
