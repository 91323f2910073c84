package benchmark

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Experiment is one line of an experiment file:
//
//	io_size_kib stride_kib {sequential|random} {read|write} total_size_kib desired_kib
//
// total_size_kib is the address window offsets stay within and desired_kib
// is how much data the run transfers.
type Experiment struct {
	Line      int
	OpSize    int64 // bytes
	Stride    int64 // bytes
	Pattern   Pattern
	Direction Direction
	Window    int64 // bytes
	Total     int64 // bytes
}

// Config applies the experiment to base, which supplies the target and
// the settings experiment files do not carry.
func (x Experiment) Config(base Config) Config {
	cfg := base
	cfg.OpSize = x.OpSize
	cfg.Stride = x.Stride
	cfg.Pattern = x.Pattern
	cfg.Direction = x.Direction
	cfg.Capacity = x.Window
	cfg.TotalBytes = x.Total
	cfg.MaxOps = 0
	return cfg
}

func (x Experiment) String() string {
	return fmt.Sprintf("%d %d %s %s %d %d",
		x.OpSize/KiB, x.Stride/KiB, strings.ToLower(x.Pattern.String()),
		strings.ToLower(x.Direction.String()), x.Window/KiB, x.Total/KiB)
}

// ParseExperiments reads every record of an experiment file. Blank lines
// and lines starting with # are skipped. The first malformed line aborts
// parsing with a *ConfigError.
func ParseExperiments(r io.Reader) ([]Experiment, error) {
	var experiments []Experiment
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		x, err := parseExperiment(line, strings.Fields(text))
		if err != nil {
			return nil, err
		}
		experiments = append(experiments, x)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read experiment file: %w", err)
	}
	return experiments, nil
}

func parseExperiment(line int, fields []string) (Experiment, error) {
	if len(fields) != 6 {
		return Experiment{}, &ConfigError{Line: line, Field: "record", Reason: fmt.Sprintf("want 6 fields, got %d", len(fields))}
	}
	x := Experiment{Line: line}

	sizes := []struct {
		name     string
		text     string
		dst      *int64
		positive bool
	}{
		{"io size", fields[0], &x.OpSize, true},
		{"stride", fields[1], &x.Stride, false},
		{"total size", fields[4], &x.Window, true},
		{"desired size", fields[5], &x.Total, true},
	}
	for _, s := range sizes {
		n, err := strconv.ParseInt(s.text, 10, 64)
		if err != nil {
			return Experiment{}, &ConfigError{Line: line, Field: s.name, Reason: fmt.Sprintf("%q is not an integer", s.text)}
		}
		if n < 0 || n > MaxKiB || (s.positive && n == 0) {
			return Experiment{}, &ConfigError{Line: line, Field: s.name, Reason: fmt.Sprintf("%d KiB is out of range", n)}
		}
		*s.dst = n * KiB
	}

	switch strings.ToLower(fields[2]) {
	case "sequential":
		x.Pattern = Sequential
	case "random":
		x.Pattern = Random
	default:
		return Experiment{}, &ConfigError{Line: line, Field: "pattern", Reason: fmt.Sprintf("%q is not sequential or random", fields[2])}
	}
	switch strings.ToLower(fields[3]) {
	case "read":
		x.Direction = Read
	case "write":
		x.Direction = Write
	default:
		return Experiment{}, &ConfigError{Line: line, Field: "direction", Reason: fmt.Sprintf("%q is not read or write", fields[3])}
	}

	if x.Window < x.OpSize {
		return Experiment{}, &ConfigError{Line: line, Field: "total size", Reason: "smaller than io size"}
	}
	return x, nil
}

// ExperimentHandler is called after each successful experiment run. A
// non-nil error stops the batch.
type ExperimentHandler func(x Experiment, res *Result) error

// RunExperiments runs each experiment in order against base and hands every
// result to onResult before starting the next one. The batch stops at the
// first failing run; results gathered so far are returned with the error.
func (e *Engine) RunExperiments(base Config, experiments []Experiment, onResult ExperimentHandler) ([]*Result, error) {
	results := make([]*Result, 0, len(experiments))
	for _, x := range experiments {
		res, err := e.Run(x.Config(base))
		if err != nil {
			return results, fmt.Errorf("experiment on line %d (%s): %w", x.Line, x, err)
		}
		results = append(results, res)
		if onResult != nil {
			if err := onResult(x, res); err != nil {
				return results, err
			}
		}
	}
	return results, nil
}
