package report

import (
	"fmt"
	"os"

	"iobench/benchmark"
)

// ResultsFile receives one throughput line per experiment, in MiB/s with
// two decimals, in the order the experiments ran.
type ResultsFile struct {
	f *os.File
}

// CreateResultsFile creates or truncates the results file at path.
func CreateResultsFile(path string) (*ResultsFile, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create results file: %v", err)
	}
	return &ResultsFile{f: f}, nil
}

// Append writes the line for res and syncs it, so lines already written
// survive a later failed run.
func (r *ResultsFile) Append(res *benchmark.Result) error {
	if _, err := fmt.Fprintf(r.f, "%.2f\n", MiB(res.Throughput)); err != nil {
		return fmt.Errorf("failed to write result: %v", err)
	}
	if err := r.f.Sync(); err != nil {
		return fmt.Errorf("failed to sync results file: %v", err)
	}
	return nil
}

// Name returns the path of the results file.
func (r *ResultsFile) Name() string {
	return r.f.Name()
}

func (r *ResultsFile) Close() error {
	return r.f.Close()
}
