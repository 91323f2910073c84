package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"iobench/benchmark"
	"iobench/config"
	"iobench/progress"
	"iobench/publish"
	"iobench/report"

	"github.com/minio/pkg/console"
	"github.com/sirupsen/logrus"
)

func main() {
	os.Exit(run())
}

// run parses flags, runs the benchmark and returns the process exit code.
func run() int {
	// Define command-line flags
	filePath := flag.String("file-path", "", "Path to the file, directory or device to benchmark")
	ioSize := flag.Int64("io-size", 4, "Size of each I/O operation in KiB")
	stride := flag.Int64("stride", 0, "Stride between sequential I/Os in KiB")
	random := flag.Bool("random", false, "Enable random I/O pattern")
	write := flag.Bool("write", false, "Enable write operations (default is read)")
	total := flag.Int64("total", 1024*1024, "Total data to transfer in KiB")
	count := flag.Int64("count", 0, "Stop after this many operations (0 means no limit)")
	capacity := flag.Int64("capacity", 0, "Usable capacity window in KiB (0 derives it from the target)")
	alignment := flag.Int64("alignment", 0, "Offset alignment in bytes (0 means 4096)")
	durable := flag.Bool("sync", true, "fsync after every write")
	seed := flag.Uint64("seed", 0, "Seed for random offsets (0 seeds from the clock)")

	runExperiment := flag.Bool("run-experiment", false, "Run from experiment file")
	experimentFile := flag.String("experiment-file", "", "Experiment file, one run per line")
	resultsPath := flag.String("results", "results.txt", "Results file written in experiment mode")
	reportDir := flag.String("report-dir", "", "Directory to save JSON and text reports in")

	trace := flag.Bool("trace", false, "Log issued offsets (adds a small per-operation cost to the timed loop)")
	traceInterval := flag.Duration("trace-interval", time.Second, "Minimum time between traced offsets")
	quiet := flag.Bool("quiet", false, "Disable the progress bar")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	logFile := flag.String("log-file", "", "Write logs to this file instead of stderr")

	ociBucket := flag.String("oci-bucket", "", "Publish results and reports to this OCI bucket")
	ociConfig := flag.String("oci-config", config.DefaultOCIConfigPath, "Path to OCI config file")
	ociProfile := flag.String("oci-profile", "DEFAULT", "Profile in the OCI config file")
	ociNamespace := flag.String("oci-namespace", "", "Object storage namespace (fetched when empty)")
	ociPrefix := flag.String("oci-prefix", "", "Prefix for published object names")
	ociHost := flag.String("oci-host", "", "Custom object storage endpoint")

	flag.Parse()

	log, closeLog, err := newLogger(*logLevel, *logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	defer closeLog()

	if *filePath == "" {
		fmt.Fprintln(os.Stderr, "Error: -file-path is required")
		flag.Usage()
		return 2
	}

	// Initialize the config struct with the parsed values
	base := benchmark.Config{
		Target:    *filePath,
		MaxOps:    *count,
		Durable:   *durable,
		Alignment: *alignment,
		Seed:      *seed,
	}
	sizes := []struct {
		name string
		kib  int64
		dst  *int64
	}{
		{"io size", *ioSize, &base.OpSize},
		{"stride", *stride, &base.Stride},
		{"total size", *total, &base.TotalBytes},
		{"capacity", *capacity, &base.Capacity},
	}
	for _, s := range sizes {
		if *s.dst, err = benchmark.FromKiB(s.name, s.kib); err != nil {
			return fail(log, err)
		}
	}
	if *random {
		base.Pattern = benchmark.Random
	}
	if *write {
		base.Direction = benchmark.Write
	}

	var observers []benchmark.Observer
	if !*quiet {
		observers = append(observers, &progress.Tracker{})
	}
	if *trace {
		observers = append(observers, report.NewTracer(log, *traceInterval))
	}
	engine := benchmark.NewEngine(log, observers...)

	rep := &report.Report{TestDate: time.Now(), Target: *filePath}
	var outputs []string

	if *runExperiment {
		if *experimentFile == "" {
			return fail(log, errors.New("-run-experiment requires -experiment-file"))
		}
		rep.Results, err = runExperiments(engine, base, *experimentFile, *resultsPath)
		if len(rep.Results) > 0 {
			outputs = append(outputs, *resultsPath)
		}
	} else {
		var res *benchmark.Result
		res, err = engine.Run(base)
		if err == nil {
			rep.Results = append(rep.Results, res)
			report.DisplayResults(os.Stdout, res)
		}
	}

	// Reports cover whatever completed, including the runs before a failure.
	if *reportDir != "" && len(rep.Results) > 0 {
		paths, serr := rep.SaveReport(*reportDir)
		if serr != nil {
			log.WithError(serr).Warn("failed to save reports")
		} else {
			outputs = append(outputs, paths...)
			fmt.Println("Reports saved to", *reportDir)
		}
	}

	if *ociBucket != "" && len(outputs) > 0 {
		opts := publish.Options{
			ConfigFile: *ociConfig,
			Profile:    *ociProfile,
			Namespace:  *ociNamespace,
			Bucket:     *ociBucket,
			Prefix:     *ociPrefix,
			Host:       *ociHost,
		}
		if perr := publishOutputs(opts, outputs, log); perr != nil {
			log.WithError(perr).Error("failed to publish results")
		}
	}

	if err != nil {
		return fail(log, err)
	}
	return 0
}

func runExperiments(engine *benchmark.Engine, base benchmark.Config, experimentFile, resultsPath string) ([]*benchmark.Result, error) {
	f, err := os.Open(experimentFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open experiment file: %v", err)
	}
	experiments, err := benchmark.ParseExperiments(f)
	f.Close()
	if err != nil {
		return nil, err
	}

	out, err := report.CreateResultsFile(resultsPath)
	if err != nil {
		return nil, err
	}
	defer out.Close()

	fmt.Printf("Running %d experiments from %s\n", len(experiments), experimentFile)
	return engine.RunExperiments(base, experiments, func(x benchmark.Experiment, res *benchmark.Result) error {
		report.DisplayResults(os.Stdout, res)
		fmt.Printf("Throughput: %.2f MiB/s for %s\n\n", report.MiB(res.Throughput), x)
		return out.Append(res)
	})
}

func publishOutputs(opts publish.Options, paths []string, log logrus.FieldLogger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	publisher, err := publish.NewPublisher(ctx, opts, log)
	if err != nil {
		return err
	}
	for _, path := range paths {
		name, err := publisher.PublishFile(ctx, path)
		if err != nil {
			return err
		}
		fmt.Printf("Published %s to %s/%s\n", path, opts.Bucket, name)
	}
	return nil
}

func newLogger(level, file string) (*logrus.Logger, func(), error) {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, nil, err
	}
	log.SetLevel(lvl)
	if file == "" {
		return log, func() {}, nil
	}
	f, err := os.OpenFile(file, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create log file: %v", err)
	}
	log.SetOutput(f)
	return log, func() { f.Close() }, nil
}

// fail reports err and returns the exit code for it.
func fail(log logrus.FieldLogger, err error) int {
	log.WithError(err).Error("benchmark failed")
	console.Errorln("Error:", err)
	var cfgErr *benchmark.ConfigError
	switch {
	case errors.Is(err, benchmark.ErrPermission):
		console.Errorln("Raw device access needs elevated privileges, re-run with sudo.")
	case errors.As(err, &cfgErr):
		return 2
	}
	return 1
}
