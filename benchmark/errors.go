package benchmark

import (
	"errors"
	"fmt"
)

// ErrPermission is returned when the target cannot be opened with the
// privileges of the current user. Raw devices usually need root.
var ErrPermission = errors.New("permission denied opening target, raw devices usually require re-running with sudo")

// ConfigError reports an invalid configuration or experiment record.
type ConfigError struct {
	Line   int // Experiment file line, 0 when not from a file
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("invalid %s on line %d: %s", e.Field, e.Line, e.Reason)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IOError wraps a failure of the target during open, seek, read, write,
// sync or close.
type IOError struct {
	Op     string
	Offset int64
	Err    error
}

func (e *IOError) Error() string {
	switch e.Op {
	case "open", "close", "stat", "truncate", "remove":
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s failed at offset %d: %v", e.Op, e.Offset, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
