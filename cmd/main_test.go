package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"iobench/benchmark"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFailExitCodes(t *testing.T) {
	log, hook := test.NewNullLogger()

	assert.Equal(t, 2, fail(log, &benchmark.ConfigError{Field: "stride", Reason: "bad"}))
	assert.Equal(t, 2, fail(log, fmt.Errorf("experiment on line 3: %w", &benchmark.ConfigError{Line: 3, Field: "pattern"})))
	assert.Equal(t, 1, fail(log, fmt.Errorf("%w: /dev/sdb", benchmark.ErrPermission)))
	assert.Equal(t, 1, fail(log, errors.New("disk full")))
	assert.Len(t, hook.AllEntries(), 4)
}

func TestNewLoggerWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "iobench.log")
	log, closeLog, err := newLogger("debug", path)
	require.NoError(t, err)

	log.Debug("hello")
	closeLog()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")

	_, _, err = newLogger("loud", "")
	assert.Error(t, err)
}
