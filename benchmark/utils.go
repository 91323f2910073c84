package benchmark

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math"
)

// KiB is the unit sizes are given in on the command line and in experiment files.
const KiB = 1024

// MaxKiB is the largest KiB count whose byte size fits in an int64.
const MaxKiB = math.MaxInt64 / KiB

// FromKiB converts a size given in KiB to bytes. field names the size in
// the returned error when n is negative or the byte count overflows.
func FromKiB(field string, n int64) (int64, error) {
	if n < 0 || n > MaxKiB {
		return 0, &ConfigError{Field: field, Reason: fmt.Sprintf("%d KiB is out of range", n)}
	}
	return n * KiB, nil
}

// GenerateRandomName creates a random hex string
func GenerateRandomName(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// ScratchFileName names the file created when the target is a directory.
func ScratchFileName() (string, error) {
	name, err := GenerateRandomName(8)
	if err != nil {
		return "", fmt.Errorf("failed to generate scratch file name: %v", err)
	}
	return fmt.Sprintf("iobench-%s.dat", name), nil
}
