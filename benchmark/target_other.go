//go:build !linux
// +build !linux

package benchmark

import "os"

func deviceSize(f *os.File) (int64, error) {
	return seekSize(f)
}

// sectorSize is unknown off Linux; callers treat 0 as "no constraint".
func sectorSize(f *os.File) (int64, error) {
	return 0, nil
}
