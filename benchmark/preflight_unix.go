//go:build !windows
// +build !windows

package benchmark

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// checkAccess fails early with ErrPermission when the current user cannot
// open a device path for reading and writing.
func checkAccess(path string) error {
	err := unix.Access(path, unix.R_OK|unix.W_OK)
	if err == nil {
		return nil
	}
	if errors.Is(err, unix.EACCES) || errors.Is(err, unix.EPERM) {
		return fmt.Errorf("%w: %s (uid %d)", ErrPermission, path, unix.Getuid())
	}
	return &IOError{Op: "open", Err: err}
}

// bypassUnsupported reports whether an open failed only because the
// filesystem rejects O_DIRECT (tmpfs on older kernels, some FUSE mounts).
func bypassUnsupported(err error) bool {
	return errors.Is(err, unix.EINVAL)
}
