package benchmark

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ncw/directio"
	"github.com/sirupsen/logrus"
)

// Target is the file or device a run issues I/O against. It is owned by a
// single run and must be released with Release.
type Target struct {
	Path     string
	Bypass   bool  // Opened with the page cache bypassed
	Device   bool  // Block or character device rather than a regular file
	Created  bool  // Did not exist before this run
	Scratch  bool  // Regular file, removed on release
	Capacity int64 // Usable capacity offsets are bounded by

	file *os.File
}

// OpenTarget resolves cfg.Target, opens it read/write with cache bypass
// when the filesystem allows it and computes the usable capacity.
func OpenTarget(cfg Config, log logrus.FieldLogger) (*Target, error) {
	path := cfg.Target
	st, err := os.Stat(path)
	switch {
	case err == nil && st.IsDir():
		name, err := ScratchFileName()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(path, name)
		st = nil
	case errors.Is(err, fs.ErrNotExist):
		st = nil
	case errors.Is(err, fs.ErrPermission):
		return nil, fmt.Errorf("%w: %s", ErrPermission, path)
	case err != nil:
		return nil, &IOError{Op: "stat", Err: err}
	}

	t := &Target{
		Path:    path,
		Device:  st != nil && st.Mode()&os.ModeDevice != 0,
		Created: st == nil,
	}
	t.Scratch = !t.Device
	if t.Device {
		if err := checkAccess(path); err != nil {
			return nil, err
		}
	}

	flags := os.O_RDWR
	if t.Created {
		flags |= os.O_CREATE
	}
	t.file, err = directio.OpenFile(path, flags, 0666)
	t.Bypass = err == nil
	if err != nil && bypassUnsupported(err) {
		log.WithField("path", path).Warn("filesystem does not support direct I/O, falling back to buffered access")
		t.file, err = os.OpenFile(path, flags, 0666)
	}
	if err != nil {
		if t.Created {
			os.Remove(path)
		}
		if errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("%w: %s", ErrPermission, path)
		}
		return nil, &IOError{Op: "open", Err: err}
	}

	if err := t.sizeUp(cfg, st); err != nil {
		t.Release()
		return nil, err
	}
	if err := t.checkAlignment(cfg); err != nil {
		t.Release()
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"path":     t.Path,
		"device":   t.Device,
		"created":  t.Created,
		"scratch":  t.Scratch,
		"bypass":   t.Bypass,
		"capacity": t.Capacity,
	}).Debug("target opened")
	return t, nil
}

// sizeUp derives the usable capacity and extends empty regular files to it
// so reads inside the window have data to return.
func (t *Target) sizeUp(cfg Config, st fs.FileInfo) error {
	var real int64
	var err error
	if t.Device {
		real, err = deviceSize(t.file)
		if err != nil {
			return &IOError{Op: "stat", Err: err}
		}
	} else if st != nil {
		real = st.Size()
	}

	capacity := cfg.Capacity
	switch {
	case real > 0 && (capacity == 0 || capacity > real):
		capacity = real
	case real == 0 && capacity == 0:
		capacity = DefaultCapacity
	}
	if capacity < cfg.OpSize {
		return &ConfigError{Field: "capacity", Reason: fmt.Sprintf("target holds %d bytes, less than op size %d", capacity, cfg.OpSize)}
	}
	t.Capacity = capacity

	if !t.Device && real == 0 {
		if err := t.file.Truncate(capacity); err != nil {
			return &IOError{Op: "truncate", Err: err}
		}
	}
	return nil
}

func (t *Target) checkAlignment(cfg Config) error {
	if !t.Bypass {
		return nil
	}
	align := cfg.alignment()
	if cfg.OpSize%align != 0 {
		return &ConfigError{Field: "op size", Reason: fmt.Sprintf("%d is not a multiple of the %d byte alignment direct I/O requires", cfg.OpSize, align)}
	}
	if t.Device {
		sector, err := sectorSize(t.file)
		if err == nil && sector > align {
			return &ConfigError{Field: "alignment", Reason: fmt.Sprintf("%d is smaller than the device's %d byte logical sector", align, sector)}
		}
	}
	return nil
}

// issue performs exactly one operation of len(buf) bytes at offset.
func (t *Target) issue(dir Direction, buf []byte, offset int64) error {
	if _, err := t.file.Seek(offset, io.SeekStart); err != nil {
		return &IOError{Op: "seek", Offset: offset, Err: err}
	}
	if dir == Write {
		if _, err := t.file.Write(buf); err != nil {
			return &IOError{Op: "write", Offset: offset, Err: err}
		}
		return nil
	}
	n, err := t.file.Read(buf)
	if err == nil && n < len(buf) {
		err = io.ErrUnexpectedEOF
	}
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return &IOError{Op: "read", Offset: offset, Err: err}
	}
	return nil
}

func (t *Target) sync(offset int64) error {
	if err := t.file.Sync(); err != nil {
		return &IOError{Op: "sync", Offset: offset, Err: err}
	}
	return nil
}

// Release closes the target and removes it unless it is a device.
func (t *Target) Release() error {
	var errs []error
	if t.file != nil {
		if err := t.file.Close(); err != nil {
			errs = append(errs, &IOError{Op: "close", Err: err})
		}
		t.file = nil
	}
	if t.Scratch {
		if err := os.Remove(t.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, &IOError{Op: "remove", Err: err})
		}
		t.Scratch = false
	}
	return errors.Join(errs...)
}

func seekSize(f *os.File) (int64, error) {
	size, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	_, err = f.Seek(0, io.SeekStart)
	return size, err
}
