package benchmark

import (
	"sync"

	"github.com/ncw/directio"
)

// BufPool reuses aligned buffers across the runs of an experiment batch so
// each run does not allocate its own.
var BufPool = sync.Pool{
	New: func() interface{} {
		return directio.AlignedBlock(directio.BlockSize)
	},
}

// GetBuffer returns a zeroed buffer of size bytes whose start is aligned
// for direct I/O.
func GetBuffer(size int) []byte {
	buf := BufPool.Get().([]byte)
	if cap(buf) < size {
		return directio.AlignedBlock(size)
	}
	buf = buf[:size]
	clear(buf)
	return buf
}

// PutBuffer returns a buffer to the pool
func PutBuffer(buf []byte) {
	BufPool.Put(buf)
}
