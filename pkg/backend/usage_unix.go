//go:build unix

package backend

import (
	"os"
	"syscall"
)

// allocated is the number of bytes of disk blocks used by a file, or its apparent size
// when the file system does not tell.
func allocated(info os.FileInfo) int64 {
	if st, ok := info.Sys().(*syscall.Stat_t); ok && st != nil {
		return int64(st.Blocks) * 512
	}
	return info.Size()
}
