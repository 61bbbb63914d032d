package fs

import (
	"io/fs"
	"syscall"
	"time"
)

func platformTimes(_ string, info fs.FileInfo) (created, accessed time.Time) {
	data, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return time.Time{}, time.Time{}
	}
	created = time.Unix(0, data.CreationTime.Nanoseconds())
	accessed = time.Unix(0, data.LastAccessTime.Nanoseconds())
	return created, accessed
}
