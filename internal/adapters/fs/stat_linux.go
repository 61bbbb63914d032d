package fs

import (
	"io/fs"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// platformTimes reads birth and access time through statx, falling back to
// the access time in info when statx is unavailable.
func platformTimes(path string, info fs.FileInfo) (created, accessed time.Time) {
	var stx unix.Statx_t
	mask := unix.STATX_BTIME | unix.STATX_ATIME
	err := unix.Statx(unix.AT_FDCWD, path, unix.AT_SYMLINK_NOFOLLOW|unix.AT_STATX_DONT_SYNC, mask, &stx)
	if err == nil {
		if stx.Mask&unix.STATX_BTIME != 0 {
			created = time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec))
		}
		if stx.Mask&unix.STATX_ATIME != 0 {
			accessed = time.Unix(stx.Atime.Sec, int64(stx.Atime.Nsec))
		}
		return created, accessed
	}

	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		accessed = time.Unix(int64(st.Atim.Sec), int64(st.Atim.Nsec)) //nolint:unconvert // int32 on 32-bit arches
	}
	return time.Time{}, accessed
}
