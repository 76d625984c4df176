//go:build unix

package fileutil

import "golang.org/x/sys/unix"

// FreeBytes reports the bytes available to unprivileged users on the volume holding dir.
func FreeBytes(dir string) (int64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(dir, &stat); err != nil {
		return 0, err
	}
	return int64(stat.Bavail) * int64(stat.Bsize), nil
}
