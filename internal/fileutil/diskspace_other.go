//go:build !unix

package fileutil

// FreeBytes returns -1 where free space cannot be queried.
func FreeBytes(string) (int64, error) {
	return -1, nil
}
