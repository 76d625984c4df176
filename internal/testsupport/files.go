package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// mediaHeader is the leading ftyp box of an MP4 file.
var mediaHeader = []byte{0, 0, 0, 0x18, 'f', 't', 'y', 'p', 'i', 's', 'o', 'm', 0, 0, 2, 0}

// MediaBytes returns size bytes that start like an MP4 file. A size shorter
// than the header returns the header alone.
func MediaBytes(size int) []byte {
	if size < len(mediaHeader) {
		size = len(mediaHeader)
	}
	data := make([]byte, size)
	copy(data, mediaHeader)
	for i := len(mediaHeader); i < size; i++ {
		data[i] = byte(i % 251)
	}
	return data
}

// WriteMedia writes a fake media file of size bytes to path and returns path.
func WriteMedia(t testing.TB, path string, size int) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, MediaBytes(size), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
