//go:build !linux

package loader

import "os"

// fileIdentity falls back to size+mtime on platforms without a portable
// inode number in os.FileInfo (spec.md's watcher requirement never
// mandates inode-exact dedup, just "don't reload an unchanged file").
type fileIdentity struct {
	size    int64
	mtimeNs int64
}

func statIdentity(path string) (fileIdentity, error) {
	st, err := os.Stat(path)
	if err != nil {
		return fileIdentity{}, err
	}
	return fileIdentity{size: st.Size(), mtimeNs: st.ModTime().UnixNano()}, nil
}
