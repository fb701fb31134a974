//go:build linux

package loader

import "golang.org/x/sys/unix"

// fileIdentity is a snapshot of a descriptor's on-disk identity: device
// and inode number (to detect replacement by a different file at the same
// path) plus mtime (to detect in-place rewrites of the same inode).
type fileIdentity struct {
	dev, ino uint64
	mtimeNs  int64
}

func statIdentity(path string) (fileIdentity, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return fileIdentity{}, err
	}
	return fileIdentity{
		dev:     uint64(st.Dev),
		ino:     st.Ino,
		mtimeNs: st.Mtim.Nano(),
	}, nil
}
