package loader

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/apkglink/apkglink/applog"
	"github.com/apkglink/apkglink/linkdb"
)

// descriptorSuffix is the extension a directory scan looks for, mirroring
// the teacher's unsignedScan matching on ".squashfs" (apkgdb/unsigned.go).
const descriptorSuffix = ".apkgmeta.json"

// Loader reads package descriptors from disk and installs them into a
// linkdb.Database, optionally keeping the database in sync with a watched
// directory.
type Loader struct {
	db  *linkdb.Database
	log *applog.Logger

	// pathToPackage tracks which package name a given descriptor file last
	// installed, so a watched delete event removes the right package.
	pathToPackage map[string]string

	// seenIdentity tracks the (device, inode, mtime) of the descriptor most
	// recently loaded from each path, so a watcher delivering duplicate
	// Create+Write events for one save doesn't reparse the file twice.
	seenIdentity map[string]fileIdentity
}

// New returns a Loader that installs into db.
func New(db *linkdb.Database, log *applog.Logger) *Loader {
	return &Loader{
		db:            db,
		log:           log,
		pathToPackage: make(map[string]string),
		seenIdentity:  make(map[string]fileIdentity),
	}
}

func (l *Loader) logf(format string, v ...interface{}) {
	if l.log != nil {
		l.log.Infof(format, v...)
	}
}

// LoadDir installs every descriptor file in dir (non-recursive), returning
// the count of packages successfully installed. A malformed descriptor is
// logged and skipped rather than aborting the whole scan.
func (l *Loader) LoadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), descriptorSuffix) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if err := l.loadFile(path); err != nil {
			l.logf("failed to load %s: %s", path, err)
			continue
		}
		n++
	}
	return n, nil
}

func (l *Loader) loadFile(path string) error {
	pkg, err := LoadPackageFile(path, filepath.Dir(path))
	if err != nil {
		return err
	}
	if !l.db.InstallPackage(pkg) {
		return linkdb.ErrInvalidPackage
	}
	l.pathToPackage[path] = pkg.Name
	if id, err := statIdentity(path); err == nil {
		l.seenIdentity[path] = id
	}
	l.logf("installed %s (%s) from %s", pkg.Name, pkg.Version, path)
	return nil
}

// sameFileAlreadyLoaded reports whether path's on-disk identity matches
// what was recorded the last time it was loaded, i.e. this event is a
// duplicate notification rather than a genuine content change.
func (l *Loader) sameFileAlreadyLoaded(path string) bool {
	prev, ok := l.seenIdentity[path]
	if !ok {
		return false
	}
	cur, err := statIdentity(path)
	if err != nil {
		return false
	}
	return cur == prev
}

func (l *Loader) removeFile(path string) {
	name, ok := l.pathToPackage[path]
	if !ok {
		return
	}
	delete(l.pathToPackage, path)
	l.db.DeletePackage(name)
	l.logf("deleted %s (descriptor %s removed)", name, path)
}
