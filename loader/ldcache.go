package loader

import (
	"github.com/KarpelesLab/ldcache"

	"github.com/apkglink/apkglink/linkdb"
)

// SeedFromLdCache reads the ld.so.cache-format file at path (spec.md §6's
// ambient seeding concern) and installs a synthetic "system" package whose
// objects are every library the cache knows about, so names resolvable
// through the platform's own dynamic linker show up as resolvable in the
// database too, without requiring every system library to carry its own
// descriptor. Every seeded object is given class, since the cache does
// not record an ELF identity.
func (l *Loader) SeedFromLdCache(path string, class linkdb.ObjectClass) (int, error) {
	file, err := ldcache.Open(path)
	if err != nil {
		return 0, err
	}

	pkg := linkdb.NewPackage("system", "ld.so.cache")
	for _, e := range file.Entries {
		o := linkdb.NewObject(dirOf(e.Value), e.Key, class)
		pkg.AddObject(o)
	}

	if !l.db.InstallPackage(pkg) {
		return 0, linkdb.ErrInvalidPackage
	}
	l.logf("seeded %d objects from %s", len(pkg.Objects), path)
	return len(pkg.Objects), nil
}

func dirOf(path string) string {
	i := len(path) - 1
	for i >= 0 && path[i] != '/' {
		i--
	}
	if i < 0 {
		return "."
	}
	if i == 0 {
		return "/"
	}
	return path[:i]
}
