package linkdb

import "github.com/petar/GoLLRB/llrb"

// objIndexItem is the Database's secondary index entry over objects,
// ordered by (basename, seq). Grouping by basename with ascending seq
// inside each group lets findFor walk candidates for a given name in
// insertion order without scanning the whole object list, while the
// insertion-ordered db.objects slice stays the single source of truth
// for identity and removal. Mirrors apkgdb.DB's use of an LLRB tree
// (apkgdb/package.go, apkgdb/lookup.go) as a lookup index layered over
// an authoritative store.
type objIndexItem struct {
	basename string
	seq      uint64
	obj      *Object
}

func (i *objIndexItem) Less(than llrb.Item) bool {
	o := than.(*objIndexItem)
	if i.basename != o.basename {
		return i.basename < o.basename
	}
	return i.seq < o.seq
}

// findFor is the LinkResolver operation of spec.md §4.1: scan candidates
// sharing neededName's basename, in insertion order, and return the first
// one compatible with and visible to requesting. extra is the caller's
// additional search-path list (package_library_path of whichever package
// the spec names for the call site).
func (d *Database) findFor(requesting *Object, neededName string, extra []string) *Object {
	var result *Object
	pivot := &objIndexItem{basename: neededName}
	d.objIndex.AscendGreaterOrEqual(pivot, func(item llrb.Item) bool {
		cand := item.(*objIndexItem)
		if cand.basename != neededName {
			return false
		}
		L := cand.obj
		if !requesting.Class.Compatible(L.Class, d.strictLinking) {
			return true
		}
		if !d.visible(requesting, L.Dirname, extra) {
			return true
		}
		result = L
		return false
	})
	return result
}

// visible implements spec.md §4.1's search-path rule, in the order
// given there: rpath, then runpath, then trusted paths, then the
// database's global library_path, then the caller-supplied extra paths.
func (d *Database) visible(o *Object, dir string, extra []string) bool {
	if o.HasRpath && containsNormalizedPath(o.Rpath, dir) {
		return true
	}
	if o.HasRunpath && containsNormalizedPath(o.Runpath, dir) {
		return true
	}
	if containsPath(TrustedPaths, dir) {
		return true
	}
	if containsPath(d.libraryPath, dir) {
		return true
	}
	if extra != nil && containsPath(extra, dir) {
		return true
	}
	return false
}

// containsNormalizedPath splits a raw colon-delimited rpath/runpath
// string and checks membership after normalizing each component, since
// spec.md §4.5 requires normalized comparison.
func containsNormalizedPath(colonList, dir string) bool {
	for _, p := range ColonSplit(colonList) {
		if normalize(p) == dir {
			return true
		}
	}
	return false
}
