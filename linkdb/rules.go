package linkdb

// This file implements the path-list and rule-set editors of spec.md
// §4.5 and §9: global and per-package library_path, ignore_file_rules,
// assume_found_rules and base_packages. Rule sets are semantic (an
// unordered membership test) but keep an insertion-ordered view so a
// CLI-style "delete by index" can be implemented against a stable
// index-to-element mapping, per spec.md §9's design note.

// LibraryPath returns a snapshot of the database's global additional
// search paths, in order.
func (d *Database) LibraryPath() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, len(d.libraryPath))
	copy(out, d.libraryPath)
	return out
}

// LdAppend appends dir to the global library_path.
func (d *Database) LdAppend(dir string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.libraryPath = ldAppend(d.libraryPath, dir)
}

// LdPrepend prepends dir to the global library_path.
func (d *Database) LdPrepend(dir string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.libraryPath = ldPrepend(d.libraryPath, dir)
}

// LdInsert inserts dir at index i in the global library_path, moving an
// existing equal entry rather than duplicating it.
func (d *Database) LdInsert(i int, dir string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.libraryPath = ldInsert(d.libraryPath, i, dir)
}

// LdDeleteAt removes the global library_path entry at index i.
func (d *Database) LdDeleteAt(i int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.libraryPath = ldDeleteAt(d.libraryPath, i)
}

// LdDelete removes dir from the global library_path, if present.
func (d *Database) LdDelete(dir string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.libraryPath = ldDeleteDir(d.libraryPath, dir)
}

// PackageLibraryPath returns a snapshot of the named package's additional
// search paths, in order. Returns nil if the package has none.
func (d *Database) PackageLibraryPath(pkgName string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	list := d.packageLibraryPath[pkgName]
	if list == nil {
		return nil
	}
	out := make([]string, len(list))
	copy(out, list)
	return out
}

// PkgLdAppend appends dir to pkgName's additional search paths,
// allocating the entry lazily.
func (d *Database) PkgLdAppend(pkgName, dir string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.packageLibraryPath[pkgName] = ldAppend(d.packageLibraryPath[pkgName], dir)
}

// PkgLdPrepend prepends dir to pkgName's additional search paths.
func (d *Database) PkgLdPrepend(pkgName, dir string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.packageLibraryPath[pkgName] = ldPrepend(d.packageLibraryPath[pkgName], dir)
}

// PkgLdInsert inserts dir at index i in pkgName's additional search paths.
func (d *Database) PkgLdInsert(pkgName string, i int, dir string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.packageLibraryPath[pkgName] = ldInsert(d.packageLibraryPath[pkgName], i, dir)
	d.pruneEmptyPkgLdLocked(pkgName)
}

// PkgLdDeleteAt removes the entry at index i from pkgName's additional
// search paths, pruning the package's map entry if it becomes empty.
func (d *Database) PkgLdDeleteAt(pkgName string, i int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.packageLibraryPath[pkgName] = ldDeleteAt(d.packageLibraryPath[pkgName], i)
	d.pruneEmptyPkgLdLocked(pkgName)
}

// PkgLdDelete removes dir from pkgName's additional search paths,
// pruning the package's map entry if it becomes empty.
func (d *Database) PkgLdDelete(pkgName, dir string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.packageLibraryPath[pkgName] = ldDeleteDir(d.packageLibraryPath[pkgName], dir)
	d.pruneEmptyPkgLdLocked(pkgName)
}

func (d *Database) pruneEmptyPkgLdLocked(pkgName string) {
	if len(d.packageLibraryPath[pkgName]) == 0 {
		delete(d.packageLibraryPath, pkgName)
	}
}

// AddIgnoreFile adds an absolute, normalized path to the ignore-file
// rule set: objects at that path are never linked.
func (d *Database) AddIgnoreFile(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	path = normalize(path)
	if _, ok := d.ignoreFileRules[path]; ok {
		return
	}
	d.ignoreFileRules[path] = struct{}{}
	d.ignoreFileOrder = append(d.ignoreFileOrder, path)
}

// RemoveIgnoreFile removes path from the ignore-file rule set.
func (d *Database) RemoveIgnoreFile(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	path = normalize(path)
	if _, ok := d.ignoreFileRules[path]; !ok {
		return
	}
	delete(d.ignoreFileRules, path)
	d.ignoreFileOrder = removeString(d.ignoreFileOrder, path)
}

// IgnoreFiles returns the ignore-file rule set's stable index-to-element
// view, in the order entries were added.
func (d *Database) IgnoreFiles() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, len(d.ignoreFileOrder))
	copy(out, d.ignoreFileOrder)
	return out
}

// AddAssumeFound adds basename to the assume-found allowlist: a need of
// that name is considered satisfied without a resolving object.
func (d *Database) AddAssumeFound(basename string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.assumeFoundRules[basename]; ok {
		return
	}
	d.assumeFoundRules[basename] = struct{}{}
	d.assumeFoundOrder = append(d.assumeFoundOrder, basename)
}

// RemoveAssumeFound removes basename from the assume-found allowlist.
func (d *Database) RemoveAssumeFound(basename string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.assumeFoundRules[basename]; !ok {
		return
	}
	delete(d.assumeFoundRules, basename)
	d.assumeFoundOrder = removeString(d.assumeFoundOrder, basename)
}

// AssumeFound returns the assume-found allowlist's stable index-to-element
// view.
func (d *Database) AssumeFound() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, len(d.assumeFoundOrder))
	copy(out, d.assumeFoundOrder)
	return out
}

// AddBasePackage adds name to the integrity-check root set.
func (d *Database) AddBasePackage(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.basePackages[name]; ok {
		return
	}
	d.basePackages[name] = struct{}{}
	d.basePackageOrder = append(d.basePackageOrder, name)
}

// RemoveBasePackage removes name from the integrity-check root set.
func (d *Database) RemoveBasePackage(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.basePackages[name]; !ok {
		return
	}
	delete(d.basePackages, name)
	d.basePackageOrder = removeString(d.basePackageOrder, name)
}

// BasePackages returns the integrity-check root set's stable
// index-to-element view.
func (d *Database) BasePackages() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, len(d.basePackageOrder))
	copy(out, d.basePackageOrder)
	return out
}

func removeString(list []string, s string) []string {
	for i, v := range list {
		if v == s {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}
