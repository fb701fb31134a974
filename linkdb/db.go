// Package linkdb implements the link-resolution engine, package-integrity
// checker and parallel relinker described by the system specification: an
// in-memory database of installed packages and the binary objects they
// contain, tracking for every object which of its declared shared-library
// needs can be resolved against some other object in the database.
package linkdb

import (
	"log"
	"sync"

	"github.com/petar/GoLLRB/llrb"
)

// CurrentVersion is the schema/format version tag a persistence layer may
// use to gate migrations (spec.md §6); the core never interprets it.
const CurrentVersion = "1"

// logSink is the minimal logging surface the core depends on (spec.md
// §6's "a log(level, message) sink"). *log.Logger satisfies it, so
// callers never need to wrap the standard logger just to hand it to a
// Database.
type logSink interface {
	Printf(format string, v ...interface{})
}

// Database owns every installed Package and a flat index of the Objects
// they contain. All mutating operations (InstallPackage, DeletePackage,
// the Ld*/PkgLd*/rule-set editors, Relink) require exclusive access and
// must not be called concurrently with each other or with a relink pass;
// read-only queries tolerate concurrent callers against a quiescent
// database (spec.md §5).
type Database struct {
	mu sync.RWMutex

	packages       []*Package
	packagesByName map[string]*Package

	objects  []*Object
	objIndex *llrb.LLRB

	libraryPath        []string
	packageLibraryPath map[string][]string

	ignoreFileRules  map[string]struct{}
	ignoreFileOrder  []string
	assumeFoundRules map[string]struct{}
	assumeFoundOrder []string
	basePackages     map[string]struct{}
	basePackageOrder []string

	strictLinking bool
	versionCmp    VersionComparator
	logger        logSink

	loadedVersion string
	nextSeq       uint64

	// cached summary booleans, set on install and never cleared on
	// delete (spec.md §9's open question): hints only, never consulted
	// by IntegrityChecker or Relinker for correctness.
	containsPackageDepends bool
	containsGroups         bool
	containsFilelists      bool
}

// NewDatabase returns an empty Database. strict selects strict-linking
// class compatibility (spec.md §3); cmp may be nil, in which case
// version constraints on dependency specifiers are ignored everywhere
// (name-only matching, per spec.md §6).
func NewDatabase(strict bool, cmp VersionComparator) *Database {
	return &Database{
		packagesByName:     make(map[string]*Package),
		objIndex:           llrb.New(),
		packageLibraryPath: make(map[string][]string),
		ignoreFileRules:    make(map[string]struct{}),
		assumeFoundRules:   make(map[string]struct{}),
		basePackages:       make(map[string]struct{}),
		strictLinking:      strict,
		versionCmp:         cmp,
		logger:             log.Default(),
		loadedVersion:      CurrentVersion,
	}
}

// SetLogger replaces the database's log sink.
func (d *Database) SetLogger(l logSink) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.logger = l
}

func (d *Database) logf(format string, v ...interface{}) {
	if d.logger != nil {
		d.logger.Printf(format, v...)
	}
}

// VersionComparator returns the database's version comparator, or nil if
// version constraints are disabled.
func (d *Database) VersionComparator() VersionComparator {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.versionCmp
}

// StrictLinking reports whether strict class compatibility is in effect.
func (d *Database) StrictLinking() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.strictLinking
}

// LoadedVersion returns the database's version tag.
func (d *Database) LoadedVersion() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.loadedVersion
}

// SetLoadedVersion sets the database's version tag; the core itself
// never inspects its value (spec.md §6).
func (d *Database) SetLoadedVersion(v string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.loadedVersion = v
}

// ContainsPackageDepends, ContainsGroups and ContainsFilelists report the
// cached summary hints described in spec.md §9: true once any installed
// package has populated the corresponding field, never reset on delete.
func (d *Database) ContainsPackageDepends() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.containsPackageDepends
}

func (d *Database) ContainsGroups() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.containsGroups
}

func (d *Database) ContainsFilelists() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.containsFilelists
}

// Packages returns a snapshot of installed packages in insertion order.
func (d *Database) Packages() []*Package {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*Package, len(d.packages))
	copy(out, d.packages)
	return out
}

// Package looks up an installed package by name.
func (d *Database) Package(name string) (*Package, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.packagesByName[name]
	return p, ok
}

// Objects returns a snapshot of every installed object in insertion order.
func (d *Database) Objects() []*Object {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*Object, len(d.objects))
	copy(out, d.objects)
	return out
}

// BrokenObjects returns every installed object with a non-empty missing
// set.
func (d *Database) BrokenObjects() []*Object {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []*Object
	for _, o := range d.objects {
		if o.IsBroken() {
			out = append(out, o)
		}
	}
	return out
}

// BrokenPackages returns every installed package owning at least one
// broken object.
func (d *Database) BrokenPackages() []*Package {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []*Package
	for _, p := range d.packages {
		for _, o := range p.Objects {
			if o.IsBroken() {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// InstallPackage installs pkg, per spec.md §4.2: any existing package of
// the same name is replaced first (idempotent), then pkg's objects are
// linked against the database (including pkg's own objects), and finally
// every pre-existing object that was missing something pkg now supplies
// is patched in place. Returns false only when pkg.Name is empty.
func (d *Database) InstallPackage(pkg *Package) bool {
	if pkg.Name == "" {
		d.logf("linkdb: install rejected: %v", ErrInvalidPackage)
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.deletePackageLocked(pkg.Name)

	preExisting := make([]*Object, len(d.objects))
	copy(preExisting, d.objects)

	pkg.seq = d.nextSeq
	d.nextSeq++
	d.packages = append(d.packages, pkg)
	d.packagesByName[pkg.Name] = pkg
	d.updateSummaryLocked(pkg)

	for _, o := range pkg.Objects {
		o.owner = pkg
		o.seq = d.nextSeq
		d.nextSeq++
		d.objects = append(d.objects, o)
		d.objIndex.ReplaceOrInsert(&objIndexItem{basename: o.Basename, seq: o.seq, obj: o})
	}

	for _, o := range pkg.Objects {
		d.linkObjectLocked(o)
	}

	// reverse-fix: patch pre-existing seekers whose missing dependency
	// this package's objects can now satisfy. Per spec.md §4.2 step 5
	// the visibility check uses the *newly installed* package's own
	// additional library paths, not the seeker's.
	extra := d.packageLibraryPath[pkg.Name]
	for _, seeker := range preExisting {
		for _, o := range pkg.Objects {
			if _, stillMissing := seeker.missing[o.Basename]; !stillMissing {
				continue
			}
			if !seeker.Class.Compatible(o.Class, d.strictLinking) {
				continue
			}
			if !d.visible(seeker, o.Dirname, extra) {
				continue
			}
			delete(seeker.missing, o.Basename)
			seeker.found[o.Basename] = o
		}
	}

	d.logf("linkdb: installed package %s (%d objects)", pkg.Name, len(pkg.Objects))
	return true
}

// DeletePackage removes the named package, per spec.md §4.3. Deleting an
// absent package is a no-op success.
func (d *Database) DeletePackage(name string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.deletePackageLocked(name)
}

func (d *Database) deletePackageLocked(name string) bool {
	pkg, ok := d.packagesByName[name]
	if !ok {
		return true
	}

	delete(d.packagesByName, name)
	d.packages = removePackage(d.packages, pkg)

	removedSet := make(map[*Object]struct{}, len(pkg.Objects))
	for _, o := range pkg.Objects {
		removedSet[o] = struct{}{}
	}
	for _, o := range pkg.Objects {
		d.objects = removeObject(d.objects, o)
		d.objIndex.Delete(&objIndexItem{basename: o.Basename, seq: o.seq})
	}

	for _, seeker := range d.objects {
		for o := range removedSet {
			resolved, ok := seeker.found[o.Basename]
			if !ok || resolved != o {
				continue
			}
			delete(seeker.found, o.Basename)

			extra := d.packageLibraryPath[seeker.owner.Name]
			if cand := d.findFor(seeker, o.Basename, extra); cand != nil {
				seeker.found[o.Basename] = cand
				continue
			}
			if _, assumed := d.assumeFoundRules[o.Basename]; !assumed {
				seeker.missing[o.Basename] = struct{}{}
			}
		}
	}

	if len(d.packageLibraryPath[name]) == 0 {
		delete(d.packageLibraryPath, name)
	}

	for _, o := range pkg.Objects {
		o.owner = nil
	}

	d.logf("linkdb: deleted package %s", name)
	return true
}

// linkObjectLocked implements spec.md §4.4, recomputing o's found/missing
// sets from scratch against the current database state. Callers must
// hold d.mu for writing.
func (d *Database) linkObjectLocked(o *Object) {
	found, missing := d.computeResolution(o)
	o.found = found
	o.missing = missing
}

func (d *Database) updateSummaryLocked(pkg *Package) {
	if len(pkg.Depends) > 0 || len(pkg.OptDepends) > 0 {
		d.containsPackageDepends = true
	}
	if len(pkg.Groups) > 0 {
		d.containsGroups = true
	}
	if len(pkg.Filelist) > 0 {
		d.containsFilelists = true
	}
}

func removePackage(list []*Package, p *Package) []*Package {
	for i, v := range list {
		if v == p {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}

func removeObject(list []*Object, o *Object) []*Object {
	for i, v := range list {
		if v == o {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}
