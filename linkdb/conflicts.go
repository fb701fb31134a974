package linkdb

import "golang.org/x/crypto/blake2b"

// FileConflict reports a file path claimed by two or more packages with
// no declared conflicts/provides relation between them.
type FileConflict struct {
	Path     string
	Packages []string
}

// FileConflictDetector finds file-path conflicts between installed
// packages (spec.md §4.10).
type FileConflictDetector struct {
	db *Database
}

// NewFileConflictDetector returns a detector over db.
func NewFileConflictDetector(db *Database) *FileConflictDetector {
	return &FileConflictDetector{db: db}
}

type fileBucket struct {
	path     string
	packages []*Package
}

// Detect builds a file→packages map over every installed package's
// filelist and reports each file whose owners, after excluding every
// package whose conflicts list matches another owner of the same file (by
// name or by a provided name), still number two or more.
// Bucket keys are blake2b-256 hashes of the path rather than the path
// string itself, since filelists on a populated database can run into
// the hundreds of thousands of entries.
func (c *FileConflictDetector) Detect() []FileConflict {
	cmp := c.db.VersionComparator()
	packages := c.db.Packages()

	buckets := make(map[[32]byte]*fileBucket)
	var order [][32]byte

	for _, p := range packages {
		for _, f := range p.Filelist {
			key := blake2b.Sum256([]byte(f))
			b, ok := buckets[key]
			if !ok {
				b = &fileBucket{path: f}
				buckets[key] = b
				order = append(order, key)
			}
			b.packages = append(b.packages, p)
		}
	}

	var out []FileConflict
	for _, key := range order {
		b := buckets[key]
		if len(b.packages) < 2 {
			continue
		}
		real := filterRealConflicts(b.packages, cmp)
		if len(real) < 2 {
			continue
		}
		names := make([]string, len(real))
		for i, p := range real {
			names[i] = p.Name
		}
		out = append(out, FileConflict{Path: b.path, Packages: names})
	}
	return out
}

// filterRealConflicts excludes from pkgs any package that declares a
// conflicts relation with another package in the same bucket. The package
// named by that relation is not excluded on that account.
func filterRealConflicts(pkgs []*Package, cmp VersionComparator) []*Package {
	var out []*Package
	for _, a := range pkgs {
		excluded := false
		for _, b := range pkgs {
			if a == b {
				continue
			}
			if conflictsWith(a, b, cmp) {
				excluded = true
				break
			}
		}
		if !excluded {
			out = append(out, a)
		}
	}
	return out
}

// conflictsWith reports whether any specifier in a.Conflicts resolves to
// b itself or to a name in b.Provides.
func conflictsWith(a, b *Package, cmp VersionComparator) bool {
	for _, spec := range a.Conflicts {
		if conflictMatchesPackage(spec, b, cmp) {
			return true
		}
	}
	return false
}

// conflictMatchesPackage mirrors DependencyResolver.FindDepend's
// name-only degradation (depresolver.go) when the database has no
// version comparator: spec's version constraint is dropped first, so
// the name-only match below still reaches p.Provides.
func conflictMatchesPackage(spec DependSpec, p *Package, cmp VersionComparator) bool {
	if cmp == nil {
		spec = DependSpec{Name: spec.Name}
	}
	if spec.Name == p.Name {
		if spec.Op == OpNone || satDirect(spec.Op, cmp.Compare(p.Version, spec.Version)) {
			return true
		}
	}
	for _, pv := range p.Provides {
		if pv.Name != spec.Name {
			continue
		}
		if spec.Op == OpNone || versionSatisfiesProvide(spec.Op, spec.Version, pv.Op, pv.Version, cmp) {
			return true
		}
	}
	return false
}
