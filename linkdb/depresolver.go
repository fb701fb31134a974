package linkdb

// DependencyResolver builds name→package and name→[package] indices over
// a Database's installed packages from their provides/replaces lists,
// and resolves a dependency specifier against them (spec.md §4.6).
// Grounded on potano-layercake's depend.Resolver (a resolver type wired
// to pluggable resolution callbacks, enrichment from the non-teacher
// pack) and on the provides/virtual-expansion idea sketched in
// ppphp-portago's dbapi (other_examples/, concept only).
type DependencyResolver struct {
	byName    map[string]*Package
	byReplace map[string][]aliasEntry
	byProvide map[string][]aliasEntry
	cmp       VersionComparator
}

type aliasEntry struct {
	pkg  *Package
	spec DependSpec
}

// NewDependencyResolver snapshots db's currently installed packages and
// builds the indices described above. Build once per integrity check
// (spec.md §4.6); the resolver does not track later install/delete calls.
func NewDependencyResolver(db *Database) *DependencyResolver {
	r := &DependencyResolver{
		byName:    make(map[string]*Package),
		byReplace: make(map[string][]aliasEntry),
		byProvide: make(map[string][]aliasEntry),
		cmp:       db.VersionComparator(),
	}
	for _, p := range db.Packages() {
		r.byName[p.Name] = p
		for _, spec := range p.Replaces {
			r.byReplace[spec.Name] = append(r.byReplace[spec.Name], aliasEntry{pkg: p, spec: spec})
		}
		for _, spec := range p.Provides {
			r.byProvide[spec.Name] = append(r.byProvide[spec.Name], aliasEntry{pkg: p, spec: spec})
		}
	}
	return r
}

// FindDepend resolves spec to a package, probing by_name, then
// by_replace, then by_provide, in that order. When the resolver has no
// version comparator, spec's version constraint is dropped first
// (name-only matching, per spec.md §6).
func (r *DependencyResolver) FindDepend(spec DependSpec) *Package {
	if r.cmp == nil {
		spec = DependSpec{Name: spec.Name}
	}

	if p, ok := r.byName[spec.Name]; ok {
		if spec.Op == OpNone || satDirect(spec.Op, r.cmp.Compare(p.Version, spec.Version)) {
			return p
		}
	}
	if entries, ok := r.byReplace[spec.Name]; ok {
		if p := r.matchAlias(entries, spec); p != nil {
			return p
		}
	}
	if entries, ok := r.byProvide[spec.Name]; ok {
		if p := r.matchAlias(entries, spec); p != nil {
			return p
		}
	}
	return nil
}

func (r *DependencyResolver) matchAlias(entries []aliasEntry, spec DependSpec) *Package {
	for _, e := range entries {
		if spec.Op == OpNone {
			return e.pkg
		}
		if versionSatisfiesProvide(spec.Op, spec.Version, e.spec.Op, e.spec.Version, r.cmp) {
			return e.pkg
		}
	}
	return nil
}
