package linkdb

import "fmt"

// MissingDepNotice records a dependency specifier that could not be
// resolved to any installed package while computing a closure.
type MissingDepNotice struct {
	Package string
	Dep     DependSpec
}

// ConflictNotice records a conflicts entry that resolved to a package
// other than the one being checked.
type ConflictNotice struct {
	Package string
	Spec    DependSpec
	Other   string
}

// UnpulledNeed records a shared-library need of an object in the focus
// package that no object owned by a package in its dependency closure
// provides.
type UnpulledNeed struct {
	Object *Object
	Need   string
}

// IntegrityReport is the IntegrityChecker's output for one focus package.
type IntegrityReport struct {
	Package       string
	MissingDeps   []MissingDepNotice
	Conflicts     []ConflictNotice
	UnpulledNeeds []UnpulledNeed
}

// Broken reports whether the report contains any finding at all.
func (r *IntegrityReport) Broken() bool {
	return len(r.MissingDeps) > 0 || len(r.Conflicts) > 0 || len(r.UnpulledNeeds) > 0
}

// IntegrityChecker computes, for a focus package, the transitive
// dependency closure rooted at the database's base_packages plus the
// focus package itself, and verifies every object's needed list is
// satisfied by some object owned by a package in that closure
// (spec.md §4.8). It is purely diagnostic and read-only with respect to
// the Database's Object/Package graph.
type IntegrityChecker struct {
	db      *Database
	showMsg bool
}

// NewIntegrityChecker returns a checker over db with missing-dependency
// reporting enabled.
func NewIntegrityChecker(db *Database) *IntegrityChecker {
	return &IntegrityChecker{db: db, showMsg: true}
}

// SetShowMsg toggles whether missing-dependency notices are recorded for
// the focus package (spec.md §4.8 step 1: "A missing resolution is
// reported when showmsg is on (only for the focus package)").
func (c *IntegrityChecker) SetShowMsg(v bool) {
	c.showMsg = v
}

// Check runs the integrity pass for the named focus package.
func (c *IntegrityChecker) Check(focusName string) (*IntegrityReport, error) {
	focus, ok := c.db.Package(focusName)
	if !ok {
		return nil, fmt.Errorf("linkdb: unknown package %q", focusName)
	}

	resolver := NewDependencyResolver(c.db)
	report := &IntegrityReport{Package: focusName}

	installMap := make(map[string]*Package)
	closure := make(map[string]*Package)
	var closureOrder []string

	var worklist []*Package
	for _, rootName := range c.db.BasePackages() {
		if p, ok := c.db.Package(rootName); ok {
			worklist = append(worklist, p)
		}
	}
	worklist = append(worklist, focus)

	for len(worklist) > 0 {
		p := worklist[0]
		worklist = worklist[1:]
		if _, done := closure[p.Name]; done {
			continue
		}
		closure[p.Name] = p
		closureOrder = append(closureOrder, p.Name)

		installMap[p.Name] = p
		for _, spec := range p.Provides {
			installMap[spec.Name] = p
		}
		for _, spec := range p.Replaces {
			installMap[spec.Name] = p
		}

		deps := make([]DependSpec, 0, len(p.Depends)+len(p.OptDepends))
		deps = append(deps, p.Depends...)
		deps = append(deps, p.OptDepends...)

		for _, dep := range deps {
			target := resolver.FindDepend(dep)
			if target == nil {
				if c.showMsg && p.Name == focusName {
					report.MissingDeps = append(report.MissingDeps, MissingDepNotice{Package: p.Name, Dep: dep})
				}
				continue
			}
			if _, already := closure[target.Name]; !already {
				worklist = append(worklist, target)
			}
		}
	}

	for _, name := range closureOrder {
		p := closure[name]
		for _, spec := range p.Conflicts {
			other := resolveAgainstMap(installMap, spec, resolver.cmp)
			if other != nil && other.Name != focusName {
				report.Conflicts = append(report.Conflicts, ConflictNotice{Package: p.Name, Spec: spec, Other: other.Name})
			}
		}
	}

	objmap := make(map[string][]*Object)
	for _, o := range c.db.objects {
		if o.owner == nil || c.db.packagesByName[o.owner.Name] != o.owner {
			c.db.logf("linkdb: %v: object %s is not owned by an installed package", ErrInvariantViolation, o.Path())
			continue
		}
		objmap[o.Basename] = append(objmap[o.Basename], o)
	}

	for _, o := range focus.Objects {
		if _, ignored := c.db.ignoreFileRules[o.Path()]; ignored {
			continue
		}
		for _, n := range o.Needed {
			if needSatisfiedByClosure(objmap[n], closure) {
				continue
			}
			report.UnpulledNeeds = append(report.UnpulledNeeds, UnpulledNeed{Object: o, Need: n})
		}
	}

	return report, nil
}

func needSatisfiedByClosure(candidates []*Object, closure map[string]*Package) bool {
	for _, cand := range candidates {
		if cand.owner == nil {
			continue
		}
		if _, ok := closure[cand.owner.Name]; ok {
			return true
		}
	}
	return false
}

// resolveAgainstMap resolves a conflicts-list specifier against the
// install_map built while walking the closure: a bare name match, or a
// versioned match against the aliased package's own version.
func resolveAgainstMap(m map[string]*Package, spec DependSpec, cmp VersionComparator) *Package {
	p, ok := m[spec.Name]
	if !ok {
		return nil
	}
	if cmp == nil || spec.Op == OpNone {
		return p
	}
	if satDirect(spec.Op, cmp.Compare(p.Version, spec.Version)) {
		return p
	}
	return nil
}
