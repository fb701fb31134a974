package linkdb

import "strings"

// CompareOp is the comparison operator of a dependency specifier.
type CompareOp string

const (
	OpNone CompareOp = ""
	OpEq   CompareOp = "="
	OpNe   CompareOp = "!="
	OpLt   CompareOp = "<"
	OpLe   CompareOp = "<="
	OpGt   CompareOp = ">"
	OpGe   CompareOp = ">="
)

// DependSpec is a parsed dependency specifier: a bare name, or a
// name/operator/version triple (e.g. "libfoo>=1.2").
type DependSpec struct {
	Name    string
	Op      CompareOp
	Version string
}

var depOps = []CompareOp{OpGe, OpLe, OpNe, OpEq, OpGt, OpLt}

// ParseDependSpec parses a dependency specifier of the form "name",
// "name=ver", "name!=ver", "name<ver", "name<=ver", "name>ver" or
// "name>=ver". Operators are tried longest-first so "<=" and ">=" are not
// mistaken for "<"/">".
func ParseDependSpec(s string) DependSpec {
	for _, op := range depOps {
		if idx := strings.Index(s, string(op)); idx >= 0 {
			return DependSpec{
				Name:    s[:idx],
				Op:      op,
				Version: s[idx+len(op):],
			}
		}
	}
	return DependSpec{Name: s}
}

// String renders the specifier back to its textual form.
func (d DependSpec) String() string {
	if d.Op == OpNone {
		return d.Name
	}
	return d.Name + string(d.Op) + d.Version
}

// Package is a named, versioned bundle of Objects plus the metadata lists
// consulted by the DependencyResolver and IntegrityChecker.
type Package struct {
	Name    string
	Version string

	Depends    []DependSpec
	OptDepends []DependSpec
	Replaces   []DependSpec
	Conflicts  []DependSpec
	Provides   []DependSpec

	Groups   map[string]struct{}
	Filelist []string

	Objects []*Object

	seq uint64 // insertion order in the owning Database
}

// NewPackage returns an empty Package ready to have Objects attached and
// metadata populated before being installed.
func NewPackage(name, version string) *Package {
	return &Package{
		Name:    name,
		Version: version,
		Groups:  make(map[string]struct{}),
	}
}

// AddObject attaches o to p, setting o's owner. Must be called before
// p is installed: Database.InstallPackage installs exactly the objects
// in p.Objects.
func (p *Package) AddObject(o *Object) {
	o.owner = p
	p.Objects = append(p.Objects, o)
}

// HasGroup reports whether p belongs to the named group.
func (p *Package) HasGroup(name string) bool {
	_, ok := p.Groups[name]
	return ok
}

// ProvidesNames returns the bare (version-stripped) names in Provides.
func (p *Package) ProvidesNames() []string {
	out := make([]string, len(p.Provides))
	for i, d := range p.Provides {
		out[i] = d.Name
	}
	return out
}

// ReplacesNames returns the bare (version-stripped) names in Replaces.
func (p *Package) ReplacesNames() []string {
	out := make([]string, len(p.Replaces))
	for i, d := range p.Replaces {
		out[i] = d.Name
	}
	return out
}
