package linkdb

import "strings"

// Object is a single ELF-like binary belonging to a Package. Identity is
// the pair (Dirname, Basename); Dirname must be absolute and normalized
// (see pathlist.go's Normalize) before the Object is installed.
//
// Rpath and Runpath are colon-delimited path strings; HasRpath/HasRunpath
// distinguish "absent" from "present but empty", since an empty rpath is
// a legal (if useless) value recorded by some linkers.
//
// Needed is the ordered, duplicate-preserving list of declared library
// names. found/missing (read via Found/Missing) are the live
// resolution state maintained by Database; callers must not mutate an
// installed Object's static fields.
type Object struct {
	Dirname string
	Basename string

	Class ObjectClass

	Rpath    string
	HasRpath bool

	Runpath    string
	HasRunpath bool

	Needed []string

	owner *Package

	found   map[string]*Object  // basename -> resolving Object
	missing map[string]struct{} // unresolved basenames

	seq uint64 // insertion sequence, assigned when installed
}

// NewObject returns an Object with the given identity; Needed, rpath and
// runpath are populated by the caller before attaching it to a Package.
func NewObject(dirname, basename string, class ObjectClass) *Object {
	return &Object{
		Dirname:  normalize(dirname),
		Basename: basename,
		Class:    class,
	}
}

// SetRpath records a present rpath value (possibly empty).
func (o *Object) SetRpath(v string) {
	o.Rpath = v
	o.HasRpath = true
}

// SetRunpath records a present runpath value (possibly empty).
func (o *Object) SetRunpath(v string) {
	o.Runpath = v
	o.HasRunpath = true
}

// Owner returns the Package that owns this Object, or nil if the Object
// is stale (never installed, or its Package has since been deleted).
func (o *Object) Owner() *Package {
	return o.owner
}

// Path returns the full path of the object ("{Dirname}/{Basename}").
func (o *Object) Path() string {
	if o.Dirname == "/" {
		return "/" + o.Basename
	}
	return o.Dirname + "/" + o.Basename
}

// Found returns a snapshot of the object's resolved dependencies, keyed
// by the basename they satisfy.
func (o *Object) Found() map[string]*Object {
	out := make(map[string]*Object, len(o.found))
	for k, v := range o.found {
		out[k] = v
	}
	return out
}

// Missing returns a snapshot of the object's unresolved basenames.
func (o *Object) Missing() []string {
	out := make([]string, 0, len(o.missing))
	for k := range o.missing {
		out = append(out, k)
	}
	return out
}

// IsBroken reports whether this object has any unresolved dependency.
func (o *Object) IsBroken() bool {
	return len(o.missing) > 0
}

// SolvePaths expands $ORIGIN and ${ORIGIN} tokens in rpath/runpath using
// baseDir, per spec.md §6. It should be called by a loader before the
// Object is installed.
func (o *Object) SolvePaths(baseDir string) {
	if o.HasRpath {
		o.Rpath = expandOrigin(o.Rpath, baseDir)
	}
	if o.HasRunpath {
		o.Runpath = expandOrigin(o.Runpath, baseDir)
	}
}

func expandOrigin(v, baseDir string) string {
	v = strings.ReplaceAll(v, "${ORIGIN}", baseDir)
	v = strings.ReplaceAll(v, "$ORIGIN", baseDir)
	return v
}
