// Package loader turns on-disk package descriptors and a running system's
// ld.so.cache into linkdb.Package/linkdb.Object values, and watches a
// directory of descriptors for changes so a long-running process can keep
// a linkdb.Database in sync without a restart.
package loader

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/apkglink/apkglink/linkdb"
)

// ObjectDescriptor is the on-disk JSON representation of one linkdb.Object.
type ObjectDescriptor struct {
	Dirname  string   `json:"dirname"`
	Basename string   `json:"basename"`
	Bits     int      `json:"bits"`
	BigEndi  bool     `json:"big_endian,omitempty"`
	OsABI    uint8    `json:"os_abi,omitempty"`
	Rpath    *string  `json:"rpath,omitempty"`
	Runpath  *string  `json:"runpath,omitempty"`
	Needed   []string `json:"needed,omitempty"`
}

// ToObject builds a linkdb.Object from its descriptor.
func (d ObjectDescriptor) ToObject() *linkdb.Object {
	order := linkdb.LittleEndian
	if d.BigEndi {
		order = linkdb.BigEndian
	}
	class := linkdb.ObjectClass{Bits: d.Bits, ByteOrder: order, OsABI: d.OsABI}
	o := linkdb.NewObject(d.Dirname, d.Basename, class)
	o.Needed = append([]string(nil), d.Needed...)
	if d.Rpath != nil {
		o.SetRpath(*d.Rpath)
	}
	if d.Runpath != nil {
		o.SetRunpath(*d.Runpath)
	}
	return o
}

// PackageDescriptor is the on-disk JSON representation of one
// linkdb.Package, as a loader would read it from a package's metadata
// file before installing it (spec.md §6's "loader" concern, generalized
// from the teacher's package metadata handling in apkgdb/package.go and
// apkgdb/meta.go).
type PackageDescriptor struct {
	Name    string `json:"name"`
	Version string `json:"version"`

	Depends    []string `json:"depends,omitempty"`
	OptDepends []string `json:"optdepends,omitempty"`
	Replaces   []string `json:"replaces,omitempty"`
	Conflicts  []string `json:"conflicts,omitempty"`
	Provides   []string `json:"provides,omitempty"`

	Groups   []string `json:"groups,omitempty"`
	Filelist []string `json:"filelist,omitempty"`

	Objects []ObjectDescriptor `json:"objects,omitempty"`
}

// ToPackage builds a linkdb.Package (with its Objects already attached)
// from its descriptor. baseDir, if non-empty, expands $ORIGIN/${ORIGIN}
// tokens in each object's rpath/runpath before attaching it.
func (d PackageDescriptor) ToPackage(baseDir string) *linkdb.Package {
	p := linkdb.NewPackage(d.Name, d.Version)
	p.Depends = parseSpecs(d.Depends)
	p.OptDepends = parseSpecs(d.OptDepends)
	p.Replaces = parseSpecs(d.Replaces)
	p.Conflicts = parseSpecs(d.Conflicts)
	p.Provides = parseSpecs(d.Provides)
	for _, g := range d.Groups {
		p.Groups[g] = struct{}{}
	}
	p.Filelist = append([]string(nil), d.Filelist...)

	for _, od := range d.Objects {
		o := od.ToObject()
		if baseDir != "" {
			o.SolvePaths(baseDir)
		}
		p.AddObject(o)
	}
	return p
}

func parseSpecs(raw []string) []linkdb.DependSpec {
	if raw == nil {
		return nil
	}
	out := make([]linkdb.DependSpec, len(raw))
	for i, s := range raw {
		out[i] = linkdb.ParseDependSpec(s)
	}
	return out
}

// DecodePackageDescriptor reads one JSON-encoded PackageDescriptor from r.
func DecodePackageDescriptor(r io.Reader) (PackageDescriptor, error) {
	var d PackageDescriptor
	dec := json.NewDecoder(r)
	if err := dec.Decode(&d); err != nil {
		return PackageDescriptor{}, fmt.Errorf("loader: decode package descriptor: %w", err)
	}
	return d, nil
}

// LoadPackageFile reads and decodes a PackageDescriptor from path,
// returning the linkdb.Package it describes, with $ORIGIN expanded to
// baseDir (see ToPackage). Loader passes path's containing directory.
func LoadPackageFile(path, baseDir string) (*linkdb.Package, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	d, err := DecodePackageDescriptor(f)
	if err != nil {
		return nil, err
	}
	return d.ToPackage(baseDir), nil
}
