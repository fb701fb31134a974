package loader

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestPackageDescriptorToPackage(t *testing.T) {
	raw := `{
		"name": "app",
		"version": "1.0",
		"depends": ["libfoo-pkg>=1.0"],
		"provides": ["virtual-app"],
		"groups": ["base"],
		"filelist": ["/usr/bin/app"],
		"objects": [
			{"dirname": "/usr/bin", "basename": "app", "bits": 64, "needed": ["libA.so"], "rpath": "$ORIGIN/../lib"}
		]
	}`

	d, err := DecodePackageDescriptor(strings.NewReader(raw))
	if err != nil {
		t.Fatal(err)
	}

	pkg := d.ToPackage("/usr/bin")
	if pkg.Name != "app" || pkg.Version != "1.0" {
		t.Fatalf("unexpected package: %+v", pkg)
	}
	if len(pkg.Depends) != 1 || pkg.Depends[0].Name != "libfoo-pkg" {
		t.Errorf("unexpected depends: %v", pkg.Depends)
	}
	if !pkg.HasGroup("base") {
		t.Error("expected base group")
	}
	if len(pkg.Objects) != 1 {
		t.Fatalf("expected one object, got %d", len(pkg.Objects))
	}
	o := pkg.Objects[0]
	if o.Basename != "app" || o.Dirname != "/usr/bin" {
		t.Errorf("unexpected object identity: %+v", o)
	}
	if !o.HasRpath || o.Rpath != "/usr/bin/../lib" {
		t.Errorf("expected $ORIGIN expansion, got rpath=%q", o.Rpath)
	}
	if len(o.Needed) != 1 || o.Needed[0] != "libA.so" {
		t.Errorf("unexpected needed: %v", o.Needed)
	}
}

func TestObjectDescriptorBigEndian(t *testing.T) {
	var d ObjectDescriptor
	if err := json.Unmarshal([]byte(`{"dirname":"/lib","basename":"libfoo.so","bits":32,"big_endian":true}`), &d); err != nil {
		t.Fatal(err)
	}
	o := d.ToObject()
	if o.Class.ByteOrder.String() != "big" {
		t.Errorf("expected big-endian class, got %s", o.Class.ByteOrder)
	}
	if o.Class.Bits != 32 {
		t.Errorf("expected 32-bit class, got %d", o.Class.Bits)
	}
}
