package linkdb

import "testing"

func mkClass() ObjectClass {
	return ObjectClass{Bits: 64, ByteOrder: LittleEndian, OsABI: 0}
}

func mkClass32() ObjectClass {
	return ObjectClass{Bits: 32, ByteOrder: LittleEndian, OsABI: 0}
}

// scenario 1: self-resolving package.
func TestInstallSelfResolving(t *testing.T) {
	db := NewDatabase(true, nil)

	p := NewPackage("P", "1.0")
	libA := NewObject("/usr/lib", "libA.so", mkClass())
	app := NewObject("/usr/bin", "app", mkClass())
	app.Needed = []string{"libA.so"}
	app.SetRpath("/usr/lib")
	p.AddObject(libA)
	p.AddObject(app)

	if !db.InstallPackage(p) {
		t.Fatal("install failed")
	}

	if len(app.missing) != 0 {
		t.Errorf("expected no missing deps, got %v", app.Missing())
	}
	if got := app.found["libA.so"]; got != libA {
		t.Errorf("expected app to resolve libA.so to libA, got %v", got)
	}

	if !db.DeletePackage("P") {
		t.Fatal("delete failed")
	}
	if len(db.Objects()) != 0 {
		t.Errorf("expected no objects after delete, got %d", len(db.Objects()))
	}
}

// scenario 2: cross-package resolution, then delete dependency.
func TestInstallCrossPackage(t *testing.T) {
	db := NewDatabase(true, nil)
	db.LdAppend("/usr/lib")

	p := NewPackage("P", "1.0")
	libA := NewObject("/usr/lib", "libA.so", mkClass())
	p.AddObject(libA)
	if !db.InstallPackage(p) {
		t.Fatal("install P failed")
	}

	q := NewPackage("Q", "1.0")
	app := NewObject("/usr/bin", "app", mkClass())
	app.Needed = []string{"libA.so"}
	q.AddObject(app)
	if !db.InstallPackage(q) {
		t.Fatal("install Q failed")
	}

	if got := app.found["libA.so"]; got != libA {
		t.Fatalf("expected app to resolve libA.so, got %v", got)
	}

	if !db.DeletePackage("P") {
		t.Fatal("delete P failed")
	}

	if len(app.found) != 0 {
		t.Errorf("expected app.found empty after P deleted, got %v", app.Found())
	}
	if _, missing := app.missing["libA.so"]; !missing {
		t.Errorf("expected libA.so to be missing after P deleted")
	}
}

// scenario 3: class mismatch.
func TestClassMismatch(t *testing.T) {
	db := NewDatabase(true, nil)
	db.LdAppend("/usr/lib")

	p := NewPackage("P", "1.0")
	libA := NewObject("/usr/lib", "libA.so", mkClass()) // 64-bit
	p.AddObject(libA)
	db.InstallPackage(p)

	q := NewPackage("Q", "1.0")
	app := NewObject("/usr/bin", "app", mkClass32()) // 32-bit
	app.Needed = []string{"libA.so"}
	q.AddObject(app)
	db.InstallPackage(q)

	if len(app.found) != 0 {
		t.Errorf("expected no found entries across class mismatch, got %v", app.Found())
	}
	if _, missing := app.missing["libA.so"]; !missing {
		t.Errorf("expected libA.so missing due to class mismatch")
	}
}

// scenario 4: assume-found allowlist.
func TestAssumeFound(t *testing.T) {
	db := NewDatabase(true, nil)
	db.LdAppend("/usr/lib")
	db.AddAssumeFound("libA.so")

	p := NewPackage("P", "1.0")
	libA := NewObject("/usr/lib", "libA.so", mkClass())
	p.AddObject(libA)
	db.InstallPackage(p)

	q := NewPackage("Q", "1.0")
	app := NewObject("/usr/bin", "app", mkClass32())
	app.Needed = []string{"libA.so"}
	q.AddObject(app)
	db.InstallPackage(q)

	if len(app.missing) != 0 {
		t.Errorf("expected no missing entries, got %v", app.Missing())
	}
	if len(app.found) != 0 {
		t.Errorf("expected no found entries, got %v", app.Found())
	}
}

// scenario 5: trusted path.
func TestTrustedPath(t *testing.T) {
	db := NewDatabase(true, nil)

	p := NewPackage("P", "1.0")
	libA := NewObject("/usr/lib", "libA.so", mkClass())
	app := NewObject("/usr/bin", "app", mkClass())
	app.Needed = []string{"libA.so"}
	p.AddObject(libA)
	p.AddObject(app)
	db.InstallPackage(p)

	if got := app.found["libA.so"]; got != libA {
		t.Errorf("expected trusted-path resolution, got %v", got)
	}
}

// I5: idempotent re-install.
func TestInstallIdempotent(t *testing.T) {
	db := NewDatabase(true, nil)
	db.LdAppend("/usr/lib")

	mk := func() *Package {
		p := NewPackage("P", "1.0")
		libA := NewObject("/usr/lib", "libA.so", mkClass())
		app := NewObject("/usr/bin", "app", mkClass())
		app.Needed = []string{"libA.so"}
		p.AddObject(libA)
		p.AddObject(app)
		return p
	}

	db.InstallPackage(mk())
	db.InstallPackage(mk())

	if len(db.Packages()) != 1 {
		t.Fatalf("expected exactly one package, got %d", len(db.Packages()))
	}
	if len(db.Objects()) != 2 {
		t.Fatalf("expected exactly two objects, got %d", len(db.Objects()))
	}
}

// I6: install then delete restores prior state for untouched objects.
func TestInstallDeleteRoundTrip(t *testing.T) {
	db := NewDatabase(true, nil)
	db.LdAppend("/usr/lib")

	base := NewPackage("base", "1.0")
	libA := NewObject("/usr/lib", "libA.so", mkClass())
	base.AddObject(libA)
	db.InstallPackage(base)

	other := NewPackage("other", "1.0")
	libB := NewObject("/usr/lib", "libB.so", mkClass())
	other.AddObject(libB)
	db.InstallPackage(other)

	seeker := NewPackage("seeker", "1.0")
	app := NewObject("/usr/bin", "app", mkClass())
	app.Needed = []string{"libB.so"}
	seeker.AddObject(app)
	db.InstallPackage(seeker)

	before := len(db.Objects())

	db.InstallPackage(NewPackage("transient", "1.0"))
	if !db.DeletePackage("transient") {
		t.Fatal("delete transient failed")
	}

	if len(db.Objects()) != before {
		t.Errorf("object count changed across install/delete round trip: %d != %d", len(db.Objects()), before)
	}
	if got := app.found["libB.so"]; got != libB {
		t.Errorf("expected app's resolution to libB.so to survive unrelated install/delete, got %v", got)
	}
}

func TestIgnoreFileRule(t *testing.T) {
	db := NewDatabase(true, nil)
	db.LdAppend("/usr/lib")
	db.AddIgnoreFile("/usr/bin/app")

	p := NewPackage("P", "1.0")
	libA := NewObject("/usr/lib", "libA.so", mkClass())
	app := NewObject("/usr/bin", "app", mkClass())
	app.Needed = []string{"libA.so"}
	p.AddObject(libA)
	p.AddObject(app)
	db.InstallPackage(p)

	if len(app.found) != 0 || len(app.missing) != 0 {
		t.Errorf("expected ignored object to have empty found/missing, got found=%v missing=%v", app.Found(), app.Missing())
	}
}

func TestPkgLibraryPathPruned(t *testing.T) {
	db := NewDatabase(true, nil)
	db.PkgLdAppend("P", "/opt/P/lib")
	if db.PackageLibraryPath("P") == nil {
		t.Fatal("expected package library path to be set")
	}
	db.PkgLdDelete("P", "/opt/P/lib")
	if db.PackageLibraryPath("P") != nil {
		t.Error("expected package library path entry to be pruned once empty")
	}
}
