package linkdb

import "testing"

func TestIntegrityCheckerMissingDepend(t *testing.T) {
	db := NewDatabase(true, nil)

	focus := NewPackage("app", "1.0")
	focus.Depends = []DependSpec{{Name: "missing-lib"}}
	db.InstallPackage(focus)

	checker := NewIntegrityChecker(db)
	report, err := checker.Check("app")
	if err != nil {
		t.Fatal(err)
	}
	if !report.Broken() {
		t.Fatal("expected report to be broken")
	}
	if len(report.MissingDeps) != 1 || report.MissingDeps[0].Dep.Name != "missing-lib" {
		t.Errorf("expected one missing dep notice for missing-lib, got %v", report.MissingDeps)
	}
}

func TestIntegrityCheckerUnpulledNeed(t *testing.T) {
	db := NewDatabase(true, nil)
	db.LdAppend("/usr/lib")

	// libA belongs to a package that "app" does not depend on.
	outside := NewPackage("outside", "1.0")
	libA := NewObject("/usr/lib", "libA.so", mkClass())
	outside.AddObject(libA)
	db.InstallPackage(outside)

	focus := NewPackage("app", "1.0")
	bin := NewObject("/usr/bin", "app", mkClass())
	bin.Needed = []string{"libA.so"}
	focus.AddObject(bin)
	db.InstallPackage(focus)

	checker := NewIntegrityChecker(db)
	report, err := checker.Check("app")
	if err != nil {
		t.Fatal(err)
	}
	if len(report.UnpulledNeeds) != 1 {
		t.Fatalf("expected one unpulled need, got %v", report.UnpulledNeeds)
	}
	if report.UnpulledNeeds[0].Need != "libA.so" {
		t.Errorf("unexpected unpulled need: %v", report.UnpulledNeeds[0])
	}
}

func TestIntegrityCheckerSatisfiedViaDepend(t *testing.T) {
	db := NewDatabase(true, nil)
	db.LdAppend("/usr/lib")

	dep := NewPackage("libfoo-pkg", "1.0")
	libA := NewObject("/usr/lib", "libA.so", mkClass())
	dep.AddObject(libA)
	db.InstallPackage(dep)

	focus := NewPackage("app", "1.0")
	focus.Depends = []DependSpec{{Name: "libfoo-pkg"}}
	bin := NewObject("/usr/bin", "app", mkClass())
	bin.Needed = []string{"libA.so"}
	focus.AddObject(bin)
	db.InstallPackage(focus)

	checker := NewIntegrityChecker(db)
	report, err := checker.Check("app")
	if err != nil {
		t.Fatal(err)
	}
	if report.Broken() {
		t.Fatalf("expected clean report, got %+v", report)
	}
}

func TestIntegrityCheckerConflict(t *testing.T) {
	db := NewDatabase(true, nil)

	other := NewPackage("other", "1.0")
	db.InstallPackage(other)

	focus := NewPackage("app", "1.0")
	focus.Depends = []DependSpec{{Name: "other"}}
	focus.Conflicts = []DependSpec{{Name: "other"}}
	db.InstallPackage(focus)

	checker := NewIntegrityChecker(db)
	report, err := checker.Check("app")
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Conflicts) != 1 {
		t.Fatalf("expected one conflict notice, got %v", report.Conflicts)
	}
}

func TestIntegrityCheckerShowMsgOffSuppressesMissing(t *testing.T) {
	db := NewDatabase(true, nil)

	focus := NewPackage("app", "1.0")
	focus.Depends = []DependSpec{{Name: "missing-lib"}}
	db.InstallPackage(focus)

	checker := NewIntegrityChecker(db)
	checker.SetShowMsg(false)
	report, err := checker.Check("app")
	if err != nil {
		t.Fatal(err)
	}
	if len(report.MissingDeps) != 0 {
		t.Errorf("expected no missing-dep notices with showmsg off, got %v", report.MissingDeps)
	}
}
