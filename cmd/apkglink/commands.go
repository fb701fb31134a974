package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/apkglink/apkglink/linkdb"
	"github.com/apkglink/apkglink/loader"
)

func buildDatabase(dir string, strict bool, libraryPaths, assumeFound, basePackages []string) (*linkdb.Database, *loader.Loader, error) {
	db := linkdb.NewDatabase(strict, linkdb.NaturalVersionComparator{})
	db.SetLogger(log)

	for _, p := range libraryPaths {
		db.LdAppend(p)
	}
	for _, n := range assumeFound {
		db.AddAssumeFound(n)
	}
	for _, n := range basePackages {
		db.AddBasePackage(n)
	}

	l := loader.New(db, log.With("loader"))
	n, err := l.LoadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("loading %s: %w", dir, err)
	}
	log.Infof("loaded %d packages from %s", n, dir)
	return db, l, nil
}

func runLoad(args []string) error {
	fs := newFlagSet("load")
	dir := fs.String("dir", ".", "directory of package descriptors")
	strict := fs.Bool("strict", true, "require exact OS ABI match")
	var libraryPaths, assumeFound, basePackages stringList
	fs.Var(&libraryPaths, "library-path", "additional global search path (repeatable)")
	fs.Var(&assumeFound, "assume-found", "basename to treat as always resolvable (repeatable)")
	fs.Var(&basePackages, "base-package", "integrity-check root package (repeatable)")
	fs.Parse(args)

	db, _, err := buildDatabase(*dir, *strict, libraryPaths, assumeFound, basePackages)
	if err != nil {
		return err
	}

	broken := db.BrokenObjects()
	fmt.Printf("packages: %d objects: %d broken: %d\n", len(db.Packages()), len(db.Objects()), len(broken))
	for _, o := range broken {
		fmt.Printf("  %s: missing %v\n", o.Path(), o.Missing())
	}
	return nil
}

func runCheck(args []string) error {
	fs := newFlagSet("check")
	dir := fs.String("dir", ".", "directory of package descriptors")
	strict := fs.Bool("strict", true, "require exact OS ABI match")
	focus := fs.String("package", "", "focus package name")
	var libraryPaths, assumeFound, basePackages stringList
	fs.Var(&libraryPaths, "library-path", "additional global search path (repeatable)")
	fs.Var(&assumeFound, "assume-found", "basename to treat as always resolvable (repeatable)")
	fs.Var(&basePackages, "base-package", "integrity-check root package (repeatable)")
	fs.Parse(args)

	if *focus == "" {
		return fmt.Errorf("-package is required")
	}

	db, _, err := buildDatabase(*dir, *strict, libraryPaths, assumeFound, basePackages)
	if err != nil {
		return err
	}

	checker := linkdb.NewIntegrityChecker(db)
	report, err := checker.Check(*focus)
	if err != nil {
		return err
	}

	if !report.Broken() {
		fmt.Printf("%s: clean\n", *focus)
		return nil
	}

	fmt.Printf("%s: broken\n", *focus)
	for _, m := range report.MissingDeps {
		fmt.Printf("  missing dependency: %s\n", m.Dep)
	}
	for _, c := range report.Conflicts {
		fmt.Printf("  conflict: %s vs %s (%s)\n", c.Package, c.Other, c.Spec)
	}
	for _, u := range report.UnpulledNeeds {
		fmt.Printf("  unpulled need: %s needs %s\n", u.Object.Path(), u.Need)
	}
	return nil
}

func runRelink(args []string) error {
	fs := newFlagSet("relink")
	dir := fs.String("dir", ".", "directory of package descriptors")
	strict := fs.Bool("strict", true, "require exact OS ABI match")
	jobs := fs.Int("jobs", 0, "worker count for the parallel relinker (0 = automatic)")
	var libraryPaths, assumeFound, basePackages stringList
	fs.Var(&libraryPaths, "library-path", "additional global search path (repeatable)")
	fs.Var(&assumeFound, "assume-found", "basename to treat as always resolvable (repeatable)")
	fs.Var(&basePackages, "base-package", "integrity-check root package (repeatable)")
	fs.Parse(args)

	db, _, err := buildDatabase(*dir, *strict, libraryPaths, assumeFound, basePackages)
	if err != nil {
		return err
	}

	r := linkdb.NewRelinker(db)
	r.MaxJobs = *jobs
	r.RelinkAll()

	broken := db.BrokenObjects()
	fmt.Printf("relinked %d packages, %d objects broken\n", len(db.Packages()), len(broken))
	return nil
}

func runConflicts(args []string) error {
	fs := newFlagSet("conflicts")
	dir := fs.String("dir", ".", "directory of package descriptors")
	strict := fs.Bool("strict", true, "require exact OS ABI match")
	var libraryPaths, assumeFound, basePackages stringList
	fs.Var(&libraryPaths, "library-path", "additional global search path (repeatable)")
	fs.Var(&assumeFound, "assume-found", "basename to treat as always resolvable (repeatable)")
	fs.Var(&basePackages, "base-package", "integrity-check root package (repeatable)")
	fs.Parse(args)

	db, _, err := buildDatabase(*dir, *strict, libraryPaths, assumeFound, basePackages)
	if err != nil {
		return err
	}

	det := linkdb.NewFileConflictDetector(db)
	conflicts := det.Detect()
	if len(conflicts) == 0 {
		fmt.Println("no file conflicts")
		return nil
	}
	for _, c := range conflicts {
		fmt.Printf("%s: %v\n", c.Path, c.Packages)
	}
	return nil
}

func runWatch(args []string) error {
	fs := newFlagSet("watch")
	dir := fs.String("dir", ".", "directory of package descriptors to watch")
	strict := fs.Bool("strict", true, "require exact OS ABI match")
	var libraryPaths, assumeFound, basePackages stringList
	fs.Var(&libraryPaths, "library-path", "additional global search path (repeatable)")
	fs.Var(&assumeFound, "assume-found", "basename to treat as always resolvable (repeatable)")
	fs.Var(&basePackages, "base-package", "integrity-check root package (repeatable)")
	fs.Parse(args)

	db := linkdb.NewDatabase(*strict, linkdb.NaturalVersionComparator{})
	db.SetLogger(log)
	for _, p := range libraryPaths {
		db.LdAppend(p)
	}
	for _, n := range assumeFound {
		db.AddAssumeFound(n)
	}
	for _, n := range basePackages {
		db.AddBasePackage(n)
	}

	l := loader.New(db, log.With("loader"))

	stopCh := make(chan struct{})
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Infof("shutting down...")
		close(stopCh)
	}()

	return l.Watch(*dir, stopCh)
}
