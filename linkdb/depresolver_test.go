package linkdb

import "testing"

func TestDependencyResolverByName(t *testing.T) {
	db := NewDatabase(true, NaturalVersionComparator{})
	p := NewPackage("foo", "1.5")
	db.InstallPackage(p)

	r := NewDependencyResolver(db)

	if got := r.FindDepend(DependSpec{Name: "foo"}); got != p {
		t.Fatalf("expected bare name match, got %v", got)
	}
	if got := r.FindDepend(ParseDependSpec("foo>=1.2")); got != p {
		t.Errorf("expected foo>=1.2 to match foo-1.5, got %v", got)
	}
	if got := r.FindDepend(ParseDependSpec("foo>=2.0")); got != nil {
		t.Errorf("expected foo>=2.0 to not match foo-1.5, got %v", got)
	}
}

func TestDependencyResolverProvidesAndReplaces(t *testing.T) {
	db := NewDatabase(true, NaturalVersionComparator{})

	provider := NewPackage("libfoo-impl", "3.0")
	provider.Provides = []DependSpec{ParseDependSpec("libfoo>=3.0")}
	db.InstallPackage(provider)

	successor := NewPackage("bar-ng", "1.0")
	successor.Replaces = []DependSpec{{Name: "bar"}}
	db.InstallPackage(successor)

	r := NewDependencyResolver(db)

	if got := r.FindDepend(ParseDependSpec("libfoo>=2.0")); got != provider {
		t.Errorf("expected libfoo>=2.0 to resolve via provides, got %v", got)
	}
	if got := r.FindDepend(DependSpec{Name: "bar"}); got != successor {
		t.Errorf("expected bar to resolve via replaces, got %v", got)
	}
}

func TestDependencyResolverNameOnlyWithoutComparator(t *testing.T) {
	db := NewDatabase(true, nil)
	p := NewPackage("foo", "1.0")
	db.InstallPackage(p)

	r := NewDependencyResolver(db)
	if got := r.FindDepend(ParseDependSpec("foo>=99.0")); got != p {
		t.Errorf("expected version constraint to be dropped without a comparator, got %v", got)
	}
}
