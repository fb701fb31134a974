package reportcache

import (
	"path/filepath"
	"testing"

	"github.com/apkglink/apkglink/linkdb"
)

func TestCacheGetPutInvalidate(t *testing.T) {
	c := New(nil)
	defer c.Stop()

	if _, ok := c.Get("app"); ok {
		t.Fatal("expected empty cache miss")
	}

	report := &linkdb.IntegrityReport{Package: "app"}
	c.Put("app", report)

	got, ok := c.Get("app")
	if !ok || got != report {
		t.Fatalf("expected cache hit returning the same report, got %v %v", got, ok)
	}

	c.Invalidate("app")
	if _, ok := c.Get("app"); ok {
		t.Fatal("expected miss after invalidate")
	}
}

func TestCacheInvalidateAll(t *testing.T) {
	c := New(nil)
	defer c.Stop()

	c.Put("a", &linkdb.IntegrityReport{Package: "a"})
	c.Put("b", &linkdb.IntegrityReport{Package: "b"})
	if c.Size() != 2 {
		t.Fatalf("expected 2 entries, got %d", c.Size())
	}
	c.InvalidateAll()
	if c.Size() != 0 {
		t.Fatalf("expected 0 entries after InvalidateAll, got %d", c.Size())
	}
}

func TestBoltStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := OpenBoltStore(filepath.Join(dir, "reports.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	report := &linkdb.IntegrityReport{
		Package:     "app",
		MissingDeps: []linkdb.MissingDepNotice{{Package: "app", Dep: linkdb.ParseDependSpec("libfoo>=1.2")}},
	}
	if err := store.Put("app", report); err != nil {
		t.Fatal(err)
	}

	got, ok, err := store.Get("app")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected a hit")
	}
	if got.Package != "app" || len(got.MissingDeps) != 1 {
		t.Fatalf("got %+v", got)
	}

	if err := store.Delete("app"); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := store.Get("app"); err != nil || ok {
		t.Fatalf("expected miss after delete, ok=%v err=%v", ok, err)
	}
}
