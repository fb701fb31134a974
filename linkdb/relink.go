package linkdb

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// computeResolution is the read-only core of link_object (spec.md §4.4):
// it returns the found/missing sets o would have, without mutating o or
// the Database. Both the serial and parallel Relink paths, and
// InstallPackage's per-object linking, build on this.
func (d *Database) computeResolution(o *Object) (map[string]*Object, map[string]struct{}) {
	found := make(map[string]*Object)
	missing := make(map[string]struct{})

	if _, ignore := d.ignoreFileRules[o.Path()]; ignore {
		return found, missing
	}

	var extra []string
	if o.owner != nil {
		extra = d.packageLibraryPath[o.owner.Name]
	}

	for _, n := range o.Needed {
		if cand := d.findFor(o, n, extra); cand != nil {
			found[n] = cand
			continue
		}
		if _, assumed := d.assumeFoundRules[n]; assumed {
			continue
		}
		missing[n] = struct{}{}
	}
	return found, missing
}

// Relinker rebuilds every object's found/missing sets from scratch,
// either serially or, for large enough databases, by partitioning
// packages across a worker pool (spec.md §4.9). It cannot fail: a
// degenerate partition (zero-sized slice) is silently skipped.
type Relinker struct {
	db *Database

	// MaxJobs caps the worker pool size; 0 means unlimited, subject to
	// the number of available CPUs.
	MaxJobs int

	progress uint64
}

// NewRelinker returns a Relinker over db.
func NewRelinker(db *Database) *Relinker {
	return &Relinker{db: db}
}

// Progress returns the number of packages processed by the most recent
// (or in-progress) RelinkAll call. Safe to call concurrently; intended
// for a status observer to poll.
func (r *Relinker) Progress() uint64 {
	return atomic.LoadUint64(&r.progress)
}

// RelinkAll rebuilds found/missing for every installed object.
func (r *Relinker) RelinkAll() {
	d := r.db
	d.mu.Lock()
	defer d.mu.Unlock()

	atomic.StoreUint64(&r.progress, 0)

	ncpus := runtime.NumCPU()
	workers := ncpus
	if r.MaxJobs > 0 && r.MaxJobs < workers {
		workers = r.MaxJobs
	}

	useParallel := r.MaxJobs != 1 && ncpus > 1 && len(d.packages) > 100 && len(d.objects) >= 300
	if !useParallel {
		r.relinkSerialLocked()
		return
	}
	r.relinkParallelLocked(workers)
}

func (r *Relinker) relinkSerialLocked() {
	d := r.db
	for _, p := range d.packages {
		for _, o := range p.Objects {
			found, missing := d.computeResolution(o)
			o.found = found
			o.missing = missing
		}
		atomic.AddUint64(&r.progress, 1)
	}
}

type relinkPartial struct {
	obj     *Object
	found   map[string]*Object
	missing map[string]struct{}
}

// relinkParallelLocked partitions db.packages into contiguous slices, one
// per worker, each producing a local slice of partial results without
// touching any Object. Once every worker has joined, a single merger
// installs all results; this is the only writer of found/missing during
// a parallel relink, and it runs after every compute goroutine has
// returned (spec.md §4.9, §5).
func (r *Relinker) relinkParallelLocked(workers int) {
	d := r.db
	n := len(d.packages)
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}
	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	var mu sync.Mutex
	var allResults [][]relinkPartial

	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}
		slice := d.packages[start:end]

		wg.Add(1)
		go func(slice []*Package) {
			defer wg.Done()
			local := make([]relinkPartial, 0)
			for _, p := range slice {
				for _, o := range p.Objects {
					found, missing := d.computeResolution(o)
					local = append(local, relinkPartial{obj: o, found: found, missing: missing})
				}
				atomic.AddUint64(&r.progress, 1)
			}
			mu.Lock()
			allResults = append(allResults, local)
			mu.Unlock()
		}(slice)
	}

	wg.Wait()

	for _, local := range allResults {
		for _, pr := range local {
			pr.obj.found = pr.found
			pr.obj.missing = pr.missing
		}
	}
}
