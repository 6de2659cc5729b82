package store

import (
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Backend selects the DataAccess implementation a Directory hands out.
type Backend int

const (
	// BackendRAM is the default: a segmented in-memory array flushed to
	// file wholesale.
	BackendRAM Backend = iota
	// BackendMMap memory-maps the backing file directly (Linux only).
	BackendMMap
)

// Directory maps a name (e.g. "nodes", "egdes", "geometry", "names") to a
// DataAccess. FindCreate is idempotent: repeated calls with the same name
// return the same handle. Directory groups flushes; it does not itself
// persist any metadata.
type Directory struct {
	dir         string
	backend     Backend
	segmentSize int // 0 means each DataAccess keeps its own default

	mu      sync.Mutex
	handles map[string]DataAccess
	order   []string // preserves first-seen order for deterministic flush
}

// New creates a Directory rooted at dir using the given backend.
func New(dir string, backend Backend) *Directory {
	return &Directory{dir: dir, backend: backend, handles: map[string]DataAccess{}}
}

// SetSegmentSize configures the growth granularity applied to every
// handle this Directory hands out from this point on. It has no effect
// on handles already created via FindCreate.
func (d *Directory) SetSegmentSize(bytes int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.segmentSize = bytes
}

// FindCreate returns the DataAccess handle for name, creating it on first
// use.
func (d *Directory) FindCreate(name string) (DataAccess, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if h, ok := d.handles[name]; ok {
		return h, nil
	}

	path := filepath.Join(d.dir, name)
	var h DataAccess
	var err error
	switch d.backend {
	case BackendMMap:
		h, err = NewMMap(path)
	default:
		h = NewRAM(path)
	}
	if err != nil {
		return nil, err
	}
	if d.segmentSize > 0 {
		if err := h.SegmentSize(d.segmentSize); err != nil {
			return nil, err
		}
	}
	d.handles[name] = h
	d.order = append(d.order, name)
	return h, nil
}

// Flush flushes every handle in the directory concurrently: the files are
// independent on disk, so there is no ordering requirement between them
// (spec.md §5 "Ordering" only constrains insertion/adjacency order within
// a single store, not across stores).
func (d *Directory) Flush() error {
	d.mu.Lock()
	handles := make([]DataAccess, len(d.order))
	for i, name := range d.order {
		handles[i] = d.handles[name]
	}
	d.mu.Unlock()

	var g errgroup.Group
	for _, h := range handles {
		h := h
		g.Go(func() error {
			return h.Flush()
		})
	}
	return g.Wait()
}

// Close closes every handle in the directory.
func (d *Directory) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var first error
	for _, name := range d.order {
		if err := d.handles[name].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
