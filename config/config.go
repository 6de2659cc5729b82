// Package config loads the storage configuration for an embedding
// service: where the graph's backing files live, how they grow, and
// whether they are memory-mapped or kept as a segmented in-memory
// array flushed on demand.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/streetgraph/graph/internal/store"
)

// StorageConfig holds everything a caller needs to open a Directory and
// size a graph's initial allocation.
type StorageConfig struct {
	// Directory is the path the backing files live under.
	Directory string `yaml:"directory"`

	// SegmentSizeBytes is the growth granularity passed to each
	// DataAccess's SegmentSize. Zero means store.DefaultSegmentBytes.
	SegmentSizeBytes int `yaml:"segment_size_bytes"`

	// UseMMap selects store.BackendMMap over the default store.BackendRAM.
	UseMMap bool `yaml:"use_mmap"`

	// InitialNodeCount is passed straight through to Graph.CreateNew.
	InitialNodeCount int `yaml:"initial_node_count"`
}

// DefaultStorageConfig returns a StorageConfig usable as-is for a fresh,
// RAM-backed graph rooted at dir.
func DefaultStorageConfig(dir string) StorageConfig {
	return StorageConfig{
		Directory:        dir,
		SegmentSizeBytes: store.DefaultSegmentBytes,
		UseMMap:          false,
		InitialNodeCount: 0,
	}
}

// Load reads a StorageConfig from a YAML file at path. A missing file is
// not an error: the defaults for dir are returned instead, the same way
// an embedding service would fall back to sane defaults on first run.
func Load(path, dir string) (StorageConfig, error) {
	cfg := DefaultStorageConfig(dir)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.SegmentSizeBytes <= 0 {
		cfg.SegmentSizeBytes = store.DefaultSegmentBytes
	}
	return cfg, nil
}

// Backend returns the store.Backend this configuration selects.
func (c StorageConfig) Backend() store.Backend {
	if c.UseMMap {
		return store.BackendMMap
	}
	return store.BackendRAM
}

// OpenDirectory constructs the store.Directory this configuration
// describes. It does not create or load any files; call CreateNew or
// LoadExisting on the graph built from it.
func (c StorageConfig) OpenDirectory() *store.Directory {
	dir := store.New(c.Directory, c.Backend())
	dir.SetSegmentSize(c.SegmentSizeBytes)
	return dir
}
