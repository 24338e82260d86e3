// Package history persists evolution runs to disk: one directory per run
// holding a meta file and one snapshot file per generation. Files are
// written atomically so a dashboard can read a run while it is still being
// produced.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/lox/evopoker/internal/evolve"
	"github.com/lox/evopoker/internal/fileutil"
)

const (
	formatVersion = 1
	metaFilename  = "meta.json"
	snapPrefix    = "gen-"
	snapSuffix    = ".json"
)

// Meta describes a stored run.
type Meta struct {
	Version   int           `json:"version"`
	CreatedAt time.Time     `json:"created_at"`
	Config    evolve.Config `json:"config"`
}

// Writer appends generation snapshots to a run directory.
type Writer struct {
	dir string
}

// NewWriter creates the run directory and writes its meta file. The
// directory must not already contain a run.
func NewWriter(dir string, cfg evolve.Config) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create run dir: %w", err)
	}
	if _, err := os.Stat(filepath.Join(dir, metaFilename)); err == nil {
		return nil, fmt.Errorf("run dir %s already contains a run", dir)
	}

	meta := Meta{
		Version:   formatVersion,
		CreatedAt: time.Now().UTC(),
		Config:    cfg,
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode meta: %w", err)
	}
	if err := fileutil.WriteFileAtomic(filepath.Join(dir, metaFilename), data, 0o644); err != nil {
		return nil, fmt.Errorf("write meta: %w", err)
	}
	return &Writer{dir: dir}, nil
}

// Append persists one snapshot. Safe to call from the driver's yield
// function; each generation lands in its own file so callers can subsample
// or prune without rewriting the run.
func (w *Writer) Append(snap *evolve.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot %d: %w", snap.Generation, err)
	}
	path := filepath.Join(w.dir, snapFilename(snap.Generation))
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot %d: %w", snap.Generation, err)
	}
	return nil
}

func snapFilename(gen int) string {
	return fmt.Sprintf("%s%05d%s", snapPrefix, gen, snapSuffix)
}

// Run reads a stored run directory.
type Run struct {
	dir         string
	meta        Meta
	generations []int
}

// Open validates the run directory and indexes its snapshot files.
func Open(dir string) (*Run, error) {
	data, err := os.ReadFile(filepath.Join(dir, metaFilename))
	if err != nil {
		return nil, fmt.Errorf("read run meta: %w", err)
	}
	var meta Meta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode run meta: %w", err)
	}
	if meta.Version != formatVersion {
		return nil, fmt.Errorf("unsupported run format version %d", meta.Version)
	}
	if err := meta.Config.Validate(); err != nil {
		return nil, fmt.Errorf("stored config invalid: %w", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list run dir: %w", err)
	}
	var gens []int
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, snapPrefix) || !strings.HasSuffix(name, snapSuffix) {
			continue
		}
		var gen int
		if _, err := fmt.Sscanf(name, snapPrefix+"%d"+snapSuffix, &gen); err != nil {
			continue
		}
		gens = append(gens, gen)
	}
	sort.Ints(gens)

	return &Run{dir: dir, meta: meta, generations: gens}, nil
}

// Meta returns the stored run metadata.
func (r *Run) Meta() Meta { return r.meta }

// Generations returns the number of stored snapshots.
func (r *Run) Generations() int { return len(r.generations) }

// Snapshot loads the stored snapshot at position i (by generation order).
func (r *Run) Snapshot(i int) (*evolve.Snapshot, error) {
	if i < 0 || i >= len(r.generations) {
		return nil, errors.New("snapshot index out of range")
	}
	path := filepath.Join(r.dir, snapFilename(r.generations[i]))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var snap evolve.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

// Refresh re-indexes snapshot files, picking up generations written since
// the run was opened.
func (r *Run) Refresh() error {
	reopened, err := Open(r.dir)
	if err != nil {
		return err
	}
	r.meta = reopened.meta
	r.generations = reopened.generations
	return nil
}
