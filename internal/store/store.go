// Package store is the boundary to the external client record store. The
// engine never writes to it: a Source materializes point-in-time snapshots
// of loosely typed records, and a Watcher turns store changes into
// recompute triggers. Aggregation itself stays a pure function of the
// snapshot.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// RawRecord is one loosely typed client record as the store returns it.
// Unknown fields are carried along and ignored by extraction.
type RawRecord map[string]any

// Status tells the presentation layer whether a snapshot is trustworthy.
type Status string

const (
	StatusOK Status = "ok"
	// StatusUnavailable marks a snapshot produced while the store could not
	// be reached. The snapshot is empty but valid: callers render an empty
	// report instead of crashing the recompute pipeline.
	StatusUnavailable Status = "unavailable"
)

// WatchPath names one store location to read: typically one per department,
// with active and archived variants configured as separate paths.
type WatchPath struct {
	Department string
	Dir        string
}

// PathSnapshot is the record set read from a single path.
type PathSnapshot struct {
	Path       WatchPath
	Records    map[string]RawRecord // keyed by record ID
	RecordIDs  []string             // sorted, for deterministic iteration
	LoadFailed bool
}

// Snapshot is the merged view across all configured paths, in the stable
// path-priority order they were configured in. A snapshot is immutable once
// loaded.
type Snapshot struct {
	Status Status
	Paths  []PathSnapshot
}

// Source materializes snapshots of the record store.
type Source interface {
	Load(ctx context.Context) Snapshot
}

// DirSource reads each configured path as a directory of JSON documents,
// one record per file, the file name (sans extension) being the record ID.
type DirSource struct {
	paths []WatchPath
	log   zerolog.Logger

	mu sync.Mutex
}

// NewDirSource creates a DirSource over the given paths. Path order is the
// merge priority and is preserved in every snapshot.
func NewDirSource(paths []WatchPath, log zerolog.Logger) *DirSource {
	return &DirSource{paths: paths, log: log}
}

// Paths returns the configured watch paths in priority order.
func (s *DirSource) Paths() []WatchPath {
	return s.paths
}

// Load reads all paths concurrently and merges them in configured order.
// A store that cannot be reached yields an empty snapshot with
// StatusUnavailable; a single malformed record is skipped and logged, never
// fatal.
func (s *DirSource) Load(ctx context.Context) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snaps := make([]PathSnapshot, len(s.paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, p := range s.paths {
		i, p := i, p
		g.Go(func() error {
			snaps[i] = s.loadPath(ctx, p)
			return nil
		})
	}
	// Load errors are folded into per-path status; the group never fails.
	_ = g.Wait()

	snapshot := Snapshot{Status: StatusOK, Paths: snaps}
	if len(snaps) > 0 && allFailed(snaps) {
		snapshot.Status = StatusUnavailable
	}
	return snapshot
}

func allFailed(snaps []PathSnapshot) bool {
	for _, p := range snaps {
		if !p.LoadFailed {
			return false
		}
	}
	return true
}

func (s *DirSource) loadPath(ctx context.Context, p WatchPath) PathSnapshot {
	ps := PathSnapshot{Path: p, Records: make(map[string]RawRecord)}

	entries, err := os.ReadDir(p.Dir)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn().Err(err).Str("dir", p.Dir).Msg("store path unreadable")
		}
		ps.LoadFailed = true
		return ps
	}

	for _, e := range entries {
		if ctx.Err() != nil {
			ps.LoadFailed = true
			return ps
		}
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".json") {
			continue
		}
		id := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))

		data, err := os.ReadFile(filepath.Join(p.Dir, e.Name()))
		if err != nil {
			s.log.Warn().Err(err).Str("record", id).Msg("skipping unreadable record")
			continue
		}
		var rec RawRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			s.log.Warn().Err(err).Str("record", id).Msg("skipping malformed record")
			continue
		}
		ps.Records[id] = rec
		ps.RecordIDs = append(ps.RecordIDs, id)
	}

	sort.Strings(ps.RecordIDs)
	return ps
}
