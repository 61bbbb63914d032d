package domain

import (
	"encoding/binary"
	"iter"
	"maps"
	"slices"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Snapshot is the set of files tracked under a root at one instant.
type Snapshot struct {
	Files        map[string]File
	RootModified time.Time
	TakenAt      time.Time
}

// NewSnapshot creates an empty snapshot.
func NewSnapshot() Snapshot {
	return Snapshot{Files: make(map[string]File)}
}

// Add inserts or replaces a file, keyed by its path.
func (s *Snapshot) Add(f File) {
	if s.Files == nil {
		s.Files = make(map[string]File)
	}
	s.Files[f.Path] = f
}

// Get returns the file tracked at path.
func (s Snapshot) Get(path string) (File, bool) {
	f, ok := s.Files[path]
	return f, ok
}

// Len returns the number of tracked files.
func (s Snapshot) Len() int {
	return len(s.Files)
}

// Paths returns the tracked paths in lexicographic order.
func (s Snapshot) Paths() []string {
	return slices.Sorted(maps.Keys(s.Files))
}

// All yields the tracked files in lexicographic path order.
func (s Snapshot) All() iter.Seq[File] {
	return func(yield func(File) bool) {
		for _, p := range s.Paths() {
			if !yield(s.Files[p]) {
				return
			}
		}
	}
}

// Clone returns a snapshot that shares no map with s.
func (s Snapshot) Clone() Snapshot {
	c := s
	c.Files = maps.Clone(s.Files)
	if c.Files == nil {
		c.Files = make(map[string]File)
	}
	return c
}

// Fingerprint digests the path set and modification times of the snapshot.
// Two snapshots with equal fingerprints have, with overwhelming probability,
// the same files with the same modification times.
func (s Snapshot) Fingerprint() uint64 {
	h := xxhash.New()
	var buf [8]byte
	for _, p := range s.Paths() {
		_, _ = h.WriteString(p)
		_, _ = h.Write([]byte{0})
		binary.LittleEndian.PutUint64(buf[:], uint64(s.Files[p].Modified.UnixNano())) //nolint:gosec // bit pattern only
		_, _ = h.Write(buf[:])
	}
	return h.Sum64()
}
