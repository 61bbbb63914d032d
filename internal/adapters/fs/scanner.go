package fs

import (
	"context"
	"os"
	"time"

	"go.trai.ch/dirpoll/internal/core/domain"
	"go.trai.ch/dirpoll/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Scanner = (*Scanner)(nil)

// Scanner implements ports.Scanner on top of a Walker.
type Scanner struct {
	walker *Walker
}

// NewScanner creates a new Scanner.
func NewScanner(walker *Walker) *Scanner {
	return &Scanner{walker: walker}
}

// StatRoot returns the modification time of root.
func (s *Scanner) StatRoot(root string) (time.Time, error) {
	info, err := os.Stat(root)
	if err != nil {
		return time.Time{}, zerr.With(zerr.Wrap(domain.ErrNotADirectory, err.Error()), "root", root)
	}
	if !info.IsDir() {
		return time.Time{}, zerr.With(zerr.Wrap(domain.ErrNotADirectory, "not a directory"), "root", root)
	}
	return info.ModTime(), nil
}

// Scan collects every tracked file below root into a snapshot.
func (s *Scanner) Scan(ctx context.Context, root string, opts domain.ScanOptions) (domain.Snapshot, error) {
	rootModified, err := s.StatRoot(root)
	if err != nil {
		return domain.Snapshot{}, zerr.With(zerr.Wrap(domain.ErrRootUnreadable, err.Error()), "root", root)
	}

	snap := domain.NewSnapshot()
	snap.RootModified = rootModified
	snap.TakenAt = time.Now()

	for file, err := range s.walker.Walk(ctx, root, opts) {
		if err != nil {
			return domain.Snapshot{}, err
		}
		snap.Add(file)
	}

	return snap, nil
}
