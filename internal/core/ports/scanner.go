package ports

import (
	"context"
	"time"

	"go.trai.ch/dirpoll/internal/core/domain"
)

// Scanner produces snapshots of a directory tree.
//
//go:generate mockgen -source=scanner.go -destination=mocks/mock_scanner.go -package=mocks
type Scanner interface {
	// StatRoot returns the modification time of root.
	// It fails with domain.ErrNotADirectory when root is missing or not a directory.
	StatRoot(root string) (time.Time, error)

	// Scan walks root and returns every tracked file.
	// Unreadable subdirectories are skipped; an unreadable root fails with
	// domain.ErrRootUnreadable.
	Scan(ctx context.Context, root string, opts domain.ScanOptions) (domain.Snapshot, error)
}
