package ports

import (
	"time"

	"go.trai.ch/dirpoll/internal/core/domain"
)

// Metrics collects counters about the poll loop.
//
//go:generate mockgen -source=metrics.go -destination=mocks/mock_metrics.go -package=mocks
type Metrics interface {
	// ObserveScan records a completed scan and the number of files it tracked.
	ObserveScan(d time.Duration, files int)
	// SkippedScan records a poll that the root pre-check short-circuited.
	SkippedScan()
	// Published records a delivered event of the given kind and size.
	Published(kind domain.EventKind, n int)
}
