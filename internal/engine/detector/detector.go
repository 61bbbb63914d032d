// Package detector classifies the difference between two snapshots of a
// watched directory.
package detector

import (
	"cmp"
	"slices"

	"go.trai.ch/dirpoll/internal/core/domain"
)

// Changes is the classified outcome of one poll cycle.
// Created, Changed and Deleted are pairwise disjoint and sorted by path.
type Changes struct {
	Created []domain.File
	Changed []domain.File
	Deleted []domain.File
	Renamed []domain.RenamedPair
}

// Empty reports whether the cycle produced no events.
func (c Changes) Empty() bool {
	return len(c.Created) == 0 && len(c.Changed) == 0 && len(c.Deleted) == 0 && len(c.Renamed) == 0
}

// Count returns the total number of entries across all classifications.
func (c Changes) Count() int {
	return len(c.Created) + len(c.Changed) + len(c.Deleted) + len(c.Renamed)
}

// Diff classifies latest against baseline under the given notify filter.
func Diff(baseline, latest domain.Snapshot, filters domain.NotifyFilter) Changes {
	var c Changes

	for path, cur := range latest.Files {
		prev, ok := baseline.Files[path]
		switch {
		case !ok:
			c.Created = append(c.Created, cur)
		case filters.Qualifies(prev, cur):
			c.Changed = append(c.Changed, cur)
		}
	}
	for path, prev := range baseline.Files {
		if _, ok := latest.Files[path]; !ok {
			c.Deleted = append(c.Deleted, prev)
		}
	}

	sortFiles(c.Created)
	sortFiles(c.Changed)
	sortFiles(c.Deleted)

	c.Created, c.Deleted, c.Renamed = correlateRenames(c.Created, c.Deleted)
	return c
}

// correlateRenames pairs created and deleted files with an identical, known
// modification time. Both inputs must be sorted by path; each created file
// takes the first unclaimed deleted candidate.
func correlateRenames(created, deleted []domain.File) (remainingCreated, remainingDeleted []domain.File, renamed []domain.RenamedPair) {
	if len(created) == 0 || len(deleted) == 0 {
		return created, deleted, nil
	}

	claimed := make([]bool, len(deleted))
	for _, nf := range created {
		match := -1
		if !nf.Modified.IsZero() {
			for i, of := range deleted {
				if !claimed[i] && of.Modified.Equal(nf.Modified) {
					match = i
					break
				}
			}
		}
		if match < 0 {
			remainingCreated = append(remainingCreated, nf)
			continue
		}
		claimed[match] = true
		renamed = append(renamed, domain.RenamedPair{NewName: nf.Path, OldName: deleted[match].Path})
	}

	for i, of := range deleted {
		if !claimed[i] {
			remainingDeleted = append(remainingDeleted, of)
		}
	}
	return remainingCreated, remainingDeleted, renamed
}

// Apply returns the baseline that results from applying c to baseline.
// latest supplies the refreshed metadata of changed and renamed files.
func Apply(baseline, latest domain.Snapshot, c Changes) domain.Snapshot {
	next := baseline.Clone()
	for _, f := range c.Deleted {
		delete(next.Files, f.Path)
	}
	for _, p := range c.Renamed {
		delete(next.Files, p.OldName)
		if f, ok := latest.Get(p.NewName); ok {
			next.Add(f)
		}
	}
	for _, f := range c.Created {
		next.Add(f)
	}
	for _, f := range c.Changed {
		next.Add(f)
	}
	next.RootModified = latest.RootModified
	next.TakenAt = latest.TakenAt
	return next
}

func sortFiles(files []domain.File) {
	slices.SortFunc(files, func(a, b domain.File) int {
		return cmp.Compare(a.Path, b.Path)
	})
}

// Detector keeps the baseline between poll cycles.
type Detector struct {
	filters  domain.NotifyFilter
	baseline domain.Snapshot
	primed   bool
}

// New creates a Detector reporting changes under filters.
func New(filters domain.NotifyFilter) *Detector {
	return &Detector{filters: filters, baseline: domain.NewSnapshot()}
}

// Reset replaces the baseline without producing events.
func (d *Detector) Reset(s domain.Snapshot) {
	d.baseline = s.Clone()
	d.primed = true
}

// Baseline returns a copy of the current baseline.
func (d *Detector) Baseline() domain.Snapshot {
	return d.baseline.Clone()
}

// Detect classifies latest against the baseline and advances the baseline.
// The first call on an unprimed Detector only records the baseline.
func (d *Detector) Detect(latest domain.Snapshot) Changes {
	if !d.primed {
		d.Reset(latest)
		return Changes{}
	}

	if d.filters.OnlyModification() && latest.Fingerprint() == d.baseline.Fingerprint() {
		d.baseline.RootModified = latest.RootModified
		d.baseline.TakenAt = latest.TakenAt
		return Changes{}
	}

	c := Diff(d.baseline, latest, d.filters)
	d.baseline = Apply(d.baseline, latest, c)
	return c
}
