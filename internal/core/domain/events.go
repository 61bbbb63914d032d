package domain

import (
	"iter"
	"slices"
)

// EventKind classifies a message delivered to subscribers.
type EventKind uint8

const (
	// EventCreated carries files that appeared since the previous poll.
	EventCreated EventKind = iota
	// EventChanged carries files whose watched timestamps differ.
	EventChanged
	// EventDeleted carries files that disappeared since the previous poll.
	EventDeleted
	// EventRenamed carries correlated (new, old) path pairs.
	EventRenamed
	// EventError carries a terminal watcher failure.
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventCreated:
		return "created"
	case EventChanged:
		return "changed"
	case EventDeleted:
		return "deleted"
	case EventRenamed:
		return "renamed"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// FileBatch is an immutable list of files delivered in one event.
type FileBatch struct {
	files []File
}

// NewFileBatch copies files into a batch.
func NewFileBatch(files []File) FileBatch {
	return FileBatch{files: slices.Clone(files)}
}

// Len returns the number of files in the batch.
func (b FileBatch) Len() int {
	return len(b.files)
}

// Files returns a copy of the batch contents.
func (b FileBatch) Files() []File {
	return slices.Clone(b.files)
}

// Paths returns the paths of the batch in delivery order.
func (b FileBatch) Paths() []string {
	paths := make([]string, len(b.files))
	for i, f := range b.files {
		paths[i] = f.Path
	}
	return paths
}

// All yields the files of the batch.
func (b FileBatch) All() iter.Seq[File] {
	return slices.Values(b.files)
}

// RenameBatch is an immutable list of renames delivered in one event.
type RenameBatch struct {
	pairs []RenamedPair
}

// NewRenameBatch copies pairs into a batch.
func NewRenameBatch(pairs []RenamedPair) RenameBatch {
	return RenameBatch{pairs: slices.Clone(pairs)}
}

// Len returns the number of pairs in the batch.
func (b RenameBatch) Len() int {
	return len(b.pairs)
}

// Pairs returns a copy of the batch contents.
func (b RenameBatch) Pairs() []RenamedPair {
	return slices.Clone(b.pairs)
}

// All yields the pairs of the batch.
func (b RenameBatch) All() iter.Seq[RenamedPair] {
	return slices.Values(b.pairs)
}
