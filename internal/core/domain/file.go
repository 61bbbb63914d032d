package domain

import (
	"path/filepath"
	"time"
)

// File is a tracked, non-directory entry observed during a scan.
// Identity is the Path; timestamps the platform does not report are left zero.
type File struct {
	Path     string
	Created  time.Time
	Modified time.Time
	Accessed time.Time
}

// Name returns the base name of the file.
func (f File) Name() string {
	return filepath.Base(f.Path)
}

// RenamedPair links a file that appeared in a cycle to the file that
// disappeared in the same cycle with an identical modification time.
type RenamedPair struct {
	NewName string
	OldName string
}
