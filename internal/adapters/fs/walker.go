// Package fs provides the file system adapter that scans watched directories.
package fs

import (
	"context"
	"io/fs"
	"iter"
	"os"
	"path/filepath"

	"go.trai.ch/dirpoll/internal/core/domain"
	"go.trai.ch/dirpoll/internal/core/ports"
	"go.trai.ch/zerr"
)

// Walker yields the tracked files below a root.
type Walker struct {
	logger ports.Logger
}

// NewWalker creates a new Walker. Skipped subdirectories are reported to logger.
func NewWalker(logger ports.Logger) *Walker {
	return &Walker{logger: logger}
}

type frame struct {
	dir   string
	depth int
}

// Walk yields every file below root that passes opts, depth first.
// A subdirectory that cannot be listed is skipped. If root itself cannot be
// listed, or ctx is cancelled, the error is yielded once and the walk ends.
func (w *Walker) Walk(ctx context.Context, root string, opts domain.ScanOptions) iter.Seq2[domain.File, error] {
	return func(yield func(domain.File, error) bool) {
		stack := []frame{{dir: root, depth: opts.MaxDepth}}

		for len(stack) > 0 {
			if err := ctx.Err(); err != nil {
				yield(domain.File{}, err)
				return
			}

			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			entries, err := os.ReadDir(top.dir)
			if err != nil {
				if top.dir == root {
					err = zerr.With(zerr.Wrap(domain.ErrRootUnreadable, err.Error()), "root", root)
					yield(domain.File{}, err)
					return
				}
				w.warn("skipping unreadable directory " + top.dir)
				continue
			}

			for _, entry := range entries {
				name := entry.Name()
				if opts.Exclude.Match(name) {
					continue
				}

				path := filepath.Join(top.dir, name)
				if entry.IsDir() {
					if opts.Unbounded() || top.depth > 0 {
						stack = append(stack, frame{dir: path, depth: top.depth - 1})
					}
					continue
				}

				if !opts.Filter.Matches(name, false) {
					continue
				}

				info, err := entry.Info()
				if err != nil {
					// Removed between listing and stat.
					continue
				}
				if !yield(fileFromInfo(path, info), nil) {
					return
				}
			}
		}
	}
}

func (w *Walker) warn(msg string) {
	if w.logger != nil {
		w.logger.Warn(msg)
	}
}

func fileFromInfo(path string, info fs.FileInfo) domain.File {
	created, accessed := platformTimes(path, info)
	return domain.File{
		Path:     path,
		Created:  created,
		Modified: info.ModTime(),
		Accessed: accessed,
	}
}
