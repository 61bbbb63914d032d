package linear_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/dirpoll/internal/adapters/linear"
	"go.trai.ch/dirpoll/internal/core/domain"
)

const root = "/srv/data"

var (
	modified = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	created  = time.Date(2025, 12, 31, 23, 0, 0, 0, time.UTC)
)

func newTestRenderer(t *testing.T) (*linear.Renderer, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	return linear.NewRenderer(buf, root), buf
}

func batch(paths ...string) domain.FileBatch {
	files := make([]domain.File, 0, len(paths))
	for _, p := range paths {
		files = append(files, domain.File{Path: p, Modified: modified})
	}
	return domain.NewFileBatch(files)
}

func TestRenderer_Events(t *testing.T) {
	r, buf := newTestRenderer(t)

	r.Created(batch(root+"/a.txt", root+"/docs/b.pdf"))
	r.Changed(batch(root + "/a.txt"))
	r.Deleted(batch(root+"/old.log", "/elsewhere/x.txt"))
	r.Renamed(domain.NewRenameBatch([]domain.RenamedPair{{NewName: root + "/c.txt", OldName: root + "/b.txt"}}))
	r.Error(domain.ErrRootUnreadable)

	g := goldie.New(t)
	g.Assert(t, "events_text", buf.Bytes())
}

func TestRenderer_EventsJSON(t *testing.T) {
	r, buf := newTestRenderer(t)
	r.SetJSON(true)

	r.Created(batch(root + "/a.txt"))
	r.Renamed(domain.NewRenameBatch([]domain.RenamedPair{{NewName: root + "/c.txt", OldName: root + "/b.txt"}}))
	r.Error(domain.ErrRootUnreadable)

	g := goldie.New(t)
	g.Assert(t, "events_json", buf.Bytes())
}

func listingSnapshot() domain.Snapshot {
	snap := domain.NewSnapshot()
	snap.Add(domain.File{Path: root + "/docs/b.pdf", Modified: modified, Accessed: modified})
	snap.Add(domain.File{Path: root + "/a.txt", Modified: modified, Created: created})
	return snap
}

func TestRenderer_Listing(t *testing.T) {
	tests := []struct {
		name       string
		snap       domain.Snapshot
		json       bool
		goldenName string
	}{
		{name: "text", snap: listingSnapshot(), goldenName: "listing_text"},
		{name: "empty", snap: domain.NewSnapshot(), goldenName: "listing_empty"},
		{name: "json", snap: listingSnapshot(), json: true, goldenName: "listing_json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, buf := newTestRenderer(t)
			r.SetJSON(tt.json)

			r.Listing(tt.snap)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestRenderer_EmptyBatchPrintsNothing(t *testing.T) {
	r, buf := newTestRenderer(t)

	r.Created(domain.NewFileBatch(nil))
	r.Renamed(domain.NewRenameBatch(nil))

	assert.Empty(t, buf.String())
}
