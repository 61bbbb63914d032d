// Package linear prints watcher events one line per file, or as JSON lines.
package linear

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/dirpoll/internal/core/domain"
	"go.trai.ch/dirpoll/internal/ui/output"
	"go.trai.ch/dirpoll/internal/ui/style"
)

const timeLayout = "2006-01-02 15:04:05"

// Renderer writes events for one watched root.
type Renderer struct {
	stdout io.Writer
	output *termenv.Output
	root   string

	mu       sync.Mutex
	jsonMode bool
}

// NewRenderer creates a Renderer writing to stdout, which defaults to os.Stdout.
// Paths are printed relative to root.
func NewRenderer(stdout io.Writer, root string) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	return &Renderer{
		stdout: stdout,
		output: output.New(stdout),
		root:   root,
	}
}

// SetJSON switches to one JSON object per line.
func (r *Renderer) SetJSON(enable bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jsonMode = enable
}

// Created prints a batch of created files.
func (r *Renderer) Created(b domain.FileBatch) {
	r.files(domain.EventCreated, style.Plus, style.Green, b)
}

// Changed prints a batch of changed files.
func (r *Renderer) Changed(b domain.FileBatch) {
	r.files(domain.EventChanged, style.Tilde, style.Yellow, b)
}

// Deleted prints a batch of deleted files.
func (r *Renderer) Deleted(b domain.FileBatch) {
	r.files(domain.EventDeleted, style.Minus, style.Red, b)
}

// Renamed prints a batch of renames as "old → new".
func (r *Renderer) Renamed(b domain.RenameBatch) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.jsonMode {
		rec := eventRecord{Event: domain.EventRenamed.String(), Root: r.root}
		for p := range b.All() {
			rec.Renames = append(rec.Renames, renameRecord{Old: p.OldName, New: p.NewName})
		}
		r.encodeLocked(rec)
		return
	}

	for p := range b.All() {
		line := style.Arrow + " " + r.rel(p.OldName) + " " + style.Arrow + " " + r.rel(p.NewName)
		r.printLocked(line, style.Blue)
	}
}

// Error prints a terminal watcher failure.
func (r *Renderer) Error(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.jsonMode {
		r.encodeLocked(eventRecord{Event: domain.EventError.String(), Root: r.root, Error: err.Error()})
		return
	}
	r.printLocked(style.Cross+" "+err.Error(), style.Red)
}

// Listing prints every file of a snapshot with its timestamps.
func (r *Renderer) Listing(snap domain.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.jsonMode {
		rec := eventRecord{Event: "snapshot", Root: r.root, Files: []fileRecord{}}
		for _, path := range snap.Paths() {
			f, _ := snap.Get(path)
			rec.Files = append(rec.Files, newFileRecord(f))
		}
		r.encodeLocked(rec)
		return
	}

	rows := [][]string{{"PATH", "MODIFIED", "CREATED", "ACCESSED"}}
	for _, path := range snap.Paths() {
		f, _ := snap.Get(path)
		rows = append(rows, []string{r.rel(f.Path), formatTime(f.Modified), formatTime(f.Created), formatTime(f.Accessed)})
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	for n, row := range rows {
		var b strings.Builder
		for i, cell := range row {
			b.WriteString(cell)
			if i < len(row)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(cell)+2))
			}
		}
		color := style.Slate
		if n == 0 {
			color = style.Iris
		}
		r.printLocked(b.String(), color)
	}

	summary := strconv.Itoa(snap.Len()) + " files"
	if snap.Len() == 1 {
		summary = "1 file"
	}
	r.printLocked(summary, style.Slate)
}

func (r *Renderer) files(kind domain.EventKind, glyph string, color lipgloss.Color, b domain.FileBatch) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.jsonMode {
		rec := eventRecord{Event: kind.String(), Root: r.root}
		for f := range b.All() {
			rec.Files = append(rec.Files, newFileRecord(f))
		}
		r.encodeLocked(rec)
		return
	}

	for f := range b.All() {
		r.printLocked(glyph+" "+r.rel(f.Path), color)
	}
}

// printLocked must be called with r.mu held.
func (r *Renderer) printLocked(line string, color lipgloss.Color) {
	styled := r.output.String(line).Foreground(r.output.Color(string(color)))
	_, _ = io.WriteString(r.stdout, styled.String()+"\n")
}

// encodeLocked must be called with r.mu held.
func (r *Renderer) encodeLocked(rec eventRecord) {
	_ = json.NewEncoder(r.stdout).Encode(rec)
}

func (r *Renderer) rel(path string) string {
	rel, err := filepath.Rel(r.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(timeLayout)
}

type eventRecord struct {
	Event   string         `json:"event"`
	Root    string         `json:"root"`
	Files   []fileRecord   `json:"files,omitempty"`
	Renames []renameRecord `json:"renames,omitempty"`
	Error   string         `json:"error,omitempty"`
}

type fileRecord struct {
	Path     string    `json:"path"`
	Modified time.Time `json:"modified,omitzero"`
	Created  time.Time `json:"created,omitzero"`
	Accessed time.Time `json:"accessed,omitzero"`
}

func newFileRecord(f domain.File) fileRecord {
	return fileRecord{Path: f.Path, Modified: f.Modified, Created: f.Created, Accessed: f.Accessed}
}

type renameRecord struct {
	Old string `json:"old"`
	New string `json:"new"`
}
