package progrock

import (
	"io"

	"github.com/vito/progrock"
	"go.trai.ch/dirpoll/internal/core/ports"
)

var _ ports.Vertex = (*Vertex)(nil)

// Vertex wraps a *progrock.VertexRecorder.
type Vertex struct {
	vertex *progrock.VertexRecorder
}

// Stdout returns the vertex's output stream.
func (v *Vertex) Stdout() io.Writer {
	return v.vertex.Stdout()
}

// Cached marks the cycle as having found nothing new.
func (v *Vertex) Cached() {
	v.vertex.Cached()
}

// Complete finishes the vertex.
func (v *Vertex) Complete(err error) {
	v.vertex.Done(err)
}
