// Package telemetry records build progress as per-package vertices.
package telemetry

import (
	"context"
	"io"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/pakt/internal/core/ports"
)

var _ ports.Telemetry = (*Recorder)(nil)

// Recorder implements ports.Telemetry on top of progrock: each package build
// becomes a vertex with its script output attached.
type Recorder struct {
	w   progrock.Writer
	rec *progrock.Recorder
}

// New creates a Recorder with a default tape.
func New() ports.Telemetry {
	return NewRecorder(progrock.NewTape())
}

// NewRecorder creates a Recorder with the given writer.
func NewRecorder(w progrock.Writer) *Recorder {
	return &Recorder{
		w:   w,
		rec: progrock.NewRecorder(w),
	}
}

// Record starts a vertex for a unit of work.
func (r *Recorder) Record(_ context.Context, name string) ports.Vertex {
	v := r.rec.Vertex(digest.FromString(name), name)
	return &vertex{vertex: v}
}

// Close flushes and closes the recording session.
func (r *Recorder) Close() error {
	if c, ok := r.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// vertex wraps *progrock.VertexRecorder.
type vertex struct {
	vertex *progrock.VertexRecorder
}

func (v *vertex) Stdout() io.Writer {
	return v.vertex.Stdout()
}

func (v *vertex) Stderr() io.Writer {
	return v.vertex.Stderr()
}

func (v *vertex) Cached() {
	v.vertex.Cached()
}

func (v *vertex) Complete(err error) {
	v.vertex.Done(err)
}
