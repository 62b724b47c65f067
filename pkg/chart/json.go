package chart

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/pkg/errors"
)

// JSONRenderer writes each spec as one indented JSON document, shaped like
// the options object a browser charting library takes.
type JSONRenderer struct {
	W io.Writer

	mu sync.Mutex
}

var _ Renderer = (*JSONRenderer)(nil)

func (r *JSONRenderer) Draw(ctx context.Context, spec Spec) error {
	_ = ctx
	spec.Series = append([]Series{}, spec.Series...)
	for i := range spec.Series {
		if spec.Series[i].Points == nil {
			spec.Series[i].Points = []Point{}
		}
	}
	b, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal chart")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.W.Write(append(b, '\n')); err != nil {
		return errors.Wrap(err, "write chart")
	}
	return nil
}

// Recorder keeps every drawn spec in memory.
type Recorder struct {
	mu    sync.Mutex
	Specs []Spec
}

var _ Renderer = (*Recorder)(nil)

func (r *Recorder) Draw(ctx context.Context, spec Spec) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Specs = append(r.Specs, spec)
	return nil
}

func (r *Recorder) Drawn() []Spec {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Spec(nil), r.Specs...)
}
