package chart

import (
	"context"
)

type Kind string

const (
	KindSequenceLength   Kind = "sequence-length"
	KindPairedPie        Kind = "paired-pie"
	KindNucleotideBubble Kind = "nucleotide-bubble"
	KindIdentityColumn   Kind = "identity-column"
)

type SeriesType string

const (
	SeriesColumn SeriesType = "column"
	SeriesPie    SeriesType = "pie"
	SeriesBubble SeriesType = "bubble"
)

type Axis struct {
	Title       string   `json:"title,omitempty"`
	Minimum     *float64 `json:"minimum,omitempty"`
	Maximum     *float64 `json:"maximum,omitempty"`
	Interval    float64  `json:"interval,omitempty"`
	ValueFormat string   `json:"valueFormatString,omitempty"`
}

// Point covers all four point shapes; unused fields stay zero.
type Point struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z,omitempty"`
	Label string  `json:"label,omitempty"`
	Name  string  `json:"name,omitempty"`
	Bin   string  `json:"bin,omitempty"`
}

type Series struct {
	Name         string     `json:"name,omitempty"`
	Type         SeriesType `json:"type"`
	ShowInLegend bool       `json:"showInLegend,omitempty"`
	IndexLabel   string     `json:"indexLabel,omitempty"`
	ToolTip      string     `json:"toolTipContent,omitempty"`
	Points       []Point    `json:"dataPoints"`
}

// Spec is a chart configuration scoped to one display region.
type Spec struct {
	Kind   Kind     `json:"kind"`
	Region string   `json:"region"`
	Title  string   `json:"title"`
	XAxis  Axis     `json:"axisX"`
	YAxis  Axis     `json:"axisY"`
	Legend bool     `json:"legend,omitempty"`
	Series []Series `json:"data"`
}

// PointCount sums the points of every series.
func (s Spec) PointCount() int {
	n := 0
	for _, se := range s.Series {
		n += len(se.Points)
	}
	return n
}

// Renderer draws a finished spec into its region.
type Renderer interface {
	Draw(ctx context.Context, spec Spec) error
}

type RendererFunc func(ctx context.Context, spec Spec) error

func (f RendererFunc) Draw(ctx context.Context, spec Spec) error { return f(ctx, spec) }

func float(v float64) *float64 { return &v }
