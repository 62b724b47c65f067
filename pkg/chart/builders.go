package chart

import (
	"github.com/go-go-golems/readviz/pkg/protocol"
)

const (
	RegionSequence      = "sequenceImage"
	RegionPairs         = "pairsImage"
	RegionFwNucleotide  = "fwNucleotideImage"
	RegionRvcNucleotide = "rvcNucleotideImage"
	RegionIdentity      = "identityImage"

	TitleFwNucleotide  = "Forward Clustered Nucleotide Percentage"
	TitleRvcNucleotide = "Reverse Clustered Nucleotide Percentage"
)

func SequenceLength(p protocol.SequencePayload) Spec {
	return Spec{
		Kind:   KindSequenceLength,
		Region: RegionSequence,
		Title:  "Distribution of sequence length",
		XAxis:  Axis{Title: "Sequence length", Interval: 1},
		YAxis:  Axis{Title: "Count"},
		Legend: true,
		Series: []Series{
			columnSeries("Forward reads", p.Forward),
			columnSeries("Reverse reads", p.Reverse),
		},
	}
}

func columnSeries(name string, in []protocol.XY) Series {
	points := make([]Point, 0, len(in))
	for _, xy := range in {
		points = append(points, Point{X: xy.X, Y: xy.Y})
	}
	return Series{
		Name:         name,
		Type:         SeriesColumn,
		ShowInLegend: true,
		IndexLabel:   "{y}",
		Points:       points,
	}
}

func PairedPie(p protocol.PairedPayload) Spec {
	points := make([]Point, 0, len(p.Slices))
	for _, s := range p.Slices {
		points = append(points, Point{Name: s.Name, Y: s.Y})
	}
	return Spec{
		Kind:   KindPairedPie,
		Region: RegionPairs,
		Title:  "Percentage Paired reads",
		Legend: true,
		Series: []Series{{
			Type:         SeriesPie,
			ShowInLegend: true,
			ToolTip:      "{name}: <strong>{y}%</strong>",
			IndexLabel:   "{name} - {y}%",
			Points:       points,
		}},
	}
}

// NucleotideBubble builds one orientation's bubble chart. It is called once
// for forward and once for reverse-complement data.
func NucleotideBubble(in []protocol.Bubble, region, title string) Spec {
	if title == "" {
		title = "Clustered Nucleotide Percentage"
	}
	points := make([]Point, 0, len(in))
	for _, b := range in {
		points = append(points, Point{Label: b.Label, X: b.X, Y: b.Y, Z: b.Z, Bin: b.Bin})
	}
	return Spec{
		Kind:   KindNucleotideBubble,
		Region: region,
		Title:  title,
		XAxis:  Axis{Title: "Nucleotide"},
		YAxis:  Axis{Title: "Percentage", Minimum: float(0), Maximum: float(100)},
		Series: []Series{{
			Type:    SeriesBubble,
			ToolTip: "Nucleotide: {label} <br/>Percentage: {bin}% <br/>N. sequences: {z}",
			Points:  points,
		}},
	}
}

func IdentityColumn(p protocol.IdentityPayload) Spec {
	points := make([]Point, 0, len(p.Points))
	for _, xy := range p.Points {
		points = append(points, Point{X: xy.X, Y: xy.Y})
	}
	return Spec{
		Kind:   KindIdentityColumn,
		Region: RegionIdentity,
		Title:  "Similarities of the Forward and Reverse complement",
		XAxis: Axis{
			Title:       "Percentage of similarities (%)",
			Minimum:     float(0),
			Maximum:     float(100),
			ValueFormat: "###",
		},
		YAxis: Axis{Title: "Amount of sequences"},
		Series: []Series{{
			Type:       SeriesColumn,
			IndexLabel: "{y}",
			Points:     points,
		}},
	}
}
