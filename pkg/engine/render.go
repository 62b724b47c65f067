package engine

import (
	"context"

	"github.com/go-go-golems/readviz/pkg/chart"
	"github.com/go-go-golems/readviz/pkg/protocol"
	"github.com/go-go-golems/readviz/pkg/uistate"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// render builds every chart of payload and applies the hooks before the
// first draw, so a bad payload or hook never leaves a partial set of charts.
func (e *Engine) render(ctx context.Context, payload protocol.Payload) error {
	var specs []chart.Spec
	switch p := payload.(type) {
	case protocol.SequencePayload:
		specs = []chart.Spec{chart.SequenceLength(p)}
	case protocol.PairedPayload:
		specs = []chart.Spec{chart.PairedPie(p)}
	case protocol.NucleotidePayload:
		specs = []chart.Spec{
			chart.NucleotideBubble(p.Forward, chart.RegionFwNucleotide, chart.TitleFwNucleotide),
			chart.NucleotideBubble(p.ReverseComplement, chart.RegionRvcNucleotide, chart.TitleRvcNucleotide),
		}
	case protocol.IdentityPayload:
		specs = []chart.Spec{chart.IdentityColumn(p)}
	case protocol.CalcIdentityPayload:
		msg := uistate.MessageIdentityPresent
		if p.Calculated {
			msg = uistate.MessageIdentityCalculated
		}
		e.UI.WriteStatus(uistate.RegionIdentityStatus, msg)
		return nil
	case protocol.DiamondPayload:
		log.Info().Str("action", string(protocol.ActionDiamond)).Str("body", p.Body).Msg("diamond response")
		return nil
	default:
		return errors.Errorf("no renderer for %T", payload)
	}

	for i := range specs {
		specs[i] = e.transform(ctx, specs[i])
	}
	if e.Renderer == nil {
		return nil
	}
	for _, spec := range specs {
		if err := e.Renderer.Draw(ctx, spec); err != nil {
			return errors.Wrapf(err, "draw %s", spec.Region)
		}
	}
	return nil
}

func (e *Engine) transform(ctx context.Context, spec chart.Spec) chart.Spec {
	if e.Hooks == nil {
		return spec
	}
	out, err := e.Hooks.Transform(ctx, spec)
	if err != nil {
		log.Warn().Err(err).Str("chart", string(spec.Kind)).Msg("chart hook failed, drawing original")
		return spec
	}
	return out
}
