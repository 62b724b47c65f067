package engine

import (
	"context"

	"github.com/go-go-golems/readviz/pkg/chart"
	"github.com/go-go-golems/readviz/pkg/dispatch"
	"github.com/go-go-golems/readviz/pkg/form"
	"github.com/go-go-golems/readviz/pkg/protocol"
	"github.com/go-go-golems/readviz/pkg/uistate"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Controller is the subset of UI state mutations the engine performs.
// *uistate.Controller implements it.
type Controller interface {
	BeginAction()
	EndActionSuccess()
	EndActionFailure(region uistate.Region, message string)
	ReleaseControls()
	WriteStatus(region uistate.Region, message string)
	SetLoading(region uistate.Region, loading bool)
}

var _ Controller = (*uistate.Controller)(nil)

// ChartTransformer rewrites a chart before it is drawn.
type ChartTransformer interface {
	Transform(ctx context.Context, spec chart.Spec) (chart.Spec, error)
}

// Policy decides whether controls come back after a failure.
type Policy struct {
	// ReenableOnFailure releases controls after every failure. When false,
	// identity, calc_identity and diamond failures with a known status leave
	// controls disabled.
	ReenableOnFailure bool
}

func (p Policy) releaseAfter(kind protocol.ActionKind, code protocol.ErrorCode) bool {
	if p.ReenableOnFailure || code == protocol.ErrUnhandled {
		return true
	}
	switch kind {
	case protocol.ActionIdentity, protocol.ActionCalcIdentity, protocol.ActionDiamond:
		return false
	default:
		return true
	}
}

type Engine struct {
	Client    dispatch.Client
	UI        Controller
	Renderer  chart.Renderer
	Hooks     ChartTransformer
	Navigator dispatch.Navigator
	Policy    Policy
}

// Run collects the parameters of kind from src and executes the action.
func (e *Engine) Run(ctx context.Context, kind protocol.ActionKind, src form.Source) protocol.Response {
	return e.Execute(ctx, protocol.NewActionRequest(kind, form.Collect(kind, src)))
}

// Execute performs one action end to end. Every call ends in exactly one of:
// an error region write, or a render followed by one EndActionSuccess.
func (e *Engine) Execute(ctx context.Context, req protocol.ActionRequest) protocol.Response {
	if ep, ok := req.Kind.Endpoint(); !ok || ep.Navigate {
		f := protocol.Failure{Code: protocol.ErrUnhandled, Err: errors.Wrapf(protocol.ErrUnknownAction, "%q is not a request action", req.Kind)}
		log.Warn().Err(f.Err).Msg("rejected action")
		return f
	}

	e.UI.BeginAction()
	if req.Kind == protocol.ActionCalcIdentity {
		e.UI.SetLoading(uistate.RegionIdentityLoader, true)
		defer e.UI.SetLoading(uistate.RegionIdentityLoader, false)
	}

	resp := e.Client.Do(ctx, req)
	switch r := resp.(type) {
	case protocol.Success:
		if err := e.succeed(ctx, req, r.Payload); err != nil {
			f := protocol.Failure{Code: protocol.ErrUnhandled, Err: err}
			e.fail(req, f)
			return f
		}
		return r
	case protocol.Failure:
		e.fail(req, r)
		return r
	default:
		f := protocol.Failure{Code: protocol.ErrUnhandled, Err: errors.Errorf("unexpected response %T", resp)}
		e.fail(req, f)
		return f
	}
}

func (e *Engine) succeed(ctx context.Context, req protocol.ActionRequest, payload protocol.Payload) error {
	if payload == nil || payload.Kind() != req.Kind {
		return errors.Errorf("%s: payload type %T does not match action", req.Kind, payload)
	}
	if err := e.render(ctx, payload); err != nil {
		return err
	}
	e.UI.EndActionSuccess()
	log.Debug().Str("action", string(req.Kind)).Str("request_id", req.ID).Msg("action done")
	return nil
}

func (e *Engine) fail(req protocol.ActionRequest, f protocol.Failure) {
	region := uistate.ErrorRegionFor(req.Kind)
	e.UI.EndActionFailure(region, uistate.MessageFor(f.Code))
	release := e.Policy.releaseAfter(req.Kind, f.Code)
	if release {
		e.UI.ReleaseControls()
	}
	log.Debug().
		Err(f.Err).
		Str("action", string(req.Kind)).
		Str("request_id", req.ID).
		Str("code", string(f.Code)).
		Int("status", f.Status).
		Bool("released", release).
		Msg("action failed")
}

// Export builds the export URL from src and hands it to the navigator. It
// never touches UI state.
func (e *Engine) Export(ctx context.Context, src form.Source) (string, error) {
	return e.ExportParams(ctx, form.Collect(protocol.ActionExportTSV, src))
}

func (e *Engine) ExportParams(ctx context.Context, params protocol.Params) (string, error) {
	u := e.Client.ExportURL(params)
	if e.Navigator == nil {
		return u, nil
	}
	if err := e.Navigator.Navigate(ctx, u); err != nil {
		return u, errors.Wrap(err, "navigate export")
	}
	return u, nil
}
