package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-go-golems/readviz/pkg/chart"
	"github.com/go-go-golems/readviz/pkg/engine"
	"github.com/go-go-golems/readviz/pkg/protocol"
	"github.com/go-go-golems/readviz/pkg/uistate"
	"github.com/rs/zerolog/log"
)

// busController applies mutations to a shared controller and publishes the
// resulting state after each one.
type busController struct {
	ctrl *uistate.Controller
	pub  message.Publisher
}

var _ engine.Controller = (*busController)(nil)

func (c *busController) emit() {
	ev := UIStateChanged{At: time.Now(), State: c.ctrl.Snapshot()}
	if err := publishEnvelope(c.pub, TopicReadvizEvents, DomainTypeUIState, ev); err != nil {
		log.Warn().Err(err).Msg("publish ui state")
	}
}

func (c *busController) BeginAction()      { c.ctrl.BeginAction(); c.emit() }
func (c *busController) EndActionSuccess() { c.ctrl.EndActionSuccess(); c.emit() }
func (c *busController) ReleaseControls()  { c.ctrl.ReleaseControls(); c.emit() }

func (c *busController) EndActionFailure(region uistate.Region, message string) {
	c.ctrl.EndActionFailure(region, message)
	c.emit()
}

func (c *busController) WriteStatus(region uistate.Region, message string) {
	c.ctrl.WriteStatus(region, message)
	c.emit()
}

func (c *busController) SetLoading(region uistate.Region, loading bool) {
	c.ctrl.SetLoading(region, loading)
	c.emit()
}

func busRenderer(pub message.Publisher) chart.Renderer {
	return chart.RendererFunc(func(ctx context.Context, spec chart.Spec) error {
		_ = ctx
		return publishEnvelope(pub, TopicReadvizEvents, DomainTypeChartDrawn, ChartDrawn{At: time.Now(), Spec: spec})
	})
}

// RegisterUIActionRunner executes action requests published by the UI. The
// engine's UI controller and renderer are replaced by bus-backed ones; all
// other fields are used as given. Requests run one at a time, in arrival
// order.
func RegisterUIActionRunner(bus *Bus, e engine.Engine) *uistate.Controller {
	ctrl := uistate.NewController()
	e.UI = &busController{ctrl: ctrl, pub: bus.Publisher}
	e.Renderer = busRenderer(bus.Publisher)

	bus.AddHandler("readviz-ui-actions", TopicUIActions, func(msg *message.Message) error {
		defer msg.Ack()

		var env Envelope
		if err := json.Unmarshal(msg.Payload, &env); err != nil {
			_ = publishActionLog(bus.Publisher, "action: bad envelope (unmarshal failed)")
			return nil
		}
		if env.Type != UITypeActionRequest {
			return nil
		}
		ae, err := decodePayload[ActionEnvelope](env)
		if err != nil {
			_ = publishActionLog(bus.Publisher, "action: bad request (unmarshal failed)")
			return nil
		}
		req := ae.Request

		ctx := msg.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		_ = publishActionLog(bus.Publisher, "action start: "+string(req.Kind))
		done := ActionFinished{RequestID: req.ID, Kind: req.Kind}

		if req.Kind == protocol.ActionExportTSV {
			u, err := e.ExportParams(ctx, req.Params)
			done.ExportURL = u
			done.Ok = err == nil
			if err != nil {
				done.Error = err.Error()
			}
		} else {
			switch r := e.Execute(ctx, req).(type) {
			case protocol.Success:
				done.Ok = true
			case protocol.Failure:
				done.Code = r.Code
				done.Error = r.Error()
			}
		}

		done.At = time.Now()
		if err := publishEnvelope(bus.Publisher, TopicReadvizEvents, DomainTypeActionFinished, done); err != nil {
			log.Warn().Err(err).Msg("publish action finished")
		}
		return nil
	})
	return ctrl
}

func publishActionLog(pub message.Publisher, text string) error {
	return publishEnvelope(pub, TopicReadvizEvents, DomainTypeActionLog, ActionLog{At: time.Now(), Text: text})
}

func describeFinished(ev ActionFinished) (LogLevel, string) {
	switch {
	case ev.Ok && ev.ExportURL != "":
		return LogLevelInfo, fmt.Sprintf("export: %s", ev.ExportURL)
	case ev.Ok:
		return LogLevelInfo, fmt.Sprintf("action ok: %s", ev.Kind)
	case ev.Error != "":
		return LogLevelError, fmt.Sprintf("action failed: %s: %s", ev.Kind, ev.Error)
	default:
		return LogLevelError, fmt.Sprintf("action failed: %s", ev.Kind)
	}
}
