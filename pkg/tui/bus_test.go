package tui

import (
	"context"
	"strconv"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-go-golems/readviz/pkg/chart"
	"github.com/go-go-golems/readviz/pkg/engine"
	"github.com/go-go-golems/readviz/pkg/protocol"
	"github.com/go-go-golems/readviz/pkg/uistate"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fakeClient struct {
	resp protocol.Response
}

func (f fakeClient) Do(ctx context.Context, req protocol.ActionRequest) protocol.Response {
	return f.resp
}

func (f fakeClient) ExportURL(params protocol.Params) string {
	return "http://stub/api/export_tsv?n=" + strconv.Itoa(len(params))
}

type chanSender struct {
	ch chan tea.Msg
}

func (s chanSender) Send(msg tea.Msg) { s.ch <- msg }

type harness struct {
	bus    *Bus
	msgs   chan tea.Msg
	ctrl   *uistate.Controller
	cancel context.CancelFunc
	done   chan error
}

func startHarness(t *testing.T, client fakeClient) *harness {
	t.Helper()
	bus, err := NewInMemoryBus()
	require.NoError(t, err)

	h := &harness{bus: bus, msgs: make(chan tea.Msg, 256), done: make(chan error, 1)}
	h.ctrl = RegisterUIActionRunner(bus, engine.Engine{Client: client})
	RegisterDomainToUITransformer(bus)
	RegisterUIForwarder(bus, chanSender{ch: h.msgs})

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	go func() { h.done <- bus.Run(ctx) }()

	select {
	case <-bus.Running():
	case <-time.After(5 * time.Second):
		t.Fatal("bus did not start")
	}
	return h
}

func (h *harness) stop(t *testing.T) {
	t.Helper()
	h.cancel()
	select {
	case err := <-h.done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("bus did not stop")
	}
}

// collect reads messages until an ActionFinishedMsg arrives.
func (h *harness) collect(t *testing.T) []tea.Msg {
	t.Helper()
	var out []tea.Msg
	timeout := time.After(5 * time.Second)
	for {
		select {
		case msg := <-h.msgs:
			out = append(out, msg)
			if _, ok := msg.(ActionFinishedMsg); ok {
				return out
			}
		case <-timeout:
			t.Fatalf("no ActionFinishedMsg, got %d messages", len(out))
			return nil
		}
	}
}

func lastState(t *testing.T, msgs []tea.Msg) uistate.State {
	t.Helper()
	for i := len(msgs) - 1; i >= 0; i-- {
		if m, ok := msgs[i].(UIStateMsg); ok {
			return m.State
		}
	}
	t.Fatal("no UIStateMsg")
	return uistate.State{}
}

func TestBus_SequenceRoundTrip(t *testing.T) {
	defer goleak.VerifyNone(t)

	h := startHarness(t, fakeClient{resp: protocol.Success{Payload: protocol.SequencePayload{
		Forward: []protocol.XY{{X: 10, Y: 3}},
		Reverse: []protocol.XY{{X: 10, Y: 1}},
	}}})

	req := protocol.NewActionRequest(protocol.ActionSequence, protocol.Params{{Key: "min_seq_len", Value: "10"}})
	require.NoError(t, PublishAction(h.bus.Publisher, req))
	msgs := h.collect(t)
	h.stop(t)

	var charts []chart.Spec
	var texts []string
	for _, m := range msgs {
		switch v := m.(type) {
		case ChartMsg:
			charts = append(charts, v.Spec)
		case EventLogAppendMsg:
			texts = append(texts, v.Entry.Text)
		}
	}
	require.Len(t, charts, 1)
	require.Equal(t, chart.RegionSequence, charts[0].Region)
	require.Equal(t, 2, charts[0].PointCount())
	require.Contains(t, texts, "action start: sequence")

	done := msgs[len(msgs)-1].(ActionFinishedMsg).Event
	require.True(t, done.Ok)
	require.Equal(t, req.ID, done.RequestID)

	require.True(t, lastState(t, msgs).ControlsEnabled)
	require.True(t, h.ctrl.Snapshot().ControlsEnabled)
}

func TestBus_DiamondFailureKeepsControlsDisabled(t *testing.T) {
	defer goleak.VerifyNone(t)

	h := startHarness(t, fakeClient{resp: protocol.Failure{Code: protocol.ErrServerError, Status: 500}})
	require.NoError(t, PublishAction(h.bus.Publisher, protocol.NewActionRequest(protocol.ActionDiamond, nil)))
	msgs := h.collect(t)
	h.stop(t)

	s := lastState(t, msgs)
	require.False(t, s.ControlsEnabled)
	require.Equal(t, uistate.MessageServerError, s.Error(uistate.RegionDiamondError))

	done := msgs[len(msgs)-1].(ActionFinishedMsg).Event
	require.False(t, done.Ok)
	require.Equal(t, protocol.ErrServerError, done.Code)
}

func TestBus_ExportDoesNotTouchState(t *testing.T) {
	defer goleak.VerifyNone(t)

	h := startHarness(t, fakeClient{})
	params := protocol.Params{{Key: "minSL", Value: "1"}, {Key: "maxSL", Value: "2"}}
	require.NoError(t, PublishAction(h.bus.Publisher, protocol.NewActionRequest(protocol.ActionExportTSV, params)))
	msgs := h.collect(t)
	h.stop(t)

	for _, m := range msgs {
		_, isState := m.(UIStateMsg)
		require.False(t, isState)
	}
	done := msgs[len(msgs)-1].(ActionFinishedMsg).Event
	require.True(t, done.Ok)
	require.Equal(t, "http://stub/api/export_tsv?n=2", done.ExportURL)
}

func TestPublishAction_Validates(t *testing.T) {
	require.Error(t, PublishAction(nil, protocol.NewActionRequest(protocol.ActionSequence, nil)))

	bus, err := NewInMemoryBus()
	require.NoError(t, err)
	defer func() { _ = bus.Publisher.Close() }()
	require.ErrorIs(t, PublishAction(bus.Publisher, protocol.ActionRequest{Kind: "bogus"}), protocol.ErrUnknownAction)
	require.Error(t, PublishAction(bus.Publisher, protocol.ActionRequest{}))
}

func TestEnvelope_RoundTrip(t *testing.T) {
	env, err := NewEnvelope(DomainTypeActionLog, ActionLog{Text: "hi"})
	require.NoError(t, err)
	got, err := decodePayload[ActionLog](env)
	require.NoError(t, err)
	require.Equal(t, "hi", got.Text)

	_, err = NewEnvelope("", nil)
	require.Error(t, err)
}
