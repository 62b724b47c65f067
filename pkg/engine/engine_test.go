package engine

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/go-go-golems/readviz/pkg/chart"
	"github.com/go-go-golems/readviz/pkg/form"
	"github.com/go-go-golems/readviz/pkg/protocol"
	"github.com/go-go-golems/readviz/pkg/uistate"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type clientFunc func(ctx context.Context, req protocol.ActionRequest) protocol.Response

func (f clientFunc) Do(ctx context.Context, req protocol.ActionRequest) protocol.Response {
	return f(ctx, req)
}

func (f clientFunc) ExportURL(params protocol.Params) string {
	return "http://stub/api/export_tsv?" + fmt.Sprint(params.Keys())
}

func respondWith(resp protocol.Response) clientFunc {
	return func(context.Context, protocol.ActionRequest) protocol.Response { return resp }
}

type recordingUI struct {
	*uistate.Controller

	mu    sync.Mutex
	calls []string
}

func newRecordingUI() *recordingUI {
	return &recordingUI{Controller: uistate.NewController()}
}

func (r *recordingUI) record(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, name)
}

func (r *recordingUI) count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (r *recordingUI) BeginAction()      { r.record("begin"); r.Controller.BeginAction() }
func (r *recordingUI) EndActionSuccess() { r.record("success"); r.Controller.EndActionSuccess() }
func (r *recordingUI) ReleaseControls()  { r.record("release"); r.Controller.ReleaseControls() }
func (r *recordingUI) EndActionFailure(region uistate.Region, message string) {
	r.record("failure")
	r.Controller.EndActionFailure(region, message)
}
func (r *recordingUI) WriteStatus(region uistate.Region, message string) {
	r.record("status")
	r.Controller.WriteStatus(region, message)
}
func (r *recordingUI) SetLoading(region uistate.Region, loading bool) {
	r.record(fmt.Sprintf("loading:%t", loading))
	r.Controller.SetLoading(region, loading)
}

func newEngine(c clientFunc) (*Engine, *recordingUI, *chart.Recorder) {
	ui := newRecordingUI()
	rec := &chart.Recorder{}
	return &Engine{Client: c, UI: ui, Renderer: rec}, ui, rec
}

func run(e *Engine, kind protocol.ActionKind) protocol.Response {
	return e.Run(context.Background(), kind, form.Defaults(nil))
}

func TestSuccessRendersEveryPointAndReleasesOnce(t *testing.T) {
	cases := []struct {
		kind    protocol.ActionKind
		payload protocol.Payload
		points  []int
	}{
		{
			kind: protocol.ActionSequence,
			payload: protocol.SequencePayload{
				Forward: []protocol.XY{{X: 10, Y: 3}, {X: 11, Y: 4}},
				Reverse: []protocol.XY{{X: 10, Y: 1}},
			},
			points: []int{3},
		},
		{
			kind:    protocol.ActionPaired,
			payload: protocol.PairedPayload{Slices: []protocol.Slice{{Name: "True", Y: 60}, {Name: "False", Y: 40}}},
			points:  []int{2},
		},
		{
			kind: protocol.ActionNucleotide,
			payload: protocol.NucleotidePayload{
				Forward:           []protocol.Bubble{{Label: "A", X: 0, Y: 25, Z: 3, Bin: "20-30"}},
				ReverseComplement: []protocol.Bubble{{Label: "A", X: 0, Y: 25, Z: 3}, {Label: "T", X: 1, Y: 5, Z: 1}},
			},
			points: []int{1, 2},
		},
		{
			kind:    protocol.ActionIdentity,
			payload: protocol.IdentityPayload{Points: []protocol.XY{{X: 98, Y: 12}, {X: 99, Y: 40}, {X: 100, Y: 7}}},
			points:  []int{3},
		},
	}
	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			e, ui, rec := newEngine(respondWith(protocol.Success{Payload: tc.payload}))
			resp := run(e, tc.kind)
			require.IsType(t, protocol.Success{}, resp)

			drawn := rec.Drawn()
			require.Len(t, drawn, len(tc.points))
			for i, want := range tc.points {
				require.Equal(t, want, drawn[i].PointCount())
			}
			require.Equal(t, 1, ui.count("success"))
			require.Equal(t, 0, ui.count("failure"))
			require.True(t, ui.Snapshot().ControlsEnabled)
		})
	}
}

func TestEmptyPayloadsDrawEmptyCharts(t *testing.T) {
	payloads := map[protocol.ActionKind]protocol.Payload{
		protocol.ActionSequence:   protocol.SequencePayload{},
		protocol.ActionPaired:     protocol.PairedPayload{},
		protocol.ActionNucleotide: protocol.NucleotidePayload{},
		protocol.ActionIdentity:   protocol.IdentityPayload{},
	}
	for kind, p := range payloads {
		e, ui, rec := newEngine(respondWith(protocol.Success{Payload: p}))
		require.IsType(t, protocol.Success{}, run(e, kind), kind)
		require.NotEmpty(t, rec.Drawn(), kind)
		for _, spec := range rec.Drawn() {
			require.Zero(t, spec.PointCount(), kind)
		}
		require.Equal(t, 1, ui.count("success"), kind)
	}
}

func TestSequenceExample(t *testing.T) {
	var got protocol.ActionRequest
	e, _, rec := newEngine(func(_ context.Context, req protocol.ActionRequest) protocol.Response {
		got = req
		p, err := protocol.Decode(req.Kind, []byte(`{"fw_seq_length":[{"x":10,"y":3}],"rv_seq_length":[{"x":10,"y":1}]}`))
		require.NoError(t, err)
		return protocol.Success{Payload: p}
	})

	e.Run(context.Background(), protocol.ActionSequence, form.MapSource{"min_seq_len": "10", "max_seq_len": "50"})

	require.Equal(t, protocol.Params{{Key: "min_seq_len", Value: "10"}, {Key: "max_seq_len", Value: "50"}}, got.Params)
	drawn := rec.Drawn()
	require.Len(t, drawn, 1)
	require.Len(t, drawn[0].Series, 2)
	require.Equal(t, []chart.Point{{X: 10, Y: 3}}, drawn[0].Series[0].Points)
	require.Equal(t, []chart.Point{{X: 10, Y: 1}}, drawn[0].Series[1].Points)
}

func TestPairedExample(t *testing.T) {
	p, err := protocol.Decode(protocol.ActionPaired, []byte(`[{"name":"Paired","y":70},{"name":"Unpaired","y":30}]`))
	require.NoError(t, err)
	e, _, rec := newEngine(respondWith(protocol.Success{Payload: p}))
	run(e, protocol.ActionPaired)

	drawn := rec.Drawn()
	require.Len(t, drawn, 1)
	require.Equal(t, 2, drawn[0].PointCount())
	sum := 0.0
	for _, pt := range drawn[0].Series[0].Points {
		sum += pt.Y
	}
	require.Equal(t, 100.0, sum)
}

func TestKnownStatusFailuresWriteOneMessageAndNeverRender(t *testing.T) {
	codes := map[protocol.ErrorCode]string{
		protocol.ErrNoDataLoaded: uistate.MessageNoDataLoaded,
		protocol.ErrNotFound:     uistate.MessageNotFound,
		protocol.ErrServerError:  uistate.MessageServerError,
	}
	kinds := []protocol.ActionKind{
		protocol.ActionSequence, protocol.ActionPaired, protocol.ActionNucleotide,
		protocol.ActionIdentity, protocol.ActionCalcIdentity, protocol.ActionDiamond,
	}
	for _, kind := range kinds {
		for code, msg := range codes {
			e, ui, rec := newEngine(respondWith(protocol.Failure{Code: code}))
			resp := run(e, kind)
			require.Equal(t, code, resp.(protocol.Failure).Code)

			require.Empty(t, rec.Drawn(), "%s/%s", kind, code)
			require.Equal(t, 1, ui.count("failure"))
			require.Equal(t, 0, ui.count("success"))

			s := ui.Snapshot()
			region := uistate.ErrorRegionFor(kind)
			require.Equal(t, []uistate.Region{region}, s.ErrorRegions())
			require.Equal(t, msg, s.Error(region))
		}
	}
}

func TestLegacyPolicyKeepsIdentityAndDiamondDisabled(t *testing.T) {
	stay := map[protocol.ActionKind]bool{
		protocol.ActionSequence:     false,
		protocol.ActionPaired:       false,
		protocol.ActionNucleotide:   false,
		protocol.ActionIdentity:     true,
		protocol.ActionCalcIdentity: true,
		protocol.ActionDiamond:      true,
	}
	for kind, disabled := range stay {
		e, ui, _ := newEngine(respondWith(protocol.Failure{Code: protocol.ErrServerError}))
		run(e, kind)
		require.Equal(t, !disabled, ui.Snapshot().ControlsEnabled, kind)
	}
}

func TestReenablePolicyAndUnhandledRelease(t *testing.T) {
	e, ui, _ := newEngine(respondWith(protocol.Failure{Code: protocol.ErrNoDataLoaded}))
	e.Policy = Policy{ReenableOnFailure: true}
	run(e, protocol.ActionDiamond)
	require.True(t, ui.Snapshot().ControlsEnabled)

	e, ui, _ = newEngine(respondWith(protocol.Failure{Code: protocol.ErrUnhandled, Status: 418}))
	run(e, protocol.ActionIdentity)
	s := ui.Snapshot()
	require.True(t, s.ControlsEnabled)
	require.Equal(t, uistate.MessageUnhandled, s.Error(uistate.RegionIdentityError))
}

func TestCalcIdentityStatusAndLoader(t *testing.T) {
	for calculated, msg := range map[bool]string{
		true:  uistate.MessageIdentityCalculated,
		false: uistate.MessageIdentityPresent,
	} {
		e, ui, rec := newEngine(respondWith(protocol.Success{Payload: protocol.CalcIdentityPayload{Calculated: calculated}}))
		run(e, protocol.ActionCalcIdentity)
		s := ui.Snapshot()
		require.Equal(t, msg, s.Status[uistate.RegionIdentityStatus])
		require.Empty(t, s.Loading)
		require.True(t, s.ControlsEnabled)
		require.Empty(t, rec.Drawn())
		require.Equal(t, 1, ui.count("loading:true"))
		require.Equal(t, 1, ui.count("loading:false"))
	}

	e, ui, _ := newEngine(respondWith(protocol.Failure{Code: protocol.ErrNoDataLoaded}))
	run(e, protocol.ActionCalcIdentity)
	s := ui.Snapshot()
	require.Empty(t, s.Loading)
	require.Empty(t, s.Status)
	require.Equal(t, uistate.MessageNoDataLoaded, s.Error(uistate.RegionIdentityError))
}

func TestDiamondSuccessReleasesWithoutChart(t *testing.T) {
	e, ui, rec := newEngine(respondWith(protocol.Success{Payload: protocol.DiamondPayload{Body: "diamond completed"}}))
	run(e, protocol.ActionDiamond)
	require.Empty(t, rec.Drawn())
	require.Equal(t, 1, ui.count("begin"))
	require.Equal(t, 1, ui.count("success"))
}

func TestMismatchedPayloadIsUnhandled(t *testing.T) {
	e, ui, rec := newEngine(respondWith(protocol.Success{Payload: protocol.DiamondPayload{}}))
	resp := run(e, protocol.ActionSequence)
	require.Equal(t, protocol.ErrUnhandled, resp.(protocol.Failure).Code)
	require.Empty(t, rec.Drawn())
	require.Equal(t, uistate.MessageUnhandled, ui.Snapshot().Error(uistate.RegionSequenceError))
}

func TestRendererErrorIsUnhandled(t *testing.T) {
	e, ui, _ := newEngine(respondWith(protocol.Success{Payload: protocol.PairedPayload{}}))
	e.Renderer = chart.RendererFunc(func(context.Context, chart.Spec) error { return errors.New("boom") })
	resp := run(e, protocol.ActionPaired)
	require.Equal(t, protocol.ErrUnhandled, resp.(protocol.Failure).Code)
	require.Equal(t, 0, ui.count("success"))
	require.True(t, ui.Snapshot().ControlsEnabled)
}

type hookFunc func(ctx context.Context, spec chart.Spec) (chart.Spec, error)

func (f hookFunc) Transform(ctx context.Context, spec chart.Spec) (chart.Spec, error) {
	return f(ctx, spec)
}

func TestHooksTransformOrFallBack(t *testing.T) {
	e, _, rec := newEngine(respondWith(protocol.Success{Payload: protocol.IdentityPayload{}}))
	e.Hooks = hookFunc(func(_ context.Context, spec chart.Spec) (chart.Spec, error) {
		spec.Title = "retitled"
		return spec, nil
	})
	run(e, protocol.ActionIdentity)
	require.Equal(t, "retitled", rec.Drawn()[0].Title)

	e, _, rec = newEngine(respondWith(protocol.Success{Payload: protocol.IdentityPayload{}}))
	e.Hooks = hookFunc(func(_ context.Context, spec chart.Spec) (chart.Spec, error) {
		return chart.Spec{}, errors.New("bad hook")
	})
	run(e, protocol.ActionIdentity)
	require.Equal(t, chart.IdentityColumn(protocol.IdentityPayload{}).Title, rec.Drawn()[0].Title)
}

func TestExecuteRejectsExport(t *testing.T) {
	e, ui, _ := newEngine(respondWith(protocol.Success{}))
	resp := e.Execute(context.Background(), protocol.NewActionRequest(protocol.ActionExportTSV, nil))
	require.ErrorIs(t, resp.(protocol.Failure).Err, protocol.ErrUnknownAction)
	require.Equal(t, 0, ui.count("begin"))
}

type navRecorder struct{ urls []string }

func (n *navRecorder) Navigate(_ context.Context, u string) error {
	n.urls = append(n.urls, u)
	return nil
}

func TestExportLeavesUIUntouched(t *testing.T) {
	e, ui, _ := newEngine(respondWith(nil))
	nav := &navRecorder{}
	e.Navigator = nav
	ui.Controller.EndActionFailure(uistate.RegionSequenceError, "old")

	u, err := e.Export(context.Background(), form.Defaults(nil))
	require.NoError(t, err)
	require.Equal(t, []string{u}, nav.urls)
	require.Empty(t, ui.calls)
	require.Equal(t, "old", ui.Snapshot().Error(uistate.RegionSequenceError))
}

// Responses are applied in arrival order with no request fencing: a slow
// failure that lands after a newer success overwrites the newer state.
func TestStaleResponseOverwritesNewerState(t *testing.T) {
	slow := make(chan struct{})
	e, ui, _ := newEngine(func(_ context.Context, req protocol.ActionRequest) protocol.Response {
		if v, _ := req.Params.Get("min_seq_len"); v == "slow" {
			<-slow
			return protocol.Failure{Code: protocol.ErrServerError}
		}
		return protocol.Success{Payload: protocol.SequencePayload{}}
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		e.Run(context.Background(), protocol.ActionSequence, form.MapSource{"min_seq_len": "slow"})
	}()
	require.Eventually(t, func() bool { return ui.count("begin") == 1 }, time.Second, 5*time.Millisecond)

	e.Run(context.Background(), protocol.ActionSequence, form.MapSource{"min_seq_len": "fast"})
	require.Empty(t, ui.Snapshot().ErrorRegions())

	close(slow)
	<-done
	require.Equal(t, uistate.MessageServerError, ui.Snapshot().Error(uistate.RegionSequenceError))
}

func TestNucleotideTransformsBothChartsBeforeDrawing(t *testing.T) {
	var mu sync.Mutex
	var order []string
	note := func(s string) {
		mu.Lock()
		defer mu.Unlock()
		order = append(order, s)
	}

	e, ui, _ := newEngine(respondWith(protocol.Success{Payload: protocol.NucleotidePayload{}}))
	e.Hooks = hookFunc(func(_ context.Context, spec chart.Spec) (chart.Spec, error) {
		note("transform:" + spec.Region)
		return spec, nil
	})
	e.Renderer = chart.RendererFunc(func(_ context.Context, spec chart.Spec) error {
		note("draw:" + spec.Region)
		return nil
	})
	_, ok := run(e, protocol.ActionNucleotide).(protocol.Success)
	require.True(t, ok)
	require.Equal(t, []string{
		"transform:" + chart.RegionFwNucleotide,
		"transform:" + chart.RegionRvcNucleotide,
		"draw:" + chart.RegionFwNucleotide,
		"draw:" + chart.RegionRvcNucleotide,
	}, order)
	require.Equal(t, 1, ui.count("success"))
}

// A renderer that fails on the second chart has already drawn the first; the
// action still ends in a single failure write and no success.
func TestNucleotideSecondDrawFailure(t *testing.T) {
	e, ui, _ := newEngine(respondWith(protocol.Success{Payload: protocol.NucleotidePayload{}}))
	var drawn []string
	e.Renderer = chart.RendererFunc(func(_ context.Context, spec chart.Spec) error {
		if spec.Region == chart.RegionRvcNucleotide {
			return errors.New("terminal closed")
		}
		drawn = append(drawn, spec.Region)
		return nil
	})
	resp := run(e, protocol.ActionNucleotide)
	require.Equal(t, protocol.ErrUnhandled, resp.(protocol.Failure).Code)
	require.Equal(t, []string{chart.RegionFwNucleotide}, drawn)
	require.Equal(t, 1, ui.count("failure"))
	require.Equal(t, 0, ui.count("success"))
	require.Equal(t, uistate.MessageUnhandled, ui.Snapshot().Error(uistate.RegionNucleotideError))
}
