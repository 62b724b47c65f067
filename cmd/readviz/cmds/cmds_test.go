package cmds

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-go-golems/readviz/pkg/chart"
	"github.com/go-go-golems/readviz/pkg/chartjs"
	"github.com/go-go-golems/readviz/pkg/engine"
	"github.com/go-go-golems/readviz/pkg/form"
	"github.com/go-go-golems/readviz/pkg/protocol"
	"github.com/go-go-golems/readviz/pkg/stubserver"
	"github.com/go-go-golems/readviz/pkg/uistate"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := &cobra.Command{Use: "readviz", SilenceUsage: true, SilenceErrors: true}
	AddRootFlags(root)
	require.NoError(t, AddCommands(root))
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func stub(t *testing.T, ds *stubserver.Dataset) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(stubserver.NewRouter(stubserver.NewHandler(ds)))
	t.Cleanup(srv.Close)
	return srv
}

func TestSequenceCmdPrintsJSONChart(t *testing.T) {
	srv := stub(t, stubserver.SampleDataset(20))
	out, err := runRoot(t, "--base-url", srv.URL, "sequence", "--output", "json", "--min-seq-len", "0", "--max-seq-len", "1000")
	require.NoError(t, err)
	require.Contains(t, out, `"title": "Distribution of sequence length"`)
	require.Contains(t, out, `"region": "sequenceImage"`)
}

func TestNucleotideCmdDrawsBothOrientations(t *testing.T) {
	srv := stub(t, stubserver.SampleDataset(20))
	out, err := runRoot(t, "--base-url", srv.URL, "nucleotide", "-o", "json")
	require.NoError(t, err)
	require.Contains(t, out, "fwNucleotideImage")
	require.Contains(t, out, "rvcNucleotideImage")
}

func TestActionCmdFailureReportsRegionMessage(t *testing.T) {
	srv := stub(t, nil)
	_, err := runRoot(t, "--base-url", srv.URL, "paired")
	require.Error(t, err)
	require.Equal(t, string(uistate.RegionPairedError)+": "+uistate.MessageNoDataLoaded, err.Error())
}

func TestCalcIdentityCmdPrintsStatus(t *testing.T) {
	srv := stub(t, stubserver.SampleDataset(20))
	out, err := runRoot(t, "--base-url", srv.URL, "calc-identity")
	require.NoError(t, err)
	require.Contains(t, out, uistate.MessageIdentityCalculated)

	out, err = runRoot(t, "--base-url", srv.URL, "calc-identity")
	require.NoError(t, err)
	require.Contains(t, out, uistate.MessageIdentityPresent)
}

func TestUnknownOutputIsRejected(t *testing.T) {
	_, err := runRoot(t, "--base-url", "http://127.0.0.1:1", "sequence", "-o", "svg")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown output")
}

func TestExportCmdPrintsURL(t *testing.T) {
	out, err := runRoot(t, "--base-url", "http://example.test", "export-tsv", "--min-seq-len", "5")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(strings.TrimSpace(out), "http://example.test/api/export_tsv?minSL=5&"))
}

func TestExportCmdDownloads(t *testing.T) {
	srv := stub(t, stubserver.SampleDataset(10))
	dir := t.TempDir()
	out, err := runRoot(t, "--base-url", srv.URL, "export-tsv", "--out", dir)
	require.NoError(t, err)
	path := filepath.Join(dir, "export_data.tsv")
	require.Equal(t, path, strings.TrimSpace(out))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(b), "#"))
}

func TestConfigFileSuppliesBaseURLAndForm(t *testing.T) {
	srv := stub(t, nil)
	dir := t.TempDir()
	cfg := filepath.Join(dir, "readviz.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("base_url: "+srv.URL+"\nform:\n  min_seq_len: \"7\"\n"), 0o644))

	out, err := runRoot(t, "--config", cfg, "export-tsv")
	require.NoError(t, err)
	require.Contains(t, out, srv.URL+"/api/export_tsv?minSL=7&")
}

func TestFlagSourceLayering(t *testing.T) {
	fs := pflag.NewFlagSet("t", pflag.ContinueOnError)
	form.AddFlags(fs, form.Fields(protocol.ActionSequence), nil)
	require.NoError(t, fs.Parse([]string{"--max-seq-len", "50"}))

	src := newFlagSource(fs, map[string]string{"min_seq_len": "3", "max_seq_len": "9"})
	params := form.Collect(protocol.ActionSequence, src)
	require.Equal(t, protocol.Params{{Key: "min_seq_len", Value: "3"}, {Key: "max_seq_len", Value: "50"}}, params)
}

func TestHookChainStatsCountEngineRuns(t *testing.T) {
	srv := stub(t, stubserver.SampleDataset(20))
	script := filepath.Join(t.TempDir(), "retitle.js")
	require.NoError(t, os.WriteFile(script, []byte(`register({ name: "retitle", transform(c) { c.title = "hooked"; return c; } });`), 0o644))

	e, err := newEngine(context.Background(), rootOptions{
		BaseURL: srv.URL,
		Timeout: 5 * time.Second,
		Hooks:   []chartjs.Script{{Path: script}},
	})
	require.NoError(t, err)
	e.UI = uistate.NewController()
	var out bytes.Buffer
	e.Renderer = &chart.JSONRenderer{W: &out}

	resp := e.Run(context.Background(), protocol.ActionNucleotide, form.Defaults(nil))
	require.IsType(t, protocol.Success{}, resp)
	require.Contains(t, out.String(), `"title": "hooked"`)

	chain, ok := e.Hooks.(*chartjs.Chain)
	require.True(t, ok)
	st := chain.Stats()
	require.Equal(t, int64(2), st.ChartsProcessed)
	require.Equal(t, int64(2), st.ChartsTransformed)
	require.Zero(t, st.HookErrors)
	require.NotPanics(t, func() { logHookStats(e) })
	require.NotPanics(t, func() { logHookStats(engine.Engine{}) })
}
