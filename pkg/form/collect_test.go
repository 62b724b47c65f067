package form

import (
	"testing"

	"github.com/go-go-golems/readviz/pkg/protocol"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func TestCollect_SequenceReadsVerbatim(t *testing.T) {
	params := Collect(protocol.ActionSequence, MapSource{"min_seq_len": " 10", "max_seq_len": "abc"})
	require.Equal(t, protocol.Params{
		{Key: "min_seq_len", Value: " 10"},
		{Key: "max_seq_len", Value: "abc"},
	}, params)
}

func TestCollect_MissingControls(t *testing.T) {
	params := Collect(protocol.ActionExportTSV, MapSource{"min_seq_len": "5"})
	require.Len(t, params, 12)

	v, ok := params.Get("minSL")
	require.True(t, ok)
	require.Equal(t, "5", v)

	v, _ = params.Get("maxSL")
	require.Equal(t, "", v)
	v, _ = params.Get("filterP")
	require.Equal(t, "false", v)

	require.Equal(t, protocol.Params{{Key: "FilterPaired", Value: "false"}}, Collect(protocol.ActionPaired, nil))
}

func TestCollect_CalcIdentityHasNoParams(t *testing.T) {
	require.Empty(t, Collect(protocol.ActionCalcIdentity, Defaults(nil)))
}

func TestCollect_DiamondOrder(t *testing.T) {
	params := Collect(protocol.ActionDiamond, MapSource{"sensitive": "true", "evalue": "0.001"})
	require.Equal(t, []string{
		"maxTargetSeqs", "evalue", "sensitive", "moreSensitive", "frameshift", "gapOpen", "gapExtend",
		"matrix", "algorithm", "outfmt", "compress", "minScore", "id", "queryCover", "subjectCover", "maxHSPS",
	}, params.Keys())
	v, _ := params.Get("sensitive")
	require.Equal(t, "true", v)
	v, _ = params.Get("moreSensitive")
	require.Equal(t, "false", v)
}

func TestFlagSource(t *testing.T) {
	fs := pflag.NewFlagSet("t", pflag.ContinueOnError)
	AddFlags(fs, Fields(protocol.ActionExportTSV), map[string]string{"max_seq_len": "500"})
	require.NoError(t, fs.Parse([]string{"--min-seq-len", "10", "--filter-paired"}))

	params := Collect(protocol.ActionExportTSV, NewFlagSource(fs))
	v, _ := params.Get("minSL")
	require.Equal(t, "10", v)
	v, _ = params.Get("maxSL")
	require.Equal(t, "500", v)
	v, _ = params.Get("filterP")
	require.Equal(t, "true", v)

	// nucleotide bin size is not registered on this flag set
	params = Collect(protocol.ActionNucleotide, NewFlagSource(fs))
	v, _ = params.Get("BinSize")
	require.Equal(t, "", v)
}

func TestControlsAreDistinct(t *testing.T) {
	seen := map[string]bool{}
	for _, f := range Controls() {
		require.False(t, seen[f.Control], f.Control)
		seen[f.Control] = true
	}
	require.True(t, seen["nucleotide_bin_size"])
	require.True(t, seen["max-hsps"])
}
