package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecode_Sequence(t *testing.T) {
	p, err := Decode(ActionSequence, []byte(`{"fw_seq_length":[{"x":10,"y":3}],"rv_seq_length":[{"x":10,"y":1}]}`))
	require.NoError(t, err)
	seq, ok := p.(SequencePayload)
	require.True(t, ok)
	require.Equal(t, []XY{{X: 10, Y: 3}}, seq.Forward)
	require.Equal(t, []XY{{X: 10, Y: 1}}, seq.Reverse)
}

func TestDecode_IdentityTableIsDoubleEncoded(t *testing.T) {
	table := `{"schema":{"fields":[{"name":"perc","type":"number"},{"name":"identity","type":"integer"}],"primaryKey":["perc"]},"data":[{"perc":90.0,"identity":100},{"perc":95.0,"identity":7}]}`
	wrapped, err := json.Marshal(table)
	require.NoError(t, err)

	p, err := Decode(ActionIdentity, wrapped)
	require.NoError(t, err)
	require.Equal(t, IdentityPayload{Points: []XY{{X: 90, Y: 100}, {X: 95, Y: 7}}}, p)
}

func TestDecode_IdentityPlainPoints(t *testing.T) {
	p, err := Decode(ActionIdentity, []byte(`[{"x":50,"y":2}]`))
	require.NoError(t, err)
	require.Equal(t, IdentityPayload{Points: []XY{{X: 50, Y: 2}}}, p)
}

func TestDecode_PairedEmptyArray(t *testing.T) {
	p, err := Decode(ActionPaired, []byte(`[]`))
	require.NoError(t, err)
	require.Empty(t, p.(PairedPayload).Slices)
}

func TestDecode_CalcIdentity(t *testing.T) {
	p, err := Decode(ActionCalcIdentity, []byte("True"))
	require.NoError(t, err)
	require.True(t, p.(CalcIdentityPayload).Calculated)

	p, err = Decode(ActionCalcIdentity, []byte(`"False"`))
	require.NoError(t, err)
	require.False(t, p.(CalcIdentityPayload).Calculated)
	require.Equal(t, "False", p.(CalcIdentityPayload).Raw)
}

func TestDecode_DiamondKeepsBodyVerbatim(t *testing.T) {
	p, err := Decode(ActionDiamond, []byte("diamond completed"))
	require.NoError(t, err)
	require.Equal(t, DiamondPayload{Body: "diamond completed"}, p)
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode(ActionNucleotide, []byte(`{"fw_json": [`))
	require.Error(t, err)

	_, err = Decode(ActionSequence, []byte("   "))
	require.ErrorIs(t, err, ErrEmptyBody)

	_, err = Decode(ActionExportTSV, []byte("a\tb"))
	require.Error(t, err)
}

func TestCodeForStatus(t *testing.T) {
	require.Equal(t, ErrNoDataLoaded, CodeForStatus(400))
	require.Equal(t, ErrNotFound, CodeForStatus(404))
	require.Equal(t, ErrServerError, CodeForStatus(500))
	require.Equal(t, ErrUnhandled, CodeForStatus(502))
	require.Equal(t, ErrUnhandled, CodeForStatus(401))
}

func TestValidateRequest(t *testing.T) {
	require.NoError(t, ValidateRequest(NewActionRequest(ActionSequence, Params{{Key: "min_seq_len", Value: "1"}})))
	require.ErrorIs(t, ValidateRequest(ActionRequest{Kind: "bogus"}), ErrUnknownAction)
	require.Error(t, ValidateRequest(ActionRequest{Kind: ActionPaired, Params: Params{{Key: "a"}, {Key: "a"}}}))
}
