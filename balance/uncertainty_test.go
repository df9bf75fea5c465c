package balance_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mineralytics/flowsheet/balance"
	"github.com/mineralytics/flowsheet/flownet"
	"github.com/mineralytics/flowsheet/stream"
)

// splitterNet builds feed (0→1) splitting into lump (1→2) and fines (1→3),
// one record, Fe + SiO2 components.
func splitterNet(t *testing.T) *flownet.Network {
	t.Helper()

	grades := []string{"Fe", "SiO2"}
	feed := stream.MustNew("feed", 0, 1, grades)
	lump := stream.MustNew("lump", 1, 2, grades)
	fines := stream.MustNew("fines", 1, 3, grades)
	require.NoError(t, feed.Append("t0", 100, []float64{58, 5}))
	require.NoError(t, lump.Append("t0", 40, []float64{60, 4}))
	require.NoError(t, fines.Append("t0", 60, []float64{56.7, 5.7}))

	net, err := flownet.New([]*stream.Stream{feed, lump, fines})
	require.NoError(t, err)

	return net
}

// TestParsePolicy covers the recognized spellings and the sentinel.
func TestParsePolicy(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want balance.Policy
	}{
		{"none", balance.TrustNone},
		{"inputs", balance.TrustInputs},
		{"outputs", balance.TrustOutputs},
	} {
		p, err := balance.ParsePolicy(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, p)
		assert.Equal(t, tc.in, p.String(), "String must round-trip the config spelling")
	}

	_, err := balance.ParsePolicy("input") // singular is not a policy
	assert.ErrorIs(t, err, balance.ErrInvalidPolicy)
}

// TestBuildUncertainty_Defaults: every cell starts at 1.0.
func TestBuildUncertainty_Defaults(t *testing.T) {
	net := splitterNet(t)
	u, err := balance.BuildUncertainty(net, balance.TrustNone, false)
	require.NoError(t, err)

	assert.Equal(t, []string{"feed", "lump", "fines"}, u.Streams)
	assert.Equal(t, []string{stream.MassDry, "Fe", "SiO2"}, u.Columns)
	for _, row := range u.Values {
		for _, sd := range row {
			assert.Equal(t, 1.0, sd)
		}
	}
	require.NoError(t, u.Validate())
}

// TestBuildUncertainty_TrustPolicies: the trusted subset rows are
// overwritten with 0.1, or 0.001 when locked.
func TestBuildUncertainty_TrustPolicies(t *testing.T) {
	net := splitterNet(t)

	u, err := balance.BuildUncertainty(net, balance.TrustInputs, false)
	require.NoError(t, err)
	feedRow, ok := u.Row("feed")
	require.True(t, ok)
	assert.Equal(t, []float64{0.1, 0.1, 0.1}, feedRow)
	lumpRow, _ := u.Row("lump")
	assert.Equal(t, []float64{1, 1, 1}, lumpRow)

	u, err = balance.BuildUncertainty(net, balance.TrustOutputs, true)
	require.NoError(t, err)
	feedRow, _ = u.Row("feed")
	assert.Equal(t, []float64{1, 1, 1}, feedRow)
	lumpRow, _ = u.Row("lump")
	assert.Equal(t, []float64{0.001, 0.001, 0.001}, lumpRow)
	finesRow, _ := u.Row("fines")
	assert.Equal(t, []float64{0.001, 0.001, 0.001}, finesRow)
}

// TestBuildUncertainty_InvalidPolicy: out-of-range enum values fail fast.
func TestBuildUncertainty_InvalidPolicy(t *testing.T) {
	net := splitterNet(t)
	_, err := balance.BuildUncertainty(net, balance.Policy(42), false)
	assert.ErrorIs(t, err, balance.ErrInvalidPolicy)

	_, err = balance.BuildUncertainty(nil, balance.TrustNone, false)
	assert.ErrorIs(t, err, balance.ErrNilNetwork)
}

// TestUncertaintyTable_SetAndValidate covers cell edits and the weight
// sentinel (P5: a zero weight fails before any minimization runs).
func TestUncertaintyTable_SetAndValidate(t *testing.T) {
	net := splitterNet(t)
	u, err := balance.BuildUncertainty(net, balance.TrustNone, false)
	require.NoError(t, err)

	require.NoError(t, u.Set("lump", "Fe", 0.25))
	row, _ := u.Row("lump")
	assert.Equal(t, 0.25, row[1])

	assert.ErrorIs(t, u.Set("lump", "Fe", 0), balance.ErrInvalidWeight)
	assert.ErrorIs(t, u.Set("lump", "Fe", -1), balance.ErrInvalidWeight)
	assert.ErrorIs(t, u.Set("ghost", "Fe", 1), balance.ErrInconsistentTopology)
	assert.ErrorIs(t, u.Set("lump", "Au", 1), balance.ErrInconsistentTopology)

	u.Values[2][0] = -0.5
	assert.ErrorIs(t, u.Validate(), balance.ErrInvalidWeight)
}

// TestLoadConfig_ZeroWeight: the config-file path enforces P5 as well.
func TestLoadConfig_ZeroWeight(t *testing.T) {
	cfg := `
components: [mass_dry, Fe]
streams:
  feed:
    mass_dry: 0.0
    Fe: 0.1
`
	_, err := balance.LoadConfig(strings.NewReader(cfg))
	assert.ErrorIs(t, err, balance.ErrInvalidWeight)
}

// TestConfig_RoundTrip: Save → Load preserves every cell; absent cells
// default to 1.0 on load.
func TestConfig_RoundTrip(t *testing.T) {
	net := splitterNet(t)
	u, err := balance.BuildUncertainty(net, balance.TrustInputs, true)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, u.SaveConfig(&buf))

	loaded, err := balance.LoadConfig(&buf)
	require.NoError(t, err)
	assert.Equal(t, u.Columns, loaded.Columns)
	assert.ElementsMatch(t, u.Streams, loaded.Streams)
	for _, name := range u.Streams {
		want, _ := u.Row(name)
		got, ok := loaded.Row(name)
		require.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}

	sparse := `
components: [mass_dry, Fe]
streams:
  feed:
    Fe: 0.2
`
	tbl, err := balance.LoadConfig(strings.NewReader(sparse))
	require.NoError(t, err)
	row, ok := tbl.Row("feed")
	require.True(t, ok)
	assert.Equal(t, []float64{1, 0.2}, row, "absent cells default to the nominal sd")
}
