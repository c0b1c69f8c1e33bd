package depthsource_test

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wandb/depthchart/internal/depth"
	"github.com/wandb/depthchart/internal/depthsource"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_CSVSortsByPrice(t *testing.T) {
	path := writeFile(t, "depth.csv",
		"price,active_liquidity\n300,5\n100,1\n200,3\n")

	snap, err := depthsource.Load(path)
	require.NoError(t, err)

	assert.Equal(t, depth.Series{
		{Price: 100, ActiveLiquidity: 1},
		{Price: 200, ActiveLiquidity: 3},
		{Price: 300, ActiveLiquidity: 5},
	}, snap.Series)
	assert.False(t, snap.HasCurrent)
	assert.Equal(t, 200.0, snap.CurrentOr(math.NaN()))
	assert.Equal(t, 250.0, snap.CurrentOr(250))
}

func TestLoad_YAMLWithCurrent(t *testing.T) {
	path := writeFile(t, "depth.yaml", `
current: 1850.5
series:
  - price: 1800
    active_liquidity: 10
  - price: 1900
    active_liquidity: 12.5
`)

	snap, err := depthsource.Load(path)
	require.NoError(t, err)
	require.Len(t, snap.Series, 2)
	assert.True(t, snap.HasCurrent)
	assert.Equal(t, 1850.5, snap.Current)
	assert.Equal(t, 12.5, snap.Series[1].ActiveLiquidity)
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, "depth.json",
		`{"current": 2, "series": [{"price": 1, "active_liquidity": 4}, {"price": 3, "active_liquidity": 0}]}`)

	snap, err := depthsource.Load(path)
	require.NoError(t, err)
	assert.Len(t, snap.Series, 2)
	assert.Equal(t, 2.0, snap.CurrentOr(math.NaN()))
}

func TestLoad_Errors(t *testing.T) {
	_, err := depthsource.Load(writeFile(t, "depth.txt", "price"))
	assert.True(t, errors.Is(err, depthsource.ErrUnsupportedFormat))

	_, err = depthsource.Load(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)

	_, err = depthsource.Load(writeFile(t, "neg.csv", "price,active_liquidity\n1,-2\n"))
	assert.ErrorContains(t, err, "negative liquidity")

	_, err = depthsource.Load(writeFile(t, "bad.yaml", "series: [oops"))
	assert.Error(t, err)
}

func TestLoad_EmptySeriesIsNotAnError(t *testing.T) {
	snap, err := depthsource.Load(writeFile(t, "empty.yaml", "series: []\n"))
	require.NoError(t, err)
	assert.Empty(t, snap.Series)
}

func TestMarshalCSV_RoundTrip(t *testing.T) {
	series := depth.Series{{Price: 1, ActiveLiquidity: 2}, {Price: 3.5, ActiveLiquidity: 4}}

	out, err := depthsource.MarshalCSV(series)
	require.NoError(t, err)

	snap, err := depthsource.ParseCSV(out)
	require.NoError(t, err)
	assert.Equal(t, series, snap.Series)
}
