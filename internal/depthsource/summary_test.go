package depthsource_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wandb/depthchart/internal/depth"
	"github.com/wandb/depthchart/internal/depthsource"
)

func TestSummarize(t *testing.T) {
	snap := depthsource.Snapshot{Series: depth.Series{
		{Price: 100, ActiveLiquidity: 1},
		{Price: 200, ActiveLiquidity: 3},
		{Price: 300, ActiveLiquidity: 4},
		{Price: 400, ActiveLiquidity: 0},
	}}

	s, err := depthsource.Summarize(snap, &depth.Domain{150, 300})
	require.NoError(t, err)

	assert.Equal(t, 4, s.Entries)
	assert.Equal(t, 100.0, s.MinPrice)
	assert.Equal(t, 400.0, s.MaxPrice)
	assert.Equal(t, 250.0, s.Current, "midpoint without a current price")
	assert.Equal(t, 8.0, s.Total)
	assert.Equal(t, 2.0, s.Mean)
	assert.Equal(t, 2.0, s.Median)
	assert.InDelta(t, (100.0+600+1200)/8, s.WeightedMean, 1e-9)

	assert.Equal(t, 2, s.SelectedCount)
	assert.Equal(t, 7.0, s.SelectedTotal)
	assert.InDelta(t, 0.875, s.SelectedShare, 1e-9)
}

func TestSummarize_Empty(t *testing.T) {
	_, err := depthsource.Summarize(depthsource.Snapshot{}, nil)
	assert.Error(t, err)
}
