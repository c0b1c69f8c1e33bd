package depthsource

import (
	"errors"
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"github.com/wandb/depthchart/internal/depth"
)

// Summary describes the liquidity distribution of a snapshot.
type Summary struct {
	Entries      int     `json:"entries" yaml:"entries"`
	MinPrice     float64 `json:"min_price" yaml:"min_price"`
	MaxPrice     float64 `json:"max_price" yaml:"max_price"`
	Current      float64 `json:"current" yaml:"current"`
	Total        float64 `json:"total_liquidity" yaml:"total_liquidity"`
	Mean         float64 `json:"mean_liquidity" yaml:"mean_liquidity"`
	Median       float64 `json:"median_liquidity" yaml:"median_liquidity"`
	StdDev       float64 `json:"stddev_liquidity" yaml:"stddev_liquidity"`
	WeightedMean float64 `json:"weighted_mean_price" yaml:"weighted_mean_price"`

	// Selection fields are set only when a range was given.
	Selection     *depth.Domain `json:"selection,omitempty" yaml:"selection,omitempty"`
	SelectedTotal float64       `json:"selected_liquidity,omitempty" yaml:"selected_liquidity,omitempty"`
	SelectedShare float64       `json:"selected_share,omitempty" yaml:"selected_share,omitempty"`
	SelectedCount int           `json:"selected_entries,omitempty" yaml:"selected_entries,omitempty"`
}

// Summarize computes liquidity statistics over the snapshot's samples. When
// selection is non-nil the share of liquidity inside it is included.
func Summarize(snap Snapshot, selection *depth.Domain) (Summary, error) {
	if len(snap.Series) == 0 {
		return Summary{}, errors.New("depthsource: empty series")
	}

	prices := make(stats.Float64Data, len(snap.Series))
	liquidity := make(stats.Float64Data, len(snap.Series))
	var weighted float64
	for i, e := range snap.Series {
		prices[i] = e.Price
		liquidity[i] = e.ActiveLiquidity
		weighted += e.Price * e.ActiveLiquidity
	}

	s := Summary{Entries: len(snap.Series)}
	var err error
	if s.MinPrice, err = prices.Min(); err != nil {
		return Summary{}, fmt.Errorf("depthsource: summarizing: %v", err)
	}
	if s.MaxPrice, err = prices.Max(); err != nil {
		return Summary{}, fmt.Errorf("depthsource: summarizing: %v", err)
	}
	if s.Total, err = liquidity.Sum(); err != nil {
		return Summary{}, fmt.Errorf("depthsource: summarizing: %v", err)
	}
	if s.Mean, err = liquidity.Mean(); err != nil {
		return Summary{}, fmt.Errorf("depthsource: summarizing: %v", err)
	}
	if s.Median, err = liquidity.Median(); err != nil {
		return Summary{}, fmt.Errorf("depthsource: summarizing: %v", err)
	}
	if s.StdDev, err = liquidity.StandardDeviation(); err != nil {
		return Summary{}, fmt.Errorf("depthsource: summarizing: %v", err)
	}
	if s.Total > 0 {
		s.WeightedMean = weighted / s.Total
	}
	s.Current = snap.CurrentOr(math.NaN())

	if selection != nil {
		d := *selection
		s.Selection = &d
		for _, e := range snap.Series {
			if e.Price >= d.Low() && e.Price <= d.High() {
				s.SelectedTotal += e.ActiveLiquidity
				s.SelectedCount++
			}
		}
		if s.Total > 0 {
			s.SelectedShare = s.SelectedTotal / s.Total
		}
	}
	return s, nil
}
