// Package depthsource loads liquidity series from files and live feeds.
package depthsource

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"

	"github.com/wandb/depthchart/internal/depth"
)

// ErrUnsupportedFormat is returned for series files with an unknown extension.
var ErrUnsupportedFormat = errors.New("depthsource: unsupported series format")

// Snapshot is one version of the liquidity distribution.
type Snapshot struct {
	Series depth.Series
	// Current is the current price; valid only when HasCurrent is set.
	Current    float64
	HasCurrent bool
}

// CurrentOr returns the snapshot's current price, or the midpoint of the
// series price range when the source did not provide one.
func (s Snapshot) CurrentOr(fallback float64) float64 {
	if s.HasCurrent {
		return s.Current
	}
	if !math.IsNaN(fallback) {
		return fallback
	}
	if len(s.Series) == 0 {
		return 0
	}
	return (s.Series[0].Price + s.Series[len(s.Series)-1].Price) / 2
}

type row struct {
	Price           float64 `csv:"price" json:"price" yaml:"price"`
	ActiveLiquidity float64 `csv:"active_liquidity" json:"active_liquidity" yaml:"active_liquidity"`
}

type document struct {
	Current *float64 `json:"current,omitempty" yaml:"current,omitempty"`
	Series  []row    `json:"series" yaml:"series"`
}

// Load reads a series file. The format is chosen by extension: .csv, or
// .yaml/.yml/.json.
func Load(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("depthsource: %v", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ParseCSV(data)
	case ".yaml", ".yml", ".json":
		return ParseYAML(data)
	default:
		return Snapshot{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// ParseCSV reads a series with a price,active_liquidity header.
func ParseCSV(data []byte) (Snapshot, error) {
	var rows []row
	if err := gocsv.Unmarshal(bytes.NewReader(data), &rows); err != nil {
		return Snapshot{}, fmt.Errorf("depthsource: parsing csv: %v", err)
	}
	series, err := normalize(rows)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Series: series}, nil
}

// ParseYAML reads a {current, series} document. JSON documents are accepted
// as well.
func ParseYAML(data []byte) (Snapshot, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Snapshot{}, fmt.Errorf("depthsource: parsing document: %v", err)
	}
	return fromDocument(doc)
}

func fromDocument(doc document) (Snapshot, error) {
	series, err := normalize(doc.Series)
	if err != nil {
		return Snapshot{}, err
	}
	snap := Snapshot{Series: series}
	if doc.Current != nil {
		if !isFinite(*doc.Current) {
			return Snapshot{}, fmt.Errorf("depthsource: current price is not finite")
		}
		snap.Current, snap.HasCurrent = *doc.Current, true
	}
	return snap, nil
}

// normalize validates rows and sorts them ascending by price.
func normalize(rows []row) (depth.Series, error) {
	series := make(depth.Series, 0, len(rows))
	for i, r := range rows {
		if !isFinite(r.Price) || !isFinite(r.ActiveLiquidity) {
			return nil, fmt.Errorf("depthsource: row %d: values must be finite", i+1)
		}
		if r.ActiveLiquidity < 0 {
			return nil, fmt.Errorf("depthsource: row %d: negative liquidity %v", i+1, r.ActiveLiquidity)
		}
		series = append(series, depth.Entry{Price: r.Price, ActiveLiquidity: r.ActiveLiquidity})
	}
	sort.SliceStable(series, func(i, j int) bool {
		return series[i].Price < series[j].Price
	})
	return series, nil
}

// MarshalCSV writes a series back out in the CSV layout Load understands.
func MarshalCSV(series depth.Series) ([]byte, error) {
	rows := make([]row, len(series))
	for i, e := range series {
		rows[i] = row{Price: e.Price, ActiveLiquidity: e.ActiveLiquidity}
	}
	out, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		return nil, fmt.Errorf("depthsource: writing csv: %v", err)
	}
	return out, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
