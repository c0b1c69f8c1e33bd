package render

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/wandb/depthchart/cmd/depthchart/root/version"
	"github.com/wandb/depthchart/internal/cliutil"
	"github.com/wandb/depthchart/internal/depth"
	"github.com/wandb/depthchart/internal/depthsource"
	"github.com/wandb/depthchart/internal/depthsvg"
)

// Options are the inputs of a headless render.
type Options struct {
	Width, Height float64
	Margins       depth.Margins
	ID            string
	Scheme        string
	Labels        string
	Zoom          float64
	Pan           float64
	Current       *float64
	Brush         *depth.Domain
}

func NewRenderCmd() *cobra.Command {
	var (
		out    string
		format string
		brush  string
		opts   = Options{Margins: depth.Margins{Top: 16, Right: 16, Bottom: 24, Left: 16}}
	)

	cmd := &cobra.Command{
		Use:   "render <series-file>",
		Short: "Render a depth chart without a terminal",
		Long: heredoc.Doc(`
			Renders the chart for a series file and writes it as SVG, as a
			JSON or YAML scene description, or as CSV of the visible samples.
		`),
		Example: heredoc.Doc(`
			$ depthchart render pool.csv --out chart.svg
			$ depthchart render pool.csv --brush 1800,2200 --zoom 2 --format yaml
			$ depthchart render pool.yaml --format csv --zoom 4 --pan 120
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, cleanup, err := cliutil.SetupLogger(cmd, cliutil.LoggerParams{
				Release: version.Version,
				Commit:  version.GitCommit,
			})
			if err != nil {
				return err
			}
			defer cleanup()

			if opts.Brush, err = cliutil.ParseDomain(brush); err != nil {
				return err
			}
			opts.Current = cliutil.FloatPtr(cmd, "current")
			if opts.ID == "" {
				opts.ID = uuid.NewString()
			}

			snap, err := depthsource.Load(args[0])
			if err != nil {
				logger.CaptureError(err)
				return err
			}

			engine, err := NewEngine(snap, opts)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := Write(&buf, engine, format); err != nil {
				return err
			}
			logger.Debug("render: done", "format", format, "bytes", buf.Len())

			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			return os.WriteFile(out, buf.Bytes(), 0o644)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "svg", "Output format: svg, json, yaml or csv")
	cmd.Flags().StringVar(&brush, "brush", "", "Selected range as low,high")
	cmd.Flags().Float64Var(&opts.Width, "width", 800, "Chart width in pixels")
	cmd.Flags().Float64Var(&opts.Height, "height", 300, "Chart height in pixels")
	cmd.Flags().Float64Var(&opts.Zoom, "zoom", 1, "Zoom factor around the chart centre")
	cmd.Flags().Float64Var(&opts.Pan, "pan", 0, "Pan by this many pixels after zooming")
	cmd.Flags().Float64("current", 0, "Current price (default: from the data)")
	cmd.Flags().StringVar(&opts.ID, "id", "", "Chart id (default: random UUID)")
	cmd.Flags().StringVar(&opts.Scheme, "scheme", depth.DefaultScheme, "Colour scheme")
	cmd.Flags().StringVar(&opts.Labels, "labels", "percent", "Handle labels: percent, price or none")

	return cmd
}

// NewEngine configures an engine for a one-off render.
func NewEngine(snap depthsource.Snapshot, opts Options) (*depth.Engine, error) {
	styles, ok := depth.LookupScheme(opts.Scheme)
	if !ok {
		return nil, fmt.Errorf("unknown colour scheme %q (known: %v)", opts.Scheme, depth.SchemeNames())
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("width and height must be positive")
	}

	current := snap.CurrentOr(math.NaN())
	if opts.Current != nil {
		current = *opts.Current
	}

	var labels depth.LabelFunc
	switch opts.Labels {
	case "percent", "":
		labels = depth.PercentLabels(current)
	case "price":
		labels = depth.PriceLabels
	case "none":
	default:
		return nil, fmt.Errorf("unknown label mode %q", opts.Labels)
	}

	engine := depth.NewEngine(depth.EngineParams{
		ID:          opts.ID,
		Series:      snap.Series,
		Current:     current,
		Dimensions:  depth.Dimensions{Width: opts.Width, Height: opts.Height},
		Margins:     opts.Margins,
		Styles:      styles,
		BrushDomain: opts.Brush,
		BrushLabels: labels,
	})
	if opts.Zoom > 0 && opts.Zoom != 1 {
		engine.ZoomBy(opts.Zoom)
	}
	if opts.Pan != 0 {
		engine.Pan(opts.Pan)
	}
	return engine, nil
}

// Write renders the engine's scene in the given format.
func Write(w io.Writer, engine *depth.Engine, format string) error {
	scene := engine.Render()
	switch format {
	case "svg":
		return depthsvg.Write(w, scene)
	case "json", "yaml":
		return cliutil.Encode(w, scene, format)
	case "csv":
		visible, ok := engine.VisibleDomain()
		if !ok {
			return fmt.Errorf("nothing to render")
		}
		var rows depth.Series
		for _, e := range engine.Series() {
			if e.Price >= visible.Low() && e.Price <= visible.High() {
				rows = append(rows, e)
			}
		}
		data, err := depthsource.MarshalCSV(rows)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
