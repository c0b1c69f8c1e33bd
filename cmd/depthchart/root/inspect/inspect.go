package inspect

import (
	"fmt"
	"io"
	"strconv"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/wandb/depthchart/internal/cliutil"
	"github.com/wandb/depthchart/internal/depthsource"
)

func NewInspectCmd() *cobra.Command {
	var (
		brush  string
		format string
	)

	cmd := &cobra.Command{
		Use:   "inspect <series-file>",
		Short: "Summarize the liquidity in a series file",
		Example: heredoc.Doc(`
			$ depthchart inspect pool.csv
			$ depthchart inspect pool.yaml --brush 1800,2200 --format json
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			selection, err := cliutil.ParseDomain(brush)
			if err != nil {
				return err
			}
			snap, err := depthsource.Load(args[0])
			if err != nil {
				return err
			}
			summary, err := depthsource.Summarize(snap, selection)
			if err != nil {
				return err
			}

			switch format {
			case "table":
				WriteTable(cmd.OutOrStdout(), summary)
				return nil
			case "json", "yaml":
				return cliutil.Encode(cmd.OutOrStdout(), summary, format)
			default:
				return fmt.Errorf("unknown format %q", format)
			}
		},
	}

	cmd.Flags().StringVar(&brush, "brush", "", "Range to measure as low,high")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table, json or yaml")

	return cmd
}

// WriteTable prints the summary as a two-column table.
func WriteTable(w io.Writer, s depthsource.Summary) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Metric", "Value"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)

	table.Append([]string{"entries", strconv.Itoa(s.Entries)})
	table.Append([]string{"price range", fmt.Sprintf("%s – %s", num(s.MinPrice), num(s.MaxPrice))})
	table.Append([]string{"current", num(s.Current)})
	table.Append([]string{"total liquidity", num(s.Total)})
	table.Append([]string{"mean liquidity", num(s.Mean)})
	table.Append([]string{"median liquidity", num(s.Median)})
	table.Append([]string{"stddev liquidity", num(s.StdDev)})
	table.Append([]string{"weighted mean price", num(s.WeightedMean)})
	if s.Selection != nil {
		table.Append([]string{"selection", fmt.Sprintf("%s – %s", num(s.Selection.Low()), num(s.Selection.High()))})
		table.Append([]string{"selected entries", strconv.Itoa(s.SelectedCount)})
		table.Append([]string{"selected liquidity", num(s.SelectedTotal)})
		table.Append([]string{"selected share", fmt.Sprintf("%.2f%%", s.SelectedShare*100)})
	}

	table.Render()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
