package root

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wandb/depthchart/cmd/depthchart/root/inspect"
	"github.com/wandb/depthchart/cmd/depthchart/root/render"
	"github.com/wandb/depthchart/cmd/depthchart/root/version"
	"github.com/wandb/depthchart/cmd/depthchart/root/view"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "depthchart <command>",
		Short: "Explore liquidity depth and pick price ranges",
		Long: heredoc.Doc(`
			depthchart draws the active liquidity of a pool against price and
			lets you select a price range with a brush, zooming and panning
			the chart as you go.
		`),
		Example: heredoc.Doc(`
			# Explore a series file in the terminal
			$ depthchart view pool.csv

			# Follow a live depth feed
			$ depthchart view --url ws://localhost:8080/depth

			# Export an SVG with a selected range
			$ depthchart render pool.csv --brush 1800,2200 --out chart.svg

			# Measure the liquidity inside a range
			$ depthchart inspect pool.csv --brush 1800,2200
		`),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := cmd.PersistentFlags()
	flags.Bool("debug", false, "Enable debug logging")
	flags.String("log-file", "", "Write logs to this file")
	flags.String("log-format", "text", "Log format: text or json")
	flags.String("sentry-dsn", "", "Report errors to this Sentry DSN")

	for _, name := range []string{"debug", "log-file", "log-format", "sentry-dsn"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}

	cmd.AddCommand(view.NewViewCmd())
	cmd.AddCommand(render.NewRenderCmd())
	cmd.AddCommand(inspect.NewInspectCmd())
	cmd.AddCommand(version.NewVersionCmd())

	return cmd
}
