package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Veraticus/claimmap/internal/cli"
	"github.com/Veraticus/claimmap/internal/common"
	"github.com/Veraticus/claimmap/internal/config"
	"github.com/Veraticus/claimmap/internal/engine"
	"github.com/Veraticus/claimmap/internal/model"
	"github.com/Veraticus/claimmap/internal/tui"
	"github.com/Veraticus/claimmap/internal/tui/components"
	"github.com/Veraticus/claimmap/internal/tui/themes"
)

// exportToConfigured is the --export value used when the flag has no path.
const exportToConfigured = "-"

const (
	terminalChartWidth  = 100
	terminalChartHeight = 24
)

type competeFlags struct {
	country     string
	export      string
	products    []string
	touchpoints []string
}

func competeCmd() *cobra.Command {
	var flags competeFlags

	cmd := &cobra.Command{
		Use:   "compete",
		Short: "Compare the claims of competing products",
		Long: `Project the claims of one or more products of a country onto the claim map
and print the points, a terminal chart and a summary.

Without --touchpoint every touchpoint is included. --export writes the chart
as a PNG, to the given path or to export.path when no path is given.`,
		Example: `  claimmap compete --country US --product "Hydra Serum" --product "Glow Cream"
  claimmap compete --country US --product "Hydra Serum" --touchpoint Packaging --export=map.png`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}

			c := competitorCriteria(flags.country, flags.products, flags.touchpoints, cmd.Flags().Changed("touchpoint"))

			var exporter tui.ChartExporter
			exportPath := ""
			if cmd.Flags().Changed("export") {
				exporter = competeExporter(s.settings)
				if flags.export != exportToConfigured {
					exportPath = flags.export
				}
			}

			return runCompete(cmd.OutOrStdout(), s.engine, c, exporter, exportPath)
		},
	}

	cmd.Flags().StringVar(&flags.country, "country", "", "country (required)")
	cmd.Flags().StringArrayVar(&flags.products, "product", nil, "product to compare (repeatable)")
	cmd.Flags().StringArrayVar(&flags.touchpoints, "touchpoint", nil, "touchpoint to include (repeatable, default all)")
	cmd.Flags().StringVar(&flags.export, "export", "", "write the chart as PNG to this path")
	cmd.Flags().Lookup("export").NoOptDefVal = exportToConfigured

	return cmd
}

// competeExporter returns the configured exporter. Rejected export settings
// do not stop the command: the returned exporter reports them as a notice
// once the table and chart have been printed.
func competeExporter(settings config.Settings) tui.ChartExporter {
	e, err := newExporter(settings)
	if err != nil {
		common.LogWarn("Export configuration rejected", common.Fields{"error": err.Error()})
		return unavailableExporter{err: err}
	}
	return e
}

// unavailableExporter fails every export with the reason it was not built.
type unavailableExporter struct {
	err error
}

func (u unavailableExporter) Export(string, model.ChartProjection, string) (string, error) {
	return "", &common.ExportUnavailableError{Reason: "invalid export configuration", Err: u.err}
}

// runCompete prints the competitor claim map. A nil exporter skips export.
func runCompete(w io.Writer, eng *engine.Engine, c model.FilterCriteria, exporter tui.ChartExporter, exportPath string) error {
	result, err := eng.Run(c)
	if err != nil {
		return err
	}
	summary := eng.Summary(result)

	fmt.Fprintln(w, cli.FormatTitle(c.ChartTitle()))

	if len(c.Products) == 0 {
		fmt.Fprintln(w, cli.FormatInfo("Select one or more products to compare."))
	} else if !result.IsEmpty() {
		fmt.Fprintln(w, pointTable(result.Projection))
		fmt.Fprintln(w)
	}

	chart := components.NewChartModel(themes.Default)
	chart.Resize(terminalChartWidth, terminalChartHeight)
	chart.SetProjection(result.Projection)
	fmt.Fprintln(w, chart.View())
	fmt.Fprintln(w, cli.FormatInfo(summary.StatusLine()))

	if exporter == nil {
		return nil
	}

	written, err := exporter.Export(exportPath, result.Projection, c.ChartTitle())
	if err != nil {
		if !common.IsRecoverable(err) {
			return err
		}
		common.LogWarn("Chart export failed", common.Fields{"error": err.Error()})
		fmt.Fprintln(w, cli.FormatWarning(common.Notice(err)))
		return nil
	}

	fmt.Fprintln(w, cli.FormatSuccess("Exported claim map to "+written))
	return nil
}

func pointTable(p model.ChartProjection) string {
	rows := make([][]string, 0, len(p.Points))
	for _, pt := range p.Points {
		category := pt.XCategory
		if !pt.InTaxonomy {
			category += " *"
		}
		rows = append(rows, []string{
			pt.Product,
			category,
			pt.ClaimType,
			pt.Hover.Touchpoint,
			strconv.FormatFloat(pt.Relevancy, 'f', -1, 64),
			pt.Hover.ClaimText,
		})
	}
	return cli.RenderTable(
		[]string{"Product", "Claim basis", "Claim type", "Touchpoint", "Relevancy", "Claim"},
		rows,
	)
}
