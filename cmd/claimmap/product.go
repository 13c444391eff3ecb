package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Veraticus/claimmap/internal/cli"
	"github.com/Veraticus/claimmap/internal/common"
	"github.com/Veraticus/claimmap/internal/engine"
	"github.com/Veraticus/claimmap/internal/model"
	"github.com/Veraticus/claimmap/internal/tui"
)

func productCmd() *cobra.Command {
	var country, brand, product string

	cmd := &cobra.Command{
		Use:   "product",
		Short: "Show the claim mapping image of one product",
		Long: `Resolve the pre-rendered claim mapping image of a single product.

The image is looked up as <images dir>/<country>_<brand>_<product>.png.`,
		Example: `  claimmap product --country US --brand BrandA --product "Hydra Serum"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			c := model.NewProductCriteria(country, brand, product)
			return runProduct(cmd.OutOrStdout(), s.engine, newAssets(s.settings), c)
		},
	}

	cmd.Flags().StringVar(&country, "country", "", "country (required)")
	cmd.Flags().StringVar(&brand, "brand", "", "brand (required)")
	cmd.Flags().StringVar(&product, "product", "", "product name (required)")

	return cmd
}

func runProduct(w io.Writer, eng *engine.Engine, lookup tui.AssetLookup, c model.FilterCriteria) error {
	required := []struct{ field, value string }{
		{"country", c.Country},
		{"brand", c.Brand},
		{"product", c.Product()},
	}
	for _, r := range required {
		if r.value == "" {
			return &common.InvalidCriteriaError{Field: r.field}
		}
	}

	result, err := eng.Run(c)
	if err != nil {
		return err
	}
	summary := eng.Summary(result)

	fmt.Fprintln(w, cli.FormatTitle("Claim Mapping: "+c.Product()))
	fmt.Fprintln(w, cli.FormatInfo(fmt.Sprintf("%s, %s: %s", c.Country, c.Brand, summary.StatusLine())))

	asset, err := lookup.LookupCriteria(c)
	if err != nil {
		if !common.IsRecoverable(err) {
			return err
		}
		common.LogDebug("Reference image unavailable", common.Fields{"key": c.ImageKey(), "error": err.Error()})
		fmt.Fprintln(w, cli.FormatWarning(common.Notice(err)))
		return nil
	}

	fmt.Fprintln(w, cli.FormatSuccess(asset.Path))
	fmt.Fprintf(w, "%d × %d px\n", asset.Width, asset.Height)
	return nil
}
