package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/claimmap/internal/engine"
	"github.com/Veraticus/claimmap/internal/model"
)

type optionsFlags struct {
	country string
	brand   string
	view    string
}

func optionsCmd() *cobra.Command {
	var flags optionsFlags

	cmd := &cobra.Command{
		Use:   "options <country|brand|product|touchpoint>",
		Short: "List the values a filter can take",
		Long: `List the values offered for one filter, given the filters chosen so far.

Brands are scoped to --country. Products are scoped to --country and --brand
in the product-mapping view and to --country alone in the competitor view.
Touchpoints always come from the whole table.`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"country", "brand", "product", "touchpoint"},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			return runOptions(cmd.OutOrStdout(), s.engine, args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.country, "country", "", "selected country")
	cmd.Flags().StringVar(&flags.brand, "brand", "", "selected brand (product-mapping view)")
	cmd.Flags().StringVar(&flags.view, "view", string(model.ViewProductMapping), "view the options are for (product-mapping, competitor)")

	return cmd
}

func runOptions(w io.Writer, eng *engine.Engine, field string, flags optionsFlags) error {
	view, err := model.ParseView(flags.view)
	if err != nil {
		return err
	}

	opts := eng.Options(model.FilterCriteria{
		View:    view,
		Country: flags.country,
		Brand:   flags.brand,
	})

	var values []string
	switch strings.ToLower(field) {
	case "country", "countries":
		values = opts.Countries
	case "brand", "brands":
		values = opts.Brands
	case "product", "products", string(model.FieldProductName):
		values = opts.Products
	case "touchpoint", "touchpoints":
		values = opts.Touchpoints
	default:
		return fmt.Errorf("%q is not a filter (choose country, brand, product or touchpoint)", field)
	}

	for _, v := range values {
		if _, err := fmt.Fprintln(w, v); err != nil {
			return err
		}
	}
	return nil
}
