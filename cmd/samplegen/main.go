package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pricecharts/internal/testkit"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	config := testkit.DefaultCatalogueConfig()
	var output string

	cmd := &cobra.Command{
		Use:   "samplegen",
		Short: "Write a synthetic product catalogue CSV",
		Long: `Write a seeded, synthetic product catalogue with the columns the report expects.

Example: samplegen --rows 2000 --seed 7 --out CleanedData.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if config.ProductCount < 0 {
				return fmt.Errorf("--rows must not be negative")
			}
			if err := testkit.NewCatalogueGenerator(config).WriteFile(output); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d products to %s\n", config.ProductCount, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "out", "o", "CleanedData.csv", "Output CSV path")
	cmd.Flags().IntVar(&config.ProductCount, "rows", config.ProductCount, "Number of products")
	cmd.Flags().Int64Var(&config.Seed, "seed", config.Seed, "Random seed")
	cmd.Flags().Float64Var(&config.MalformedRate, "malformed-rate", config.MalformedRate, "Share of numeric cells replaced with junk text")
	cmd.Flags().Float64Var(&config.MissingRate, "missing-rate", config.MissingRate, "Share of cells left empty")
	cmd.Flags().StringVar(&config.CurrencySymbol, "currency", config.CurrencySymbol, "Currency symbol prefixed to prices")

	return cmd
}
