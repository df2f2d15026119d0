package main

import (
	"encoding/json"
	"fmt"

	"github.com/alovak/cardsynth/testcards"
	"github.com/alovak/cardsynth/testcards/models"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newGenerateCmd(v *viper.Viper) *cobra.Command {
	var (
		req    models.GenerateRequest
		asJSON bool
		masked bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a batch of test card numbers",
		Long: `Generate prints Luhn-valid test card numbers for one brand, several
brands taken in turn, or an explicit prefix set.`,
		Example: `  cardsynth generate --brand mastercard --count 5
  cardsynth generate --brands visa,mastercard --count 4 --json
  cardsynth generate --prefix 6011 --prefix 65 --length 19`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			svc := testcards.NewServiceWithSource(testcards.NewRepository(), cfg, newSource(v))

			batch, err := svc.Generate(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if masked {
					for _, c := range batch.Cards {
						c.Number = ""
					}
				}
				return enc.Encode(batch)
			}
			for _, c := range batch.Cards {
				number := c.Number
				if masked {
					number = c.Masked
				}
				brand := c.Brand
				if brand == "" {
					brand = "-"
				}
				fmt.Fprintf(out, "%s  %s  %s\n", number, c.CardFace, brand)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.Brand, "brand", "", "brand name (visa|mastercard); defaults to config default_brand")
	f.StringSliceVar(&req.Brands, "brands", nil, "brands to alternate card by card")
	f.StringSliceVar(&req.Prefixes, "prefix", nil, "explicit leading digits; may be repeated")
	f.IntVar(&req.Length, "length", 0, "total number length (defaults to the brand length)")
	f.IntVar(&req.Count, "count", 1, "number of cards")
	f.StringVar(&req.Product, "product", "", "card product used for expiry: credit|debit")
	f.IntVar(&req.Years, "years", 0, "override validity years (if > 0)")
	f.BoolVar(&asJSON, "json", false, "print the batch as JSON")
	f.BoolVar(&masked, "mask", false, "print masked numbers only")
	return cmd
}
