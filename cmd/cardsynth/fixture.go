package main

import (
	"fmt"

	"github.com/alovak/cardsynth/testcards"
	"github.com/alovak/cardsynth/testcards/models"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newFixtureCmd(v *viper.Viper) *cobra.Command {
	var req models.FixtureRequest
	cmd := &cobra.Command{
		Use:   "fixture",
		Short: "Build an ISO 8583 authorization request for a fresh test card",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			svc := testcards.NewServiceWithSource(testcards.NewRepository(), cfg, newSource(v))
			fx, err := svc.AuthorizationFixture(cmd.Context(), req)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "PAN: %s  EXP: %s  BRAND: %s\n", fx.Card.Number, fx.Card.CardFace, fx.Card.Brand)
			fmt.Fprintln(out, fx.Message)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.Brand, "brand", "", "brand name (visa|mastercard)")
	f.Int64Var(&req.Amount, "amount", 100, "amount in minor units")
	f.StringVar(&req.Currency, "currency", "USD", "ISO 4217 alpha currency")
	f.IntVar(&req.STAN, "stan", 1, "system trace audit number")
	return cmd
}
