package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/alovak/cardsynth/testcards"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	var luhnOnly bool
	cmd := &cobra.Command{
		Use:   "validate [number...]",
		Short: "Check card numbers against the Luhn checksum",
		Long: `Validate checks each number given as an argument, or one per line on
stdin when no arguments are given. Separators such as spaces and dashes
are ignored by the checksum.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			numbers := args
			if len(numbers) == 0 {
				sc := bufio.NewScanner(cmd.InOrStdin())
				for sc.Scan() {
					if line := strings.TrimSpace(sc.Text()); line != "" {
						numbers = append(numbers, line)
					}
				}
				if err := sc.Err(); err != nil {
					return fmt.Errorf("reading stdin: %w", err)
				}
			}
			if len(numbers) == 0 {
				return fmt.Errorf("no numbers to validate")
			}

			// Validate needs no store.
			svc := testcards.NewService(nil, nil)
			out := cmd.OutOrStdout()
			failed := 0
			for _, n := range numbers {
				res := svc.Validate(n)
				ok := res.Valid
				if luhnOnly {
					ok = res.Luhn
				}
				status := "valid"
				if !ok {
					status = "invalid"
					failed++
				}
				line := fmt.Sprintf("%s  %s", res.Masked, status)
				if res.Brand != "" {
					line += "  " + res.Brand
				}
				if !ok && !luhnOnly && res.Reason != "" {
					line += "  (" + res.Reason + ")"
				}
				fmt.Fprintln(out, line)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d numbers invalid", failed, len(numbers))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&luhnOnly, "luhn-only", false, "check only the checksum, not length or characters")
	return cmd
}
