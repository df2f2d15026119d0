package main

import (
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/alovak/cardsynth/internal/cardgen"
	"github.com/alovak/cardsynth/testcards"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/exp/slog"
)

func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	root := &cobra.Command{
		Use:   "cardsynth",
		Short: "Synthesize and validate Luhn-valid test card numbers",
		Long: `cardsynth generates synthetic card numbers for sandbox and test
environments and checks card numbers against the Luhn checksum.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(v, cfgFile)
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, toml or json)")
	root.PersistentFlags().String("log-level", "info", "log level: debug|info|warn|error")
	root.PersistentFlags().Int64("seed", 0, "seed for reproducible output (0 uses crypto/rand)")
	_ = v.BindPFlag("log_level", root.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("seed", root.PersistentFlags().Lookup("seed"))

	root.AddCommand(
		newGenerateCmd(v),
		newValidateCmd(),
		newFixtureCmd(v),
		newServeCmd(v),
	)
	return root
}

func initConfig(v *viper.Viper, cfgFile string) error {
	def := testcards.DefaultConfig()
	v.SetDefault("http_addr", def.HTTPAddr)
	v.SetDefault("default_brand", def.DefaultBrand)
	v.SetDefault("length", def.Length)
	v.SetDefault("max_batch", def.MaxBatch)
	v.SetDefault("product_years", def.ProductYears)
	v.SetDefault("card_product", def.CardProduct)
	v.SetDefault("repo_backend", def.RepoBackend)
	v.SetDefault("pan_hash_key", def.PANHashKey)

	v.SetEnvPrefix("CARDSYNTH")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", cfgFile, err)
		}
	}
	return nil
}

func loadConfig(v *viper.Viper) (*testcards.Config, error) {
	cfg := &testcards.Config{
		HTTPAddr:     v.GetString("http_addr"),
		DefaultBrand: v.GetString("default_brand"),
		Length:       v.GetInt("length"),
		MaxBatch:     v.GetInt("max_batch"),
		ExpiryTZ:     v.GetString("expiry_tz"),
		CardProduct:  v.GetString("card_product"),
		RepoBackend:  v.GetString("repo_backend"),
		DBDSN:        v.GetString("db_dsn"),
		PANHashKey:   v.GetString("pan_hash_key"),
	}
	if err := v.UnmarshalKey("product_years", &cfg.ProductYears); err != nil {
		return nil, fmt.Errorf("product_years: %w", err)
	}
	if cfg.MaxBatch <= 0 {
		return nil, fmt.Errorf("max_batch must be positive")
	}
	return cfg, nil
}

// newSource returns a seeded source when --seed is set so runs can be
// reproduced.
func newSource(v *viper.Viper) cardgen.Source {
	if seed := v.GetInt64("seed"); seed != 0 {
		return rand.New(rand.NewSource(seed))
	}
	return cardgen.NewCryptoSource()
}

func newLogger(v *viper.Viper) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(v.GetString("log_level"))); err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
