package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/alovak/cardsynth/testcards"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newServeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the test card HTTP service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			app := testcards.NewApp(newLogger(v), cfg)
			if err := app.Start(); err != nil {
				return err
			}

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
			select {
			case <-stop:
			case <-cmd.Context().Done():
			}

			app.Shutdown()
			return nil
		},
	}
	f := cmd.Flags()
	f.String("addr", "", "HTTP listen address")
	f.String("repo-backend", "", "repository backend: mem|pg")
	f.String("db-dsn", "", "Postgres DSN for the pg backend")
	f.String("expiry-tz", "", "IANA timezone for expiry dates")
	_ = v.BindPFlag("http_addr", f.Lookup("addr"))
	_ = v.BindPFlag("repo_backend", f.Lookup("repo-backend"))
	_ = v.BindPFlag("db_dsn", f.Lookup("db-dsn"))
	_ = v.BindPFlag("expiry_tz", f.Lookup("expiry-tz"))
	return cmd
}
