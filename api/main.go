package main

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	migrations "github.com/masseurtouch/signup/db"
	"github.com/masseurtouch/signup/internal/config"
	"github.com/masseurtouch/signup/internal/db"
	"github.com/masseurtouch/signup/internal/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "signup",
		Short:        "MasseurTouch signup form",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("CONFIG_PATH"), "path to config.toml")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Serve the signup form",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := newApp(configPath)
			if err := app.Err(); err != nil {
				return err
			}
			app.Run()
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "migrate [up|down|version|force N]",
		Short: "Manage the profile table schema",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger.Init(cfg.Log.Level, cfg.Log.Format)

			sub, err := fs.Sub(migrations.MigrationsFS, "migrations")
			if err != nil {
				return err
			}
			return db.RunMigrate(logger.L, cfg.Postgres, sub, args[0], args[1:])
		},
	})

	return root
}
