package main

import (
	"os"

	"Cestas/internal/db"
	"Cestas/internal/logging"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	var opts serveOptions
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Применить миграции и выйти",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadDBConfig(opts)
			if err != nil {
				return err
			}
			log := logging.New(os.Stdout, cfg.LogFormat, cfg.LogLevel)

			sqlDB, err := db.Open(cmd.Context(), cfg.DSN(), cfg.SafeDSN(), db.DefaultPool, log)
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			if err := db.Migrate(cmd.Context(), sqlDB); err != nil {
				return err
			}
			log.Info(cmd.Context(), "migrations applied")
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.databaseURL, "database-url", "", "DSN Postgres, перекрывает DATABASE_URL")
	return cmd
}
