package main

import (
	"document-approval-server/internal/migrations"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Применение миграций схемы БД",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, flush, err := bootstrap()
			if err != nil {
				return err
			}
			defer flush()

			db, closeDB, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			return migrations.Up(cmd.Context(), db.DB.DB, cfg.DatabaseConfig.Driver)
		},
	}
}
