package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/bosscape/lfg-bot/internal/infra/logging"
	"github.com/bosscape/lfg-bot/internal/infra/storage"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Aplica las migraciones y sale",
	RunE: func(cmd *cobra.Command, args []string) error {
		dsn, _ := cmd.Flags().GetString("database-url")
		if dsn == "" {
			dsn = envOr("DATABASE_URL", "")
		}
		if dsn == "" {
			return errors.New("missing --database-url or DATABASE_URL")
		}
		db, err := storage.Open(cmd.Context(), dsn)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := storage.Migrate(db); err != nil {
			return err
		}
		logging.Logger.Info().Msg("✅ DB migrada")
		return nil
	},
}

func init() {
	migrateCmd.Flags().String("database-url", "", "DSN de Postgres (default $DATABASE_URL)")
}
