package cmd

import (
	"fmt"

	"github.com/frahmantamala/spendwise/internal/database"
	"github.com/frahmantamala/spendwise/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "apply the embedded schema migrations",
	}
	migrateRollback bool
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
}

func runMigration(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, err := loadAndInit()
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.Database, false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if migrateRollback {
		err = database.Rollback(ctx, db.SQLX.DB, db.Driver)
	} else {
		err = database.Migrate(ctx, db.SQLX.DB, db.Driver)
	}
	if err != nil {
		return err
	}

	version, err := database.Version(ctx, db.SQLX.DB, db.Driver)
	if err != nil {
		return err
	}
	logger.LoggerWrapper().Info("migrations complete",
		"driver", db.Driver,
		"rollback", migrateRollback,
		"version", version)
	return nil
}
