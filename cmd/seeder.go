package cmd

import (
	"fmt"

	"github.com/frahmantamala/spendwise/internal/client"
	"github.com/frahmantamala/spendwise/internal/expense"
	"github.com/frahmantamala/spendwise/internal/expense/store"
	"github.com/frahmantamala/spendwise/pkg/logger"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Store the five sample expenses so a fresh install has something to show.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := loadAndInit()
		if err != nil {
			return err
		}

		db, err := openDatabase(ctx, cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		lg := logger.LoggerWrapper()
		repo := store.NewExpenseRepository(db, cfg.Database.QueryTimeout)

		if clearData {
			removed, err := repo.DeleteAll(ctx)
			if err != nil {
				return err
			}
			lg.Info("cleared existing expenses", "removed", removed)
		}

		service := expense.NewService(repo, nil, nil, lg)
		for _, dto := range client.DemoExpenses() {
			created, err := service.CreateExpense(ctx, dto)
			if err != nil {
				return fmt.Errorf("failed to seed %q: %w", dto.Title, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded expense #%d: %s (%s)\n", created.ID, created.Title, created.Category)
		}
		return nil
	},
}
