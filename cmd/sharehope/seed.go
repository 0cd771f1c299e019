package main

import (
	"context"
	"fmt"

	"sharehope/internal/db"
	"sharehope/internal/seed"
	"sharehope/internal/store"

	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Sync default categories, resource categories and menus",
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig(c.String("env-prefix"))
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger := newLogger(cfg)
		ctx := context.Background()

		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		logger.Info("connected to database")

		err = pool.WithinTx(ctx, func(ctx context.Context) error {
			if err := seed.SeedCategories(ctx, logger, store.NewCategoryRepository(pool)); err != nil {
				return fmt.Errorf("failed to seed categories: %w", err)
			}

			if err := seed.SeedResourceCategories(ctx, logger, store.NewResourceCategoryRepository(pool)); err != nil {
				return fmt.Errorf("failed to seed resource categories: %w", err)
			}

			if err := seed.SeedMenus(ctx, logger, store.NewMenuRepository(pool)); err != nil {
				return fmt.Errorf("failed to seed menus: %w", err)
			}

			return nil
		})
		if err != nil {
			return err
		}

		logger.Info("seed complete")

		return nil
	},
}
