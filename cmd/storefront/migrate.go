package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"go-storefront/internal/adapters/storage"
)

func newMigrateCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := opts.cfg.Storage
			if cfg.Driver == storage.DriverMemory {
				return fmt.Errorf("nothing to migrate for storage driver %s", cfg.Driver)
			}

			db, err := storage.Open(cfg.Driver, cfg.DSN, cfg.MaxOpenConns)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := storage.Migrate(db); err != nil {
				return err
			}
			log.Printf("Migrated %s database", cfg.Driver)

			return nil
		},
	}
}
