package main

import (
	"github.com/jmoiron/sqlx"

	catalogRepo "go-storefront/internal/adapters/repository/catalog"
	orderRepo "go-storefront/internal/adapters/repository/order"
	"go-storefront/internal/adapters/storage"
	"go-storefront/internal/config"
)

type repositories struct {
	db      *sqlx.DB
	catalog catalogRepo.Repository
	orders  orderRepo.Repository
}

// openRepositories returns in-memory repositories for the memory driver and
// SQL repositories over a migrated database otherwise.
func openRepositories(cfg config.StorageConfig) (*repositories, error) {
	if cfg.Driver == storage.DriverMemory {
		return &repositories{
			catalog: catalogRepo.NewRepository(),
			orders:  orderRepo.NewRepository(),
		}, nil
	}

	db, err := storage.Open(cfg.Driver, cfg.DSN, cfg.MaxOpenConns)
	if err != nil {
		return nil, err
	}

	if err := storage.Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &repositories{
		db:      db,
		catalog: catalogRepo.NewSQLRepository(db),
		orders:  orderRepo.NewSQLRepository(db),
	}, nil
}

func (r *repositories) Close() error {
	if r.db == nil {
		return nil
	}

	return r.db.Close()
}
