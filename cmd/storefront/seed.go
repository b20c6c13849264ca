package main

import (
	"log"

	"github.com/spf13/cobra"

	"go-storefront/internal/services/catalog"
	"go-storefront/pkg/tracing"
)

func newSeedCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "seed FILE",
		Short: "Load a JSON product list into the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := catalog.ReadProductList(args[0])
			if err != nil {
				return err
			}

			repos, err := openRepositories(opts.cfg.Storage)
			if err != nil {
				return err
			}
			defer repos.Close()

			provider := tracing.NewProvider(opts.cfg.Tracing.ServiceName, nil)
			defer provider.Shutdown(cmd.Context())

			service := catalog.NewService(repos.catalog, provider.Tracer("catalog-service"))
			created, err := service.Seed(cmd.Context(), list)
			if err != nil {
				return err
			}
			log.Printf("Seeded %d of %d products", created, list.Total)

			return nil
		},
	}
}
