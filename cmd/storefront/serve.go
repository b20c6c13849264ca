package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"go-storefront/internal/adapters/queue"
	orderRepo "go-storefront/internal/adapters/repository/order"
	"go-storefront/internal/adapters/rest/storefront"
	"go-storefront/internal/config"
	"go-storefront/internal/services/basket"
	"go-storefront/internal/services/catalog"
	"go-storefront/internal/services/notification"
	"go-storefront/internal/services/order"
	"go-storefront/pkg/diagnostics"
	"go-storefront/pkg/tracing"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the storefront HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, opts.cfg)
		},
	}

	flags := cmd.Flags()
	flags.IntP("port", "p", 0, "HTTP API port")
	flags.Int("diagnostics-port", 0, "metrics, health and pprof port")
	_ = opts.v.BindPFlag("http.port", flags.Lookup("port"))
	_ = opts.v.BindPFlag("diagnostics.port", flags.Lookup("diagnostics-port"))

	return cmd
}

func serve(ctx context.Context, cfg config.Config) error {
	exporter, err := tracing.NewExporter(ctx, cfg.Tracing.Exporter, cfg.Tracing.Endpoint, os.Stdout)
	if err != nil {
		return err
	}
	provider := tracing.NewProvider(cfg.Tracing.ServiceName, exporter)

	repos, err := openRepositories(cfg.Storage)
	if err != nil {
		return err
	}
	defer repos.Close()

	catalogService := catalog.NewService(repos.catalog, provider.Tracer("catalog-service"))
	if err := seedCatalog(ctx, catalogService, cfg.Catalog.SeedFile); err != nil {
		return err
	}

	orderService := order.NewService(
		repos.orders,
		catalogService,
		provider.Tracer("order-service"),
		cfg.Payment.Methods,
	)

	queueClient := queue.NewInMemoryQueue()
	notificationService := notification.NewService(provider.Tracer("notification-service"), log.Default())
	confirmationHandler := notification.NewConfirmationHandler(
		notificationService,
		provider.Tracer("order-confirmation-handler"),
	)

	consumerCtx, stopConsumers := context.WithCancel(context.Background())
	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		err := queueClient.Consume(consumerCtx, notification.ConfirmationTopic, confirmationHandler)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("Confirmation consumer stopped: %v", err)
		}
	}()

	outboxWorker := orderRepo.NewOutboxWorker(repos.orders, queueClient, cfg.Outbox.Interval)
	outboxWorker.Start()

	baskets := basket.NewStore(catalogService, provider.Tracer("basket-store"), cfg.Payment.Methods)
	sweeper := basket.NewSweeper(baskets, cfg.Basket.IdleTimeout, cfg.Basket.SweepInterval)
	sweeper.Start()

	checks := map[string]diagnostics.HealthCheck{}
	if repos.db != nil {
		checks["database"] = repos.db.PingContext
	}
	diagnosticsServer := diagnostics.NewServer(cfg.Diagnostics.Port, checks)

	api := storefront.NewServer(storefront.Config{
		Catalog:       catalogService,
		Orders:        orderService,
		Baskets:       baskets,
		Tracer:        provider.Tracer("storefront-rest-api"),
		AdminUser:     cfg.Admin.Username,
		AdminPassword: cfg.Admin.Password,
	})

	errs := make(chan error, 2)
	go func() { errs <- diagnosticsServer.Start() }()
	go func() { errs <- api.ListenAndServe(cfg.HTTP.Port) }()

	log.Printf("Storefront listening on :%d (diagnostics on :%d, storage %s)",
		cfg.HTTP.Port, cfg.Diagnostics.Port, cfg.Storage.Driver)

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errs:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := api.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down API: %v", err)
	}
	sweeper.Stop()
	outboxWorker.Stop()
	stopConsumers()
	queueClient.Close()
	<-consumerDone
	if err := diagnosticsServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down diagnostics: %v", err)
	}
	if err := provider.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down tracer provider: %v", err)
	}

	return serveErr
}

// seedCatalog loads path into the catalog when it is empty.
func seedCatalog(ctx context.Context, service catalog.Service, path string) error {
	if path == "" {
		return nil
	}

	current, err := service.List(ctx)
	if err != nil {
		return err
	}
	if current.Total > 0 {
		return nil
	}

	list, err := catalog.ReadProductList(path)
	if err != nil {
		return err
	}

	created, err := service.Seed(ctx, list)
	if err != nil {
		return err
	}
	log.Printf("Seeded catalog with %d products from %s", created, path)

	return nil
}
