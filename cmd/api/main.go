package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"billing-core/config"
	httpHandler "billing-core/internal/adapter/http/handler"
	"billing-core/internal/adapter/storage/memory"
	pgStorage "billing-core/internal/adapter/storage/postgres"
	"billing-core/internal/core/ports"
	"billing-core/internal/service"
	"billing-core/pkg/logger"

	"github.com/rs/zerolog"
)

// repos groups the persistence ports the services are wired from, so the
// postgres and memory drivers plug in interchangeably.
type repos struct {
	store        ports.Store
	currencies   ports.CurrencyRepository
	rates        ports.ConversionRateRepository
	wallets      ports.WalletRepository
	invoices     ports.InvoiceRepository
	transactions ports.TransactionRepository
	attempts     ports.AttemptRepository
	systems      ports.PaymentSystemRepository
	merchants    ports.MerchantRepository
	staff        ports.StaffRepository
}

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Str("driver", cfg.Database.Driver).
		Int("port", cfg.Server.Port).
		Msg("Starting billing core")

	ctx := context.Background()

	r, cleanup, err := buildRepos(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize storage")
	}
	defer cleanup()

	// Core services
	hasher := service.NewBcryptHasher()
	authSvc := service.NewAuthService(r.merchants, r.staff, hasher, log)
	billingSvc := service.NewBillingService(r.currencies, r.wallets, r.invoices, r.transactions, log)
	rateSvc := service.NewRateService(r.currencies, r.rates, log)
	invoiceSvc := service.NewInvoiceService(r.store, r.invoices, r.transactions, r.wallets, rateSvc, log)
	txSvc := service.NewTransactionService(r.store, r.transactions, r.invoices, r.attempts, r.systems, log)
	attemptSvc := service.NewAttemptService(r.store, r.attempts, r.transactions, r.invoices, r.systems, cfg.Server.Hostname, log)
	webhookSvc := service.NewWebhookService(r.store, r.systems, attemptSvc, log)

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:    authSvc,
		AccountSvc: authSvc,
		BillingSvc: billingSvc,
		RateSvc:    rateSvc,
		InvoiceEng: invoiceSvc,
		TxEng:      txSvc,
		AttemptEng: attemptSvc,
		WebhookSvc: webhookSvc,
		Hostname:   cfg.Server.Hostname,
		Logger:     log,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
	log.Info().Msg("Server stopped")
}

// buildRepos wires the storage driver the config selects. The memory driver
// seeds the development fixtures so the server is usable out of the box.
func buildRepos(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*repos, func(), error) {
	if cfg.Database.Driver == "memory" {
		store := memory.NewStore()
		if err := memory.Seed(ctx, store); err != nil {
			return nil, nil, fmt.Errorf("seeding memory store: %w", err)
		}
		log.Info().Msg("In-memory store seeded")
		return &repos{
			store:        store,
			currencies:   store.Currencies(),
			rates:        store.ConversionRates(),
			wallets:      store.Wallets(),
			invoices:     store.Invoices(),
			transactions: store.Transactions(),
			attempts:     store.Attempts(),
			systems:      store.PaymentSystems(),
			merchants:    store.Merchants(),
			staff:        store.Staff(),
		}, func() {}, nil
	}

	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		return nil, nil, err
	}
	db := pgStorage.NewDB(pool, log)
	return &repos{
		store:        db,
		currencies:   pgStorage.NewCurrencyRepo(db),
		rates:        pgStorage.NewConversionRateRepo(db),
		wallets:      pgStorage.NewWalletRepo(db),
		invoices:     pgStorage.NewInvoiceRepo(db),
		transactions: pgStorage.NewTransactionRepo(db),
		attempts:     pgStorage.NewAttemptRepo(db),
		systems:      pgStorage.NewPaymentSystemRepo(db),
		merchants:    pgStorage.NewMerchantRepo(db),
		staff:        pgStorage.NewStaffRepo(db),
	}, pool.Close, nil
}
