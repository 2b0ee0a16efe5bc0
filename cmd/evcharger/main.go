package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/evcharger-search/evcharger-search/cmd/evcharger/cli"
	"github.com/evcharger-search/evcharger-search/internal/app"
	"github.com/evcharger-search/evcharger-search/internal/auth"
	"github.com/evcharger-search/evcharger-search/internal/importer"
	"github.com/evcharger-search/evcharger-search/internal/observability"
	"github.com/evcharger-search/evcharger-search/internal/platform/cache"
	"github.com/evcharger-search/evcharger-search/internal/prices"
	"github.com/evcharger-search/evcharger-search/internal/searches"
	"github.com/evcharger-search/evcharger-search/internal/shared"
	"github.com/evcharger-search/evcharger-search/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Default().Warn("load .env", slog.Any("error", err))
	}

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)
	for _, warning := range cfg.Warnings() {
		logger.Warn("config", slog.String("warning", warning))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := &cobra.Command{
		Use:           "evcharger",
		Short:         "EV charging price comparison API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), cfg, logger, stop)
		},
	}
	root.AddCommand(cli.NewImportPreviewCommand(func(ctx context.Context) (cli.Previewer, func(), error) {
		stores, err := app.OpenStores(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return newImportService(cfg, stores, nil, logger), stores.Close, nil
	}))

	if err := root.ExecuteContext(ctx); err != nil {
		code := cli.ExitCode(err)
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) || exitErr.Err != nil {
			logger.Error("command failed", slog.Any("error", err))
		}
		stop()
		os.Exit(code)
	}
}

func runServer(ctx context.Context, cfg *app.Config, logger *slog.Logger, stop context.CancelFunc) error {
	stores, err := app.OpenStores(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s database: %w", cfg.DBDriver, err)
	}
	defer stores.Close()

	authService := auth.NewService(stores.Auth)
	if cfg.AdminDefaultPassword != "" {
		created, err := authService.EnsureDefaultAdmin(ctx, cfg.AdminDefaultPassword)
		if err != nil {
			return fmt.Errorf("seed admin user: %w", err)
		}
		if created {
			logger.Info("default admin user created", slog.String("username", auth.DefaultAdminUsername))
		}
	}

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, using in-process cache", slog.Any("error", err))
		redisClient = nil
	}
	if redisClient != nil {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	metrics := observability.NewMetrics()
	translator := shared.NewTranslator(cfg.DefaultLocale)

	var (
		scheduler  prices.WarmupScheduler
		jobHandler *jobs.Handler
	)
	if redisClient != nil {
		queueClient, err := jobs.NewClient(cache.AsynqOpts(cfg.RedisAddr))
		if err != nil {
			return fmt.Errorf("init job client: %w", err)
		}
		defer func() {
			if err := queueClient.Close(); err != nil {
				logger.Warn("job client close", slog.Any("error", err))
			}
		}()
		scheduler = queueClient

		inspector := asynq.NewInspector(cache.AsynqOpts(cfg.RedisAddr))
		defer func() {
			if err := inspector.Close(); err != nil {
				logger.Warn("inspector close", slog.Any("error", err))
			}
		}()
		jobHandler = jobs.NewHandler(inspector, logger)
	}

	priceCache := prices.NewCache(redisClient, cfg.CacheDuration)
	lister := prices.NewLister(stores.Prices, priceCache)
	refresher := prices.NewRefresher(priceCache, scheduler, logger)
	pricesService := prices.NewService(stores.Prices)
	pricesHandler := prices.NewHandler(logger, pricesService, lister, priceCache, refresher, translator)

	importService := newImportService(cfg, stores, importer.NewMetrics(metrics.Registerer()), logger)
	importHandler := importer.NewHandler(logger, importService, refresher, translator)

	searchesHandler := searches.NewHandler(logger, searches.NewService(stores.Searches), translator)

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		Translator:      translator,
		Authenticator:   authService,
		AuthHandler:     auth.NewHandler(),
		PricesHandler:   pricesHandler,
		ImportHandler:   importHandler,
		SearchesHandler: searchesHandler,
		JobHandler:      jobHandler,
		Metrics:         metrics,
	})

	server := &http.Server{
		Addr:              cfg.AppAddr,
		Handler:           router,
		ReadTimeout:       cfg.AppReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server",
			slog.String("addr", cfg.AppAddr),
			slog.String("env", cfg.AppEnv),
			slog.String("db_driver", cfg.DBDriver),
			slog.Bool("redis", redisClient != nil),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

func newImportService(cfg *app.Config, stores *app.Stores, metrics *importer.Metrics, logger *slog.Logger) *importer.Service {
	fetcher := importer.NewFetcher(&http.Client{Timeout: cfg.ImportFetchTimeout}, cfg.ImportMaxBodyBytes)
	return importer.NewService(fetcher, stores.Prices, importer.NewCommitter(stores.Prices), metrics, logger)
}
