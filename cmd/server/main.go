package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/nutrilog/nutrilog/internal/adapters"
	manualadapter "github.com/nutrilog/nutrilog/internal/adapters/manual"
	"github.com/nutrilog/nutrilog/internal/adapters/openfoodfacts"
	"github.com/nutrilog/nutrilog/internal/adapters/usda"
	"github.com/nutrilog/nutrilog/internal/cache"
	"github.com/nutrilog/nutrilog/internal/config"
	"github.com/nutrilog/nutrilog/internal/domain/models"
	"github.com/nutrilog/nutrilog/internal/repository"
	"github.com/nutrilog/nutrilog/internal/repository/memory"
	"github.com/nutrilog/nutrilog/internal/repository/mongodb"
	"github.com/nutrilog/nutrilog/internal/repository/sheets"
	"github.com/nutrilog/nutrilog/internal/scheduler"
	"github.com/nutrilog/nutrilog/internal/server/handlers"
	"github.com/nutrilog/nutrilog/internal/server/router"
	barcodesvc "github.com/nutrilog/nutrilog/internal/service/barcode"
	exportsvc "github.com/nutrilog/nutrilog/internal/service/export"
	goalsvc "github.com/nutrilog/nutrilog/internal/service/goals"
	logsvc "github.com/nutrilog/nutrilog/internal/service/logs"
	notifysvc "github.com/nutrilog/nutrilog/internal/service/notify"
	productsvc "github.com/nutrilog/nutrilog/internal/service/products"
	templatesvc "github.com/nutrilog/nutrilog/internal/service/templates"
	"github.com/nutrilog/nutrilog/pkg/clients/webhook"
	"github.com/nutrilog/nutrilog/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	var (
		logRepo      repository.LogRepository
		manualRepo   repository.ManualProductRepository
		goalsRepo    repository.GoalsRepository
		templateRepo repository.TemplateRepository
	)

	switch cfg.Storage.Driver {
	case "mongo":
		store, err := mongodb.NewStore(context.Background(), cfg.Storage.MongoURI, cfg.Storage.MongoDBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb store", zap.Error(err))
		}
		defer func() {
			if err := store.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		logRepo = store.Logs()
		manualRepo = store.ManualProducts()
		goalsRepo = store.Goals()
		templateRepo = store.Templates()
	default:
		baseLogger.Warn("using in-memory storage, data is lost on restart")
		logRepo = memory.NewLogRepository()
		manualRepo = memory.NewManualProductRepository()
		goalsRepo = memory.NewGoalsRepository()
		templateRepo = memory.NewTemplateRepository()
	}

	registry := adapters.Registry{
		models.SourceOpenFoodFacts: openfoodfacts.New(cfg.Catalog.OpenFoodFactsBaseURL, baseLogger.Named("adapter.off")),
		models.SourceUSDAFoodData:  usda.New(cfg.Catalog.USDABaseURL, cfg.Catalog.USDAAPIKey, baseLogger.Named("adapter.usda")),
		models.SourceManual:        manualadapter.New(manualRepo),
	}

	var webhookClient webhook.Client
	if cfg.Webhook.Enabled {
		webhookClient = webhook.NewClient(cfg.Webhook.URL)
	}
	notifier := notifysvc.NewService(webhookClient, cfg.Webhook.Enabled, baseLogger.Named("svc.notify"))

	var sheetSink sheets.Sink
	if cfg.Sheets.CredentialsPath != "" && cfg.Sheets.SpreadsheetID != "" {
		sheetSink, err = sheets.NewGoogleSheetSink(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets sink", zap.Error(err))
		}
	} else {
		baseLogger.Info("google sheets export disabled")
	}

	productCache := cache.New(cfg.Cache.TTL)
	productSvc := productsvc.NewService(registry, productCache, manualRepo, baseLogger.Named("svc.products"))
	barcodeSvc := barcodesvc.NewService(registry, cfg.Catalog.BarcodeLookupOrder, baseLogger.Named("svc.barcode"))
	logSvc := logsvc.NewService(productSvc, logRepo, notifier, cfg.Export.MaxRangeDays, baseLogger.Named("svc.logs"))
	exportSvc := exportsvc.NewService(logRepo, sheetSink, cfg.Export.MaxRangeDays, baseLogger.Named("svc.export"))
	goalsSvc := goalsvc.NewService(goalsRepo, logSvc, baseLogger.Named("svc.goals"))
	templateSvc := templatesvc.NewService(templateRepo, logSvc, baseLogger.Named("svc.templates"))

	engine := router.New(router.Handlers{
		Products:  handlers.NewProductsHandler(productSvc, barcodeSvc, baseLogger.Named("handlers.products")),
		Logs:      handlers.NewLogsHandler(logSvc, exportSvc, baseLogger.Named("handlers.logs")),
		Goals:     handlers.NewGoalsHandler(goalsSvc, baseLogger.Named("handlers.goals")),
		Templates: handlers.NewTemplatesHandler(templateSvc, baseLogger.Named("handlers.templates")),
	}, cfg.Auth.APIKeys, baseLogger.Named("router"))

	sched, err := scheduler.NewScheduler(*cfg, logSvc, notifier, baseLogger.Named("scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
