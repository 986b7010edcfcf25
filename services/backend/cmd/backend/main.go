package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	pkgcfg "github.com/Skotchmaster/beauty_shop/pkg/config"
	pkgdb "github.com/Skotchmaster/beauty_shop/pkg/db"
	"github.com/Skotchmaster/beauty_shop/pkg/logging"
	loggingmw "github.com/Skotchmaster/beauty_shop/pkg/middleware/logging"
	"github.com/Skotchmaster/beauty_shop/pkg/mykafka"

	backendcfg "github.com/Skotchmaster/beauty_shop/services/backend/internal/config"
	"github.com/Skotchmaster/beauty_shop/services/backend/internal/httpserver"
	"github.com/Skotchmaster/beauty_shop/services/backend/internal/models"
	"github.com/Skotchmaster/beauty_shop/services/backend/internal/payment"
	"github.com/Skotchmaster/beauty_shop/services/backend/internal/repo"
	"github.com/Skotchmaster/beauty_shop/services/backend/internal/search"
	"github.com/Skotchmaster/beauty_shop/services/backend/internal/service"
)

func main() {
	pkgcfg.LoadDotEnv("services/backend/.env")

	cfg := backendcfg.Load()

	logger := logging.New(cfg.LogLevel, cfg.LogFormat).With("service", cfg.ServiceName)
	slog.SetDefault(logger)
	bootCtx := logging.IntoContext(context.Background(), logger)

	ctx, cancel := context.WithTimeout(bootCtx, 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL, sqlLogLevel(cfg.LogLevel))
	if err == nil {
		err = pkgdb.Migrate(ctx, db, models.All()...)
	}
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	var events mykafka.Publisher = mykafka.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := mykafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			log.Fatalf("kafka: %v", err)
		}
		events = producer
	} else {
		logger.Warn("kafka_disabled", "reason", "KAFKA_BROKERS is empty, events are dropped")
	}

	var index search.Index
	if cfg.SearchEnabled() {
		ctx, cancel := context.WithTimeout(bootCtx, 10*time.Second)
		es, err := search.NewElastic(ctx, search.Config{URL: cfg.ESURL, User: cfg.ESUser, Password: cfg.ESPassword})
		cancel()
		if err != nil {
			logger.Warn("search_disabled", "reason", "elasticsearch unavailable, using database search", "error", err)
		} else {
			index = es
		}
	}

	var payments payment.Provider
	if cfg.PaymentSandbox() {
		logger.Warn("payment_sandbox", "reason", "PAYMENT_URL is empty, every order is approved")
		payments = payment.NewSandbox()
	} else {
		payments = payment.NewHTTPProvider(cfg.PaymentURL, cfg.PaymentSecret, cfg.PaymentRate)
	}

	r := &repo.GormRepo{DB: db}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		CatalogHandler: &httpserver.CatalogHTTP{Svc: &service.CatalogService{Repo: r, Events: events, Index: index}},
		AuthHandler: &httpserver.AuthHTTP{Svc: &service.AuthService{
			Repo:          r,
			AccessSecret:  cfg.JWTAccessSecret,
			RefreshSecret: cfg.JWTRefreshSecret,
			AdminEmails:   cfg.AdminEmails,
		}},
		OrderHandler: &httpserver.OrderHTTP{Svc: &service.OrderService{Repo: r, Events: events, Payments: payments}},
		APIKey:       cfg.BackendKey,
		JWTSecret:    cfg.JWTAccessSecret,
		Ready:        pingDB(db),
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("backend_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	if err := events.Close(); err != nil {
		logger.Warn("kafka_close_failed", "error", err)
	}
	_ = pkgdb.Close(db)

	logger.Info("backend_stopped")
}

func pingDB(db *gorm.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		return pkgdb.Ping(ctx, db)
	}
}

// sqlLogLevel echoes statements only when the service itself runs at debug.
func sqlLogLevel(level string) gormlogger.LogLevel {
	if level == "debug" {
		return gormlogger.Info
	}
	return gormlogger.Warn
}
