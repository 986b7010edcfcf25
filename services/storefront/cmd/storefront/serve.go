package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	loggingmw "github.com/Skotchmaster/beauty_shop/pkg/middleware/logging"
	"github.com/Skotchmaster/beauty_shop/services/storefront/internal/checkout"
	"github.com/Skotchmaster/beauty_shop/services/storefront/internal/httpserver"
	"github.com/Skotchmaster/beauty_shop/services/storefront/internal/localstore"
	"github.com/Skotchmaster/beauty_shop/services/storefront/internal/session"
	"github.com/Skotchmaster/beauty_shop/services/storefront/internal/store"
)

const sweepInterval = 10 * time.Minute

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the storefront HTTP server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "HTTP port (default from $SERVER_PORT or 8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if p, _ := cmd.Flags().GetInt("port"); p > 0 {
		cfg.ServerPort = p
	}

	ctx, stop := signal.NotifyContext(baseContext(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b := newBackends()

	catalog := store.NewCatalog(b.catalog)
	loadCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	if err := catalog.Load(loadCtx); err != nil {
		logger.Warn("catalog_empty", "reason", "initial load failed", "error", err)
	}
	cancel()

	registry := session.NewRegistry(
		func(deviceID string) (localstore.Storage, error) {
			return localstore.NewFile(cfg.DeviceStorageDir, deviceID)
		},
		b.newAuth,
	)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		Catalog:  catalog,
		Sessions: registry,
		Checkout: &checkout.Service{Backend: b.orders},
		Warning:  cfg.Warning,

		SecureCookies: cfg.SecureCookies,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("storefront_listening", "addr", srv.Addr, "configured", !cfg.Unconfigured())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return registry.RunSweeper(gctx, sweepInterval, cfg.SessionIdle)
	})

	err := g.Wait()
	logger.Info("storefront_stopped")
	return err
}
