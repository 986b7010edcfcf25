package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/beauty_shop/pkg/backendclient"
	pkgcfg "github.com/Skotchmaster/beauty_shop/pkg/config"
	"github.com/Skotchmaster/beauty_shop/pkg/logging"
	"github.com/Skotchmaster/beauty_shop/services/storefront/internal/checkout"
	storefrontcfg "github.com/Skotchmaster/beauty_shop/services/storefront/internal/config"
	"github.com/Skotchmaster/beauty_shop/services/storefront/internal/localstore"
	"github.com/Skotchmaster/beauty_shop/services/storefront/internal/session"
	"github.com/Skotchmaster/beauty_shop/services/storefront/internal/store"
)

var (
	cfg    storefrontcfg.ServiceConfig
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Beauty shop storefront",
	Long:  "Storefront service of the beauty shop: catalog, cart, wishlist, accounts, checkout and admin.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initConfig()
	},
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("env-file", "services/storefront/.env", "Path to a .env file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
}

func initConfig() {
	envFile, _ := rootCmd.PersistentFlags().GetString("env-file")
	pkgcfg.LoadDotEnv(envFile)

	cfg = storefrontcfg.Load()
	if v, _ := rootCmd.PersistentFlags().GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}

	logger = logging.New(cfg.LogLevel, cfg.LogFormat).With("service", cfg.ServiceName)
	slog.SetDefault(logger)
}

func baseContext() context.Context {
	return logging.IntoContext(context.Background(), logger)
}

// backends picks the real backend client or the inert stand-in.
type backends struct {
	client  *backendclient.Client
	catalog store.CatalogBackend
	orders  checkout.OrdersBackend
	newAuth session.AuthFactory
}

func newBackends() backends {
	if cfg.Unconfigured() {
		logger.Warn("backend_unconfigured", "reason", cfg.Warning)
		return backends{
			catalog: backendclient.Inert{},
			orders:  backendclient.Inert{},
			newAuth: func(localstore.Storage) store.AuthBackend { return backendclient.InertAuth{} },
		}
	}

	client := backendclient.New(cfg.BackendURL, cfg.BackendKey)
	return backends{
		client:  client,
		catalog: client,
		orders:  client,
		newAuth: func(s localstore.Storage) store.AuthBackend { return client.NewAuthClient(s) },
	}
}
