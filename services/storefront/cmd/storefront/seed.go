package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/beauty_shop/pkg/backendclient"
	pkgcfg "github.com/Skotchmaster/beauty_shop/pkg/config"
	"github.com/Skotchmaster/beauty_shop/services/storefront/internal/localstore"
	"github.com/Skotchmaster/beauty_shop/services/storefront/internal/seed"
	"github.com/Skotchmaster/beauty_shop/services/storefront/internal/store"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a YAML catalog file into the shop",
	Long:  "Signs in as an admin and adds every product of the file that the catalog does not have yet.",
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().String("file", "catalog.yaml", "Catalog YAML file")
	seedCmd.Flags().String("email", "", "Admin email (default from $SEED_ADMIN_EMAIL)")
	seedCmd.Flags().String("password", "", "Admin password (default from $SEED_ADMIN_PASSWORD)")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	if cfg.Unconfigured() {
		return errors.New(cfg.Warning)
	}

	path, _ := cmd.Flags().GetString("file")
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
	if email == "" {
		email = pkgcfg.EnvDefault("SEED_ADMIN_EMAIL", "")
	}
	if password == "" {
		password = pkgcfg.EnvDefault("SEED_ADMIN_PASSWORD", "")
	}

	fh, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer fh.Close()
	file, err := seed.Parse(fh)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(baseContext(), 2*time.Minute)
	defer cancel()

	b := newBackends()

	auth := store.NewAuth(b.client.NewAuthClient(localstore.NewMemory()))
	defer auth.Close()
	auth.Init(ctx)
	if err := auth.SignIn(ctx, email, password); err != nil {
		return fmt.Errorf("admin sign in: %w", err)
	}
	if u, _ := auth.User(); !u.IsAdmin() {
		return fmt.Errorf("%s is not an admin: %w", email, store.ErrUnauthorized)
	}
	tok, err := auth.AccessToken(ctx)
	if err != nil {
		return err
	}
	ctx = backendclient.WithAccessToken(ctx, tok)

	catalog := store.NewCatalog(b.catalog)
	if err := catalog.Load(ctx); err != nil {
		return err
	}

	res, err := seed.Run(ctx, catalog, file)
	if err != nil {
		return err
	}
	logger.Info("seed_done", "file", path, "added", res.Added, "skipped", res.Skipped)
	return nil
}
