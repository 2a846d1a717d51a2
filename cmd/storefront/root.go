package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"storefront/internal/adapter/catalog"
	"storefront/internal/adapter/localstore"
	"storefront/internal/adapter/postgres"
	"storefront/internal/app"
	"storefront/internal/config"
	"storefront/internal/domain"

	"github.com/spf13/cobra"
)

var cfgFile string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Terminal storefront client: browse products, manage a cart, check out",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./storefront.yaml)")

	root.AddCommand(
		newProductsCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newCartCmd(),
		newAddProductCmd(),
		newCheckoutCmd(),
	)
	return root
}

// withStore builds the adapter stack from config, initializes the state
// manager, and hands it to fn. A catalog fetch failure is not fatal:
// the store runs with an empty catalog and a notice is logged, matching
// the empty-catalog display of the web storefront.
func withStore(fn func(ctx context.Context, s *app.Store) error) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	var state domain.StateStore
	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("open state database: %w", err)
		}
		defer func() { _ = db.Close() }()
		state = postgres.NewStateStore(db, cfg.TerminalID)
	} else {
		state, err = localstore.Open(cfg.StateDir)
		if err != nil {
			return err
		}
	}

	client := catalog.New(cfg.APIBaseURL, cfg.HTTPTimeout)
	store := app.NewStore(client, state, cfg.AdminEmail)

	ctx := context.Background()
	if err := store.Initialize(ctx); err != nil {
		if !errors.Is(err, app.ErrCatalogUnavailable) {
			return err
		}
		log.Printf("warning: %v", err)
	}

	return fn(ctx, store)
}
