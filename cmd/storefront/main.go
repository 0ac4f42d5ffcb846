// Command storefront is a small console walk through the client core: load
// configuration, sign in (demo mode unless a client id is configured), browse
// the catalog and work a cart.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"storefront-go/internal/api"
	"storefront-go/internal/auth"
	"storefront-go/internal/auth/localstore"
	"storefront-go/internal/auth/provider"
	"storefront-go/internal/eventbus"
	"storefront-go/internal/platform/config"
	platformerrors "storefront-go/internal/platform/errors"
	"storefront-go/internal/platform/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "storefront failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	loader := config.NewLoader()
	result, err := loader.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg := result.Config

	// The hosting environment may override endpoint and client id at runtime.
	if configURL := config.EnvString("CONFIG_ENDPOINT", ""); configURL != "" {
		loader.FetchRuntime(ctx, configURL, cfg)
	}

	logger, err := logging.New(logging.Config{
		Level:    cfg.Log.Level,
		Dir:      cfg.Log.Dir,
		Filename: cfg.Log.File,
	})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logger.Close()
	slogger := logger.Slog()
	slogger.Info("configuration loaded", "source", result.Path, "endpoint", cfg.APIEndpoint)

	store, err := buildStore(cfg)
	if err != nil {
		if !platformerrors.IsKind(err, platformerrors.KindStorage) {
			return fmt.Errorf("open local store: %w", err)
		}
		// Degrade like a browser with storage disabled: the session works but
		// is forgotten on exit.
		slogger.Warn("local store unavailable, keeping session state in memory", "error", err)
		store = localstore.NewMemory()
	}
	defer store.Close(ctx)

	session := auth.NewService(slogger, nil)
	err = session.Configure(provider.Config{
		ClientID:  cfg.AuthClientID,
		AllowDemo: cfg.DemoUser,
		Cache:     store,
		Logger:    slogger,
	})
	if err != nil {
		return fmt.Errorf("configure session: %w", err)
	}

	account, err := session.Login(ctx)
	if err != nil {
		return fmt.Errorf("sign in: %w", err)
	}
	if account == nil {
		fmt.Println("No identity provider configured, browsing anonymously")
	} else {
		fmt.Printf("Signed in as %s <%s>\n", account.Name, account.Username)
	}

	client := api.NewClient(api.Config{
		Endpoint: cfg.APIEndpoint,
		ClientID: cfg.AuthClientID,
		Scope:    cfg.APIScope,
		Tokens:   session,
		Bus:      eventbus.Get(),
		Logger:   slogger,
	})

	products, err := client.ProductCatalog(ctx)
	if err != nil {
		return fmt.Errorf("fetch catalog: %s", api.ErrorDecode(err))
	}
	fmt.Printf("Catalog has %d products\n", len(products))
	for _, p := range products {
		fmt.Printf("  %s  %s  $%.2f\n", p.ID, p.Name, p.Cost)
	}

	if account == nil || len(products) == 0 {
		return nil
	}

	cart, err := client.CartAddAmount(ctx, account.Username, products[0].ID, 1)
	if err != nil {
		return fmt.Errorf("add to cart: %s", api.ErrorDecode(err))
	}
	fmt.Printf("Cart for %s:\n", cart.ForUser)
	for productID, count := range cart.Products {
		fmt.Printf("  %s x%d\n", productID, count)
	}

	return session.Logout(ctx)
}

func buildStore(cfg *config.Config) (localstore.Store, error) {
	storeCfg := localstore.Config{
		Driver: cfg.Store.Driver,
		File:   &localstore.FileConfig{Path: cfg.Store.File},
		Redis: &localstore.RedisConfig{
			Addr:     cfg.Store.Redis.Addr,
			Username: cfg.Store.Redis.Username,
			Password: cfg.Store.Redis.Password,
			DB:       cfg.Store.Redis.DB,
			Prefix:   cfg.Store.Redis.Prefix,
		},
		SQLite: &localstore.SQLiteConfig{DSN: cfg.Store.SQLite.DSN},
	}

	var deps localstore.Dependencies
	if cfg.Store.Driver == localstore.DriverSQLite {
		dsn := cfg.Store.SQLite.DSN
		if dsn == "" {
			dsn = "storefront.db"
		}
		db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err != nil {
			return nil, err
		}
		deps.SQLiteDB = db
	}

	return localstore.New(storeCfg, deps)
}
