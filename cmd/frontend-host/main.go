// Static content host for the storefront single-page app. Serves the built
// app, a /config endpoint handing runtime settings to browsers, and /healthz.
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

	_ "github.com/joho/godotenv/autoload"
	"golang.org/x/sync/errgroup"

	"storefront-go/internal/platform/config"
	"storefront-go/internal/platform/logging"
	httptransport "storefront-go/internal/transport/http"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "frontend-host failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	logger, err := logging.New(logging.Config{
		Level: config.EnvString("LOG_LEVEL", "info"),
	})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logger.Close()
	slogger := logger.Slog()

	staticDir := config.EnvString("STATIC_DIR", "./dist")
	port := config.EnvInt("PORT", 8000)

	router, err := httptransport.Build(httptransport.Options{
		APIEndpoint:  config.EnvString("API_ENDPOINT", "/"),
		AuthClientID: config.EnvString("AUTH_CLIENT_ID", ""),
		StaticRoot:   staticDir,
		LogLevel:     config.EnvString("LOG_LEVEL", "info"),
		Logger:       slogger,
	})
	if err != nil {
		return fmt.Errorf("build router: %w", err)
	}

	srv := &http.Server{
		Handler:      router.Engine,
		Addr:         fmt.Sprintf(":%d", port),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(signalCtx)

	group.Go(func() error {
		slogger.Info("frontend host starting", "port", port, "staticDir", staticDir)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		slogger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return group.Wait()
}
