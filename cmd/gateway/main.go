// Command gateway serves the console's /api routes and relays them to the
// backend API.
//
// @title                      License Console Gateway API
// @version                    1.0
// @description                Thin proxy in front of the partner and license backend.
// @BasePath                   /api
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
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

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"

	"github.com/licensehub/console-gateway/internal/api"
	"github.com/licensehub/console-gateway/internal/core/service"
	"github.com/licensehub/console-gateway/internal/infrastructure/config"
	"github.com/licensehub/console-gateway/internal/infrastructure/upstream"
	"github.com/licensehub/console-gateway/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, envconfig.OsLookuper()); err != nil {
		l := logger.New(logger.Options{Service: "gateway"})
		l.Fatal().Err(err).Msg("gateway stopped")
	}
}

// run serves until ctx is cancelled or the listener fails.
func run(ctx context.Context, env envconfig.Lookuper) error {
	cfg, err := config.LoadWith(ctx, env)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "gateway",
	})

	e := newServer(cfg, log)

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("backend", cfg.Backend.URL).
			Dur("request_timeout", cfg.Backend.RequestTimeout()).
			Msg("gateway listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

func newServer(cfg *config.Config, log zerolog.Logger) *echo.Echo {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return api.NewRouter(api.Deps{
		Upstream: upstream.NewClient(cfg.Backend.URL, &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConnsPerHost: 32,
				IdleConnTimeout:     90 * time.Second,
			},
		}),
		Proxy: service.ProxyOptions{
			Timeout:           cfg.Backend.RequestTimeout(),
			LicenseTenantPath: cfg.Backend.LicenseTenantPath,
		},
		Log:      log,
		Registry: reg,
	})
}
