package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lborres/accounts"
	fiberadapter "github.com/lborres/accounts/adapters/fiber"
	"github.com/lborres/accounts/config"
	"github.com/lborres/accounts/pkg/crypto"
	"github.com/lborres/accounts/pkg/logging"
	"github.com/lborres/accounts/pkg/metrics"
)

const shutdownTimeout = 10 * time.Second

func main() {
	genSecret := flag.Bool("gen-secret", false, "print a random JWT_SEC value and exit")
	flag.Parse()

	if *genSecret {
		secret, err := crypto.GenerateSecret()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(secret)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	srv, err := newServer(ctx, cfg, logger, prometheus.NewRegistry())
	if err != nil {
		return err
	}
	defer func() {
		if err := srv.close(); err != nil {
			logger.Warn("failed to close credential store", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)

	egroup, ctx := errgroup.WithContext(ctx)

	egroup.Go(func() error {
		logger.Info("listening", zap.String("addr", addr), zap.String("base_path", cfg.Server.BasePath))
		return srv.app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
	})

	egroup.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.app.ShutdownWithContext(shutdownCtx)
	})

	if err := egroup.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

type server struct {
	app   *fiber.App
	close func() error
}

// newServer wires the store, the account routes and /metrics onto a new app.
func newServer(ctx context.Context, cfg *config.Config, logger *zap.Logger, reg *prometheus.Registry) (*server, error) {
	store, closeStore, err := openStore(ctx, cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	app := fiber.New(fiber.Config{AppName: "accountsd"})

	tokenConfig := cfg.TokenConfig()
	cookieConfig := cfg.CookieConfig()

	_, err = accounts.New(accounts.Config{
		Secret:         cfg.JWT.Secret,
		Database:       store,
		HTTP:           fiberadapter.New(app),
		PasswordHasher: cfg.PasswordHasher(),
		TokenConfig:    &tokenConfig,
		CookieConfig:   &cookieConfig,
		BasePath:       cfg.Server.BasePath,
		Logger:         logger,
		Metrics:        metrics.New(reg),
	})
	if err != nil {
		_ = closeStore()
		return nil, fmt.Errorf("could not create accounts instance: %w", err)
	}

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	return &server{app: app, close: closeStore}, nil
}
