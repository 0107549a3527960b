package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lattice-ci/lattice-go/internal/goldens"
	"github.com/lattice-ci/lattice-go/internal/platform/auth"
	"github.com/lattice-ci/lattice-go/internal/platform/env"
	"github.com/lattice-ci/lattice-go/internal/platform/httpserver"
	"github.com/lattice-ci/lattice-go/internal/platform/objectstore"
	"github.com/lattice-ci/lattice-go/internal/platform/postgres"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx := context.Background()
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := env.String("LATTICE_HTTP_ADDR", ":8080")
	shutdownTimeout, err := env.Duration("LATTICE_SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		logger.Error("invalid env", "error", err)
		os.Exit(2)
	}
	strictAxes, err := env.Bool("LATTICE_STRICT_AXES", false)
	if err != nil {
		logger.Error("invalid strict axes flag", "error", err)
		os.Exit(2)
	}
	goldenURLTTL, err := env.Duration("LATTICE_GOLDEN_URL_TTL", 15*time.Minute)
	if err != nil {
		logger.Error("invalid golden url ttl", "error", err)
		os.Exit(2)
	}

	dbCfg, err := postgres.ConfigFromEnv()
	if err != nil {
		logger.Error("invalid database config", "error", err)
		os.Exit(2)
	}
	db, err := postgres.Open(ctx, dbCfg)
	if err != nil {
		logger.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	storeCfg, err := objectstore.ConfigFromEnv()
	if err != nil {
		logger.Error("invalid object store config", "error", err)
		os.Exit(2)
	}
	storeClient, err := objectstore.NewMinIOClient(storeCfg)
	if err != nil {
		logger.Error("object store client init failed", "error", err)
		os.Exit(2)
	}
	startupCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := objectstore.EnsureBuckets(startupCtx, storeClient, storeCfg); err != nil {
		cancel()
		logger.Error("object store unavailable", "error", err)
		os.Exit(1)
	}
	cancel()

	goldenStore, err := goldens.NewStore(storeClient, storeCfg.BucketGoldens)
	if err != nil {
		logger.Error("goldens store init failed", "error", err)
		os.Exit(2)
	}

	authCfg, err := auth.ConfigFromEnv()
	if err != nil {
		logger.Error("invalid auth config", "error", err)
		os.Exit(2)
	}
	authenticator, err := auth.NewAuthenticator(ctx, authCfg)
	if err != nil {
		logger.Error("auth init failed", "error", err)
		os.Exit(2)
	}
	if authenticator == nil {
		logger.Warn("auth disabled", "mode", string(authCfg.Mode))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", httpserver.Healthz("matrix"))
	mux.HandleFunc(
		"/readyz",
		httpserver.ReadyzWithChecks(
			"matrix",
			httpserver.ReadinessCheck{
				Name: "postgres",
				Check: func(ctx context.Context) error {
					checkCtx, cancel := context.WithTimeout(ctx, 750*time.Millisecond)
					defer cancel()
					return db.PingContext(checkCtx)
				},
			},
			httpserver.ReadinessCheck{
				Name: "minio",
				Check: func(ctx context.Context) error {
					checkCtx, cancel := context.WithTimeout(ctx, 750*time.Millisecond)
					defer cancel()
					return objectstore.CheckBuckets(checkCtx, storeClient, storeCfg)
				},
			},
		),
	)

	api := newMatrixAPI(logger, db, goldenStore, strictAxes, goldenURLTTL)
	api.register(mux)

	handler := auth.Middleware{
		Logger:        logger,
		Authenticator: authenticator,
		Authorize:     auth.MethodRoleAuthorizer(),
		SkipPrefixes:  []string{"/healthz", "/readyz"},
	}.Wrap(mux)

	cfg := httpserver.Config{
		Service:         "matrix",
		Addr:            addr,
		ShutdownTimeout: shutdownTimeout,
	}

	if err := httpserver.Run(ctx, logger, cfg, httpserver.Wrap(logger, "matrix", handler)); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}
