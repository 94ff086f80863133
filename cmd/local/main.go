// Command local serves the employee api over plain http for development. It
// emulates the api gateway jwt authorizer with an HS256 shared secret and can
// run against an in-memory store or a dynamodb table.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/prognoshealth/employees/api"
	"github.com/prognoshealth/employees/config"
	"github.com/prognoshealth/employees/employee"
	"github.com/prognoshealth/employees/lambdautils"
	"github.com/prognoshealth/employees/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed loading config: %v\n", err)
		os.Exit(1)
	}

	logger, err := lambdautils.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed building logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if cfg.RequireAuth && cfg.LocalJWTSecret == "" {
		logger.Fatal("local_jwt_secret_missing", zap.String("hint", "set LOCAL_JWT_SECRET or REQUIRE_AUTH=false"))
	}

	h, err := api.New(employee.NewService(newStore(cfg, logger), cfg.RequireAuth), logger)
	if err != nil {
		logger.Fatal("router_build_failed", zap.Error(err))
	}

	srv := &http.Server{
		Addr: cfg.LocalAddr,
		Handler: newRouter(&gateway{
			handle: h.Handle,
			secret: []byte(cfg.LocalJWTSecret),
			logger: logger,
		}),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("local_server_start",
			zap.String("addr", cfg.LocalAddr),
			zap.String("store", cfg.LocalStore),
			zap.Bool("require_auth", cfg.RequireAuth),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("local_server_failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("local_server_shutdown", zap.Error(err))
	}
}

func newStore(cfg *config.Config, logger *zap.Logger) employee.Store {
	if cfg.LocalStore == "dynamodb" {
		if cfg.TableNameDefaulted {
			logger.Warn("table_name_default", zap.String("table", cfg.TableName))
		}
		return storage.NewDynamo(cfg.Region, cfg.DynamoEndpoint, cfg.TableName, logger)
	}

	return storage.NewMemory()
}
