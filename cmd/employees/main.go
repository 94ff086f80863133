// Command employees is the lambda behind the api gateway http api.
package main

import (
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
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

	if cfg.TableNameDefaulted {
		logger.Warn("table_name_default", zap.String("table", cfg.TableName))
	}

	store := storage.NewDynamo(cfg.Region, cfg.DynamoEndpoint, cfg.TableName, logger)

	h, err := api.New(employee.NewService(store, cfg.RequireAuth), logger)
	if err != nil {
		logger.Fatal("router_build_failed", zap.Error(err))
	}

	logger.Info("lambda_start",
		zap.String("table", cfg.TableName),
		zap.Bool("require_auth", cfg.RequireAuth),
	)

	lambda.Start(h.Handle)
}
