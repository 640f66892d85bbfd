package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/derekensign/mls-fantasy-sub000/internal/app"
	"github.com/derekensign/mls-fantasy-sub000/internal/config"
	"github.com/derekensign/mls-fantasy-sub000/internal/interfaces/lambdaproxy"
	"github.com/derekensign/mls-fantasy-sub000/internal/observability"
	"github.com/derekensign/mls-fantasy-sub000/internal/platform/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.New(logging.Options{
		Level:       cfg.LogLevel,
		ServiceName: cfg.ServiceName,
		Environment: cfg.AppEnv,
	})
	logging.SetDefault(logger)

	ctx := context.Background()
	if _, err := observability.InitUptrace(cfg, logger); err != nil {
		logger.Error("init uptrace", "error", err)
		os.Exit(1)
	}

	// The container is reused across invocations so the app lives for its lifetime.
	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}

	lambda.Start(lambdaproxy.New(application.Router, logger).Handle)
}
