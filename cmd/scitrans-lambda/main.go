// Package main is the AWS Lambda entrypoint for scitrans.
package main

import (
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/spherical-ai/scitrans/internal/app"
	"github.com/spherical-ai/scitrans/internal/config"
	"github.com/spherical-ai/scitrans/internal/observability"
)

func main() {
	config.LoadDotEnv()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		observability.DefaultLogger().Fatal().Err(err).Msg("Invalid configuration")
	}

	logger := app.NewLogger(cfg, "scitrans-lambda")
	a, err := app.New(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialise services")
	}

	lambda.Start(NewHandler(a.Translator, logger).Handle)
}
