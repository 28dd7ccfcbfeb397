package main

import (
	"github.com/aws/aws-lambda-go/lambda"
	"kitchenwise.dev/api/internal/auth"
	"kitchenwise.dev/api/internal/config"
	"kitchenwise.dev/api/internal/logging"
)

func main() {
	cfg := config.Read()
	logger := logging.MustNew(cfg.LogLevel, cfg.Environment)
	defer logger.Sync()
	if cfg.AuthPoolURL == "" {
		logger.Fatal("AUTH_POOL_URL is required")
	}
	authorizer := auth.NewUserInfoAuthorizer(cfg.AuthPoolURL, logger)
	lambda.Start(authorizer.Authorize)
}
