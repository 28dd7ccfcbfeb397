package main

import (
	"context"
	"fmt"

	lambdaEvents "github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"
	"kitchenwise.dev/api/internal/config"
	recipeData "kitchenwise.dev/api/internal/dynamodb/recipes"
	"kitchenwise.dev/api/internal/dynamodb/services"
	"kitchenwise.dev/api/internal/dynamodb/token"
	"kitchenwise.dev/api/internal/events"
	"kitchenwise.dev/api/internal/logging"
)

type App struct {
	Handlers []events.EventFilter
	Logger   *zap.Logger
}

func NewApp(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		return nil, err
	}
	awsCfg, err := awsConfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	client := dynamodb.NewFromConfig(awsCfg)
	store := services.NewDynamoDBItemStore(client, recipeData.Schema(cfg.RecipesTable))
	recipes := recipeData.NewStarredRecipeService(store, token.NewGCM(cfg.TokenSecret), logger)
	return &App{
		Handlers: events.DefaultRecipeHandlers(recipes, logger),
		Logger:   logger,
	}, nil
}

// HandleRequest never fails the batch; failed records are logged instead of retried.
func (app *App) HandleRequest(ctx context.Context, event lambdaEvents.DynamoDBEvent) error {
	if failures := events.Dispatch(ctx, app.Logger, app.Handlers, event); failures > 0 {
		app.Logger.Warn("Stream batch finished with failures",
			zap.Int("records", len(event.Records)),
			zap.Int("failures", failures))
	}
	return nil
}

func main() {
	app, err := NewApp(context.Background())
	if err != nil {
		panic(fmt.Sprintf("Failed to start the stream handler: %s", err))
	}
	defer app.Logger.Sync()
	lambda.Start(app.HandleRequest)
}
