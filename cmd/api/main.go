package main

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"go.uber.org/zap"
	"kitchenwise.dev/api/internal/config"
	pantryData "kitchenwise.dev/api/internal/dynamodb/pantry"
	recipeData "kitchenwise.dev/api/internal/dynamodb/recipes"
	"kitchenwise.dev/api/internal/dynamodb/services"
	"kitchenwise.dev/api/internal/dynamodb/token"
	"kitchenwise.dev/api/internal/logging"
	"kitchenwise.dev/api/internal/openai"
	"kitchenwise.dev/api/internal/pantry"
	"kitchenwise.dev/api/internal/pexels"
	"kitchenwise.dev/api/internal/recipes"
	"kitchenwise.dev/api/internal/routes"
	dashboardRoute "kitchenwise.dev/api/internal/routes/dashboard"
	pantryRoute "kitchenwise.dev/api/internal/routes/pantry"
	recipeRoute "kitchenwise.dev/api/internal/routes/recipes"
	"kitchenwise.dev/api/internal/secrets"
)

type App struct {
	Router *routes.Router
	Logger *zap.Logger
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
	marshaler := token.NewGCM(cfg.TokenSecret)
	pantryStore := services.NewDynamoDBItemStore(client, pantryData.Schema(cfg.PantryTable, cfg.PantryItemIndex))
	recipeStore := services.NewDynamoDBItemStore(client, recipeData.Schema(cfg.RecipesTable))

	credentials := secrets.NewCachedProvider(
		secretsmanager.NewFromConfig(awsCfg),
		cfg.SecretId,
		cfg.SecretsCacheTTL,
		cfg.APIKeyOverrides(),
		logger)
	generator := openai.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIModel, credentials, logger)
	images := pexels.NewPexelsAPI(cfg.PexelsBaseURL, credentials, logger)

	pantryService := pantry.NewService(
		pantryData.NewPantryItemService(pantryStore, cfg.PantryItemIndex, marshaler, logger),
		logger)
	recipeService := recipes.NewService(
		recipeData.NewStarredRecipeService(recipeStore, marshaler, logger),
		generator,
		images,
		logger)
	router := routes.NewRouter(
		logger,
		pantryRoute.NewRoute(pantryService),
		recipeRoute.NewRoute(recipeService, pantryService),
		dashboardRoute.NewRoute(pantryService, time.Now),
	)
	return &App{
		Router: router,
		Logger: logger,
	}, nil
}

func (app *App) HandleRequest(ctx context.Context, request events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	return app.Router.Invoke(request, ctx), nil
}

func main() {
	app, err := NewApp(context.Background())
	if err != nil {
		panic(fmt.Sprintf("Failed to start the API: %s", err))
	}
	defer app.Logger.Sync()
	lambda.Start(app.HandleRequest)
}
