package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
)

const TIMEOUT = 5 * time.Second

// UserInfoAuthorizer validates bearer tokens against a Cognito user pool's
// /oauth2/userInfo endpoint.
type UserInfoAuthorizer struct {
	PoolURL string
	Client  *http.Client
	Logger  *zap.Logger
}

func NewUserInfoAuthorizer(poolURL string, logger *zap.Logger) *UserInfoAuthorizer {
	return &UserInfoAuthorizer{
		PoolURL: strings.TrimRight(poolURL, "/"),
		Client:  &http.Client{Timeout: TIMEOUT},
		Logger:  logger,
	}
}

func (ua *UserInfoAuthorizer) UserInfo(ctx context.Context, apiToken string) (map[string]interface{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/oauth2/userInfo", ua.PoolURL), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if !strings.HasPrefix(apiToken, "Bearer ") {
		apiToken = "Bearer " + apiToken
	}
	req.Header.Add("Authorization", apiToken)
	resp, err := ua.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to invoke request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userInfo rejected token with status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	var claims map[string]interface{}
	if err := json.Unmarshal(body, &claims); err != nil {
		return nil, fmt.Errorf("failed to parse claims: %w", err)
	}
	return claims, nil
}

// Authorize never returns an error; unknown or rejected tokens are simply unauthorized.
func (ua *UserInfoAuthorizer) Authorize(ctx context.Context, event events.APIGatewayV2CustomAuthorizerV2Request) (events.APIGatewayV2CustomAuthorizerSimpleResponse, error) {
	response := events.APIGatewayV2CustomAuthorizerSimpleResponse{
		IsAuthorized: false,
	}
	apiToken, ok := event.Headers["authorization"]
	if !ok || apiToken == "" {
		return response, nil
	}
	claims, err := ua.UserInfo(ctx, apiToken)
	if err != nil {
		ua.Logger.Info("Skipping auth", zap.Error(err))
		return response, nil
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		ua.Logger.Info("Skipping auth, userInfo carried no subject")
		return response, nil
	}
	authContext := map[string]interface{}{
		"sub": sub,
	}
	if email, ok := claims["email"].(string); ok {
		authContext["email"] = email
	}
	return events.APIGatewayV2CustomAuthorizerSimpleResponse{
		IsAuthorized: true,
		Context:      authContext,
	}, nil
}
