package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"go.uber.org/zap"
)

const (
	OPENAI_API_KEY = "OPENAI_API_KEY"
	PEXELS_API_KEY = "PEXELS_API_KEY"
)

type SecretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// CachedProvider reads API keys from one JSON secret. Values are cached for
// TTL; when a refresh fails the previous values are served.
type CachedProvider struct {
	Client    SecretsManagerAPI
	SecretId  string
	TTL       time.Duration
	Overrides map[string]string
	Logger    *zap.Logger
	Now       func() time.Time

	mutex     sync.Mutex
	cached    map[string]string
	fetchedAt time.Time
}

func NewCachedProvider(client SecretsManagerAPI, secretId string, ttl time.Duration, overrides map[string]string, logger *zap.Logger) *CachedProvider {
	return &CachedProvider{
		Client:    client,
		SecretId:  secretId,
		TTL:       ttl,
		Overrides: overrides,
		Logger:    logger,
		Now:       time.Now,
	}
}

func (cp *CachedProvider) _fetch(ctx context.Context) (map[string]string, error) {
	if cp.Client == nil {
		return nil, errors.New("no secrets manager client configured")
	}
	output, err := cp.Client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(cp.SecretId),
	})
	if err != nil {
		return nil, err
	}
	if output.SecretString == nil {
		return nil, fmt.Errorf("secret %s has no secret string", cp.SecretId)
	}
	var values map[string]string
	if err := json.Unmarshal([]byte(*output.SecretString), &values); err != nil {
		return nil, fmt.Errorf("secret %s is not a JSON object: %w", cp.SecretId, err)
	}
	return values, nil
}

func (cp *CachedProvider) APIKeys(ctx context.Context) (map[string]string, error) {
	cp.mutex.Lock()
	defer cp.mutex.Unlock()
	now := cp.Now()
	if cp.cached != nil && now.Sub(cp.fetchedAt) < cp.TTL {
		return cp.cached, nil
	}
	values, err := cp._fetch(ctx)
	if err != nil {
		if cp.cached != nil {
			cp.Logger.Warn("Using cached API keys after refresh failure",
				zap.String("secretId", cp.SecretId),
				zap.Error(err))
			return cp.cached, nil
		}
		return nil, fmt.Errorf("failed to fetch API keys from %s: %w", cp.SecretId, err)
	}
	cp.cached = values
	cp.fetchedAt = now
	return values, nil
}

// APIKey prefers a non-empty override over the secret.
func (cp *CachedProvider) APIKey(ctx context.Context, name string) (string, error) {
	if value := cp.Overrides[name]; value != "" {
		return value, nil
	}
	values, err := cp.APIKeys(ctx)
	if err != nil {
		return "", err
	}
	value, ok := values[name]
	if !ok || value == "" {
		return "", fmt.Errorf("secret %s has no %s", cp.SecretId, name)
	}
	return value, nil
}
