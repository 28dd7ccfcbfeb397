package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func userInfoServer(t *testing.T) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/oauth2/userInfo", r.URL.Path)
		switch r.Header.Get("Authorization") {
		case "Bearer good":
			w.Write([]byte(`{"sub":"user-1","email":"cook@example.com","username":"cook"}`))
		case "Bearer anonymous":
			w.Write([]byte(`{"username":"ghost"}`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
}

func request(token string) events.APIGatewayV2CustomAuthorizerV2Request {
	headers := map[string]string{}
	if token != "" {
		headers["authorization"] = token
	}
	return events.APIGatewayV2CustomAuthorizerV2Request{Headers: headers}
}

func TestAuthorize(t *testing.T) {
	server := userInfoServer(t)
	defer server.Close()
	authorizer := NewUserInfoAuthorizer(server.URL+"/", zap.NewNop())
	ctx := context.Background()

	t.Run("Authorized", func(t *testing.T) {
		resp, err := authorizer.Authorize(ctx, request("Bearer good"))
		require.NoError(t, err)
		assert.True(t, resp.IsAuthorized)
		assert.Equal(t, map[string]interface{}{
			"sub":   "user-1",
			"email": "cook@example.com",
		}, resp.Context)
	})

	t.Run("BareToken", func(t *testing.T) {
		resp, err := authorizer.Authorize(ctx, request("good"))
		require.NoError(t, err)
		assert.True(t, resp.IsAuthorized)
	})

	for name, token := range map[string]string{
		"Missing":   "",
		"Rejected":  "Bearer bad",
		"NoSubject": "Bearer anonymous",
	} {
		t.Run(name, func(t *testing.T) {
			resp, err := authorizer.Authorize(ctx, request(token))
			require.NoError(t, err)
			assert.False(t, resp.IsAuthorized)
			assert.Nil(t, resp.Context)
		})
	}
}
