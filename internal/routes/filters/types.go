package filters

import (
	"context"
	"strconv"
	"strings"

	"github.com/aws/aws-lambda-go/events"
)

type identityKey struct{}

type FilterContext struct {
	Request  *events.APIGatewayV2HTTPRequest
	Response *events.APIGatewayV2HTTPResponse
	Context  *context.Context
}

type RequestFilter interface {
	Filter(ctx *FilterContext) (*FilterContext, bool)
}

type CorsFilter struct {
	Methods []string
	Origins []string
	Headers []string
}

func (cf *CorsFilter) Filter(ctx *FilterContext) (*FilterContext, bool) {
	if ctx.Request.RequestContext.HTTP.Method == "OPTIONS" {
		headers := ctx.Response.Headers
		if headers == nil {
			headers = make(map[string]string, 4)
		}
		headers["content-length"] = "0"
		headers["access-control-allow-headers"] = strings.Join(cf.Headers, ", ")
		headers["access-control-allow-methods"] = strings.Join(cf.Methods, ", ")
		headers["access-control-allow-origin"] = strings.Join(cf.Origins, ", ")
		return &FilterContext{
			Request: ctx.Request,
			Context: ctx.Context,
			Response: &events.APIGatewayV2HTTPResponse{
				Headers:    headers,
				StatusCode: ctx.Response.StatusCode,
			},
		}, true
	}
	return ctx, false
}

// IdentityFilter resolves the caller's subject from JWT authorizer claims or
// the context published by the Lambda authorizer.
type IdentityFilter struct {
	SubjectField string
}

func (idf *IdentityFilter) Subject(request *events.APIGatewayV2HTTPRequest) (string, bool) {
	authorizer := request.RequestContext.Authorizer
	if authorizer == nil {
		return "", false
	}
	if authorizer.JWT != nil {
		if sub, ok := authorizer.JWT.Claims[idf.SubjectField]; ok && sub != "" {
			return sub, true
		}
	}
	if sub, ok := authorizer.Lambda[idf.SubjectField].(string); ok && sub != "" {
		return sub, true
	}
	return "", false
}

func (idf *IdentityFilter) Filter(ctx *FilterContext) (*FilterContext, bool) {
	if sub, ok := idf.Subject(ctx.Request); ok {
		identified := context.WithValue(*ctx.Context, identityKey{}, sub)
		return &FilterContext{
			Request:  ctx.Request,
			Response: ctx.Response,
			Context:  &identified,
		}, false
	}
	body := "{\"message\": \"Unauthorized\"}"
	return &FilterContext{
		Request: ctx.Request,
		Context: ctx.Context,
		Response: &events.APIGatewayV2HTTPResponse{
			Headers: map[string]string{
				"Content-Type":   "application/json",
				"Content-Length": strconv.Itoa(len(body)),
			},
			StatusCode: 401,
			Body:       body,
		},
	}, true
}

// Identity returns the subject the IdentityFilter placed on the context.
func Identity(ctx context.Context) (string, bool) {
	sub, ok := ctx.Value(identityKey{}).(string)
	return sub, ok
}

func DefaultFilterContext(event events.APIGatewayV2HTTPRequest, ctx context.Context) *FilterContext {
	return &FilterContext{
		Request: &event,
		Response: &events.APIGatewayV2HTTPResponse{
			StatusCode: 200,
		},
		Context: &ctx,
	}
}

func DefaultCorsFilter() *CorsFilter {
	methods := [4]string{"GET", "PUT", "POST", "DELETE"}
	headers := [3]string{"Content-Type", "Content-Length", "Authorization"}
	origins := [1]string{"*"}
	return &CorsFilter{
		Methods: methods[:],
		Headers: headers[:],
		Origins: origins[:],
	}
}

func DefaultIdentityFilter() *IdentityFilter {
	return &IdentityFilter{
		SubjectField: "sub",
	}
}
