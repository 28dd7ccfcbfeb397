package util

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/aws/aws-lambda-go/events"
	"kitchenwise.dev/api/internal/data"
	"kitchenwise.dev/api/internal/exceptions"
	"kitchenwise.dev/api/internal/routes"
	"kitchenwise.dev/api/internal/routes/filters"
)

// UserId is the caller's subject, set by the identity filter.
func UserId(ctx context.Context) string {
	sub, _ := filters.Identity(ctx)
	return sub
}

func RequestParam(ctx context.Context, name string) string {
	return routes.Params(ctx)[name]
}

// AuthorizedRoute rejects requests that reached the route without an identity.
func AuthorizedRoute(route routes.Route) routes.Route {
	return func(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
		if _, ok := filters.Identity(ctx); !ok {
			return events.APIGatewayV2HTTPResponse{}, exceptions.Unauthenticated()
		}
		return route(event, ctx)
	}
}

// ParseBody decodes a JSON body; an empty body decodes to the zero value.
func ParseBody[T interface{}](event events.APIGatewayV2HTTPRequest) (T, error) {
	var input T
	if event.Body == "" {
		return input, nil
	}
	if err := json.Unmarshal([]byte(event.Body), &input); err != nil {
		return input, exceptions.InvalidInput("Invalid JSON in request body")
	}
	return input, nil
}

func ParseQueryParams(event events.APIGatewayV2HTTPRequest) (data.QueryParams, error) {
	params := data.QueryParams{}
	if sLimit, ok := event.QueryStringParameters["limit"]; ok && sLimit != "" {
		limit, err := strconv.Atoi(sLimit)
		if err != nil || limit < 1 {
			return params, exceptions.InvalidInput("Limit must be a positive number")
		}
		params.Limit = limit
	}
	if token, ok := event.QueryStringParameters["nextToken"]; ok && token != "" {
		params.NextToken = &token
	}
	return params, nil
}

func SerializeResponse[T interface{}, R interface{}](delayed func(T) R, thing T, err error, statusCode int) (events.APIGatewayV2HTTPResponse, error) {
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	body, err := json.Marshal(delayed(thing))
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	headers := map[string]string{
		"Content-Type":   "application/json",
		"Content-Length": strconv.Itoa(len(body)),
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: statusCode,
		Headers:    headers,
		Body:       string(body),
	}, nil
}

func SerializeResponseOK[T interface{}, R interface{}](delayed func(T) R, thing T, err error) (events.APIGatewayV2HTTPResponse, error) {
	return SerializeResponse(delayed, thing, err, 200)
}

func Identity[T interface{}](thing T) T {
	return thing
}

func SerializeResponseNoContent(err error) (events.APIGatewayV2HTTPResponse, error) {
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: 204,
	}, nil
}

func ConvertQueryResults[D interface{}, R interface{}](items data.QueryResults[D], thunk func(D) R) data.QueryResults[R] {
	if items.Items != nil {
		newItems := make([]R, len(items.Items))
		for i, rd := range items.Items {
			newItems[i] = thunk(rd)
		}
		return data.QueryResults[R]{
			Items:     newItems,
			NextToken: items.NextToken,
		}
	}
	return data.QueryResults[R]{
		Items:     make([]R, 0),
		NextToken: items.NextToken,
	}
}

func ConvertQueryResultsPartial[D interface{}, R interface{}](thunk func(D) R) func(data.QueryResults[D]) data.QueryResults[R] {
	return func(d data.QueryResults[D]) data.QueryResults[R] {
		return ConvertQueryResults(d, thunk)
	}
}
