package pantry

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"kitchenwise.dev/api/internal/data"
	"kitchenwise.dev/api/internal/pantry"
	"kitchenwise.dev/api/internal/routes"
	"kitchenwise.dev/api/internal/routes/util"
)

type PantryItems interface {
	Create(ctx context.Context, userId string, input pantry.CreateInput) (data.PantryItemDTO, error)
	Get(ctx context.Context, userId string, itemId string) (data.PantryItemDTO, error)
	Update(ctx context.Context, userId string, itemId string, patch pantry.Patch) (data.PantryItemDTO, error)
	Delete(ctx context.Context, userId string, itemId string) error
	List(ctx context.Context, userId string, filter pantry.Filter) (data.QueryResults[data.PantryItemDTO], error)
}

type PantryItemService struct {
	items PantryItems
}

func NewRoute(items PantryItems) routes.Service {
	return &PantryItemService{
		items: items,
	}
}

func (ps *PantryItemService) GetRoutes() map[string]routes.Route {
	return map[string]routes.Route{
		"GET:/pantry-items":            util.AuthorizedRoute(ps.ListItems),
		"POST:/pantry-items":           util.AuthorizedRoute(ps.CreateItem),
		"GET:/pantry-items/:itemId":    util.AuthorizedRoute(ps.GetItem),
		"PUT:/pantry-items/:itemId":    util.AuthorizedRoute(ps.UpdateItem),
		"DELETE:/pantry-items/:itemId": util.AuthorizedRoute(ps.DeleteItem),
	}
}

func (ps *PantryItemService) ListItems(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	params, err := util.ParseQueryParams(event)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	items, err := ps.items.List(ctx, util.UserId(ctx), pantry.Filter{
		Type:      event.QueryStringParameters["type"],
		Location:  event.QueryStringParameters["location"],
		Limit:     params.Limit,
		NextToken: params.NextToken,
	})
	return util.SerializeResponseOK(util.ConvertQueryResultsPartial(NewPantryItem), items, err)
}

func (ps *PantryItemService) CreateItem(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	input, err := util.ParseBody[pantry.CreateInput](event)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	created, err := ps.items.Create(ctx, util.UserId(ctx), input)
	return util.SerializeResponse(NewPantryItem, created, err, 201)
}

func (ps *PantryItemService) GetItem(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	item, err := ps.items.Get(ctx, util.UserId(ctx), util.RequestParam(ctx, "itemId"))
	return util.SerializeResponseOK(NewPantryItem, item, err)
}

func (ps *PantryItemService) UpdateItem(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	patch, err := util.ParseBody[pantry.Patch](event)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	item, err := ps.items.Update(ctx, util.UserId(ctx), util.RequestParam(ctx, "itemId"), patch)
	return util.SerializeResponseOK(NewPantryItem, item, err)
}

func (ps *PantryItemService) DeleteItem(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	err := ps.items.Delete(ctx, util.UserId(ctx), util.RequestParam(ctx, "itemId"))
	return util.SerializeResponseNoContent(err)
}
