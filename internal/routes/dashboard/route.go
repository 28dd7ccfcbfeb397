package dashboard

import (
	"context"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"kitchenwise.dev/api/internal/dashboard"
	"kitchenwise.dev/api/internal/data"
	"kitchenwise.dev/api/internal/routes"
	"kitchenwise.dev/api/internal/routes/util"
)

type AllItems interface {
	ListAll(ctx context.Context, userId string) ([]data.PantryItemDTO, error)
}

type DashboardService struct {
	items AllItems
	now   func() time.Time
}

func NewRoute(items AllItems, now func() time.Time) routes.Service {
	return &DashboardService{
		items: items,
		now:   now,
	}
}

func (ds *DashboardService) GetRoutes() map[string]routes.Route {
	return map[string]routes.Route{
		"GET:/dashboard": util.AuthorizedRoute(ds.GetStats),
	}
}

func (ds *DashboardService) GetStats(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	items, err := ds.items.ListAll(ctx, util.UserId(ctx))
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	return util.SerializeResponseOK(util.Identity[dashboard.Stats], dashboard.Compute(items, ds.now().UTC()), nil)
}
