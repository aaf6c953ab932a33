package usecases

import (
	"context"

	"github.com/lintang-b-s/vrpdatasetgen/pkg/engine/routing"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/geo"
	"go.uber.org/zap"
)

type RoutingService struct {
	log    *zap.Logger
	engine RoutingEngine
}

func NewRoutingService(log *zap.Logger, engine RoutingEngine) *RoutingService {
	return &RoutingService{
		log:    log,
		engine: engine,
	}
}

// Route returns the route and its points encoded as a polyline.
func (rs *RoutingService) Route(ctx context.Context, fromLat, fromLon, toLat, toLon float64,
	weighting routing.Weighting) (*routing.RouteResult, string, error) {
	route, err := rs.engine.Route(ctx, geo.NewCoordinate(fromLat, fromLon), geo.NewCoordinate(toLat, toLon), weighting)
	if err != nil {
		return nil, "", err
	}
	return route, geo.PolylineFromCoords(route.Points), nil
}
