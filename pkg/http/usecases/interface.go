package usecases

import (
	"context"

	"github.com/lintang-b-s/vrpdatasetgen/pkg/engine/routing"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/geo"
)

type RoutingEngine interface {
	Route(ctx context.Context, from, to geo.Coordinate, weighting routing.Weighting) (*routing.RouteResult, error)
}
