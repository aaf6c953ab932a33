package controllers

import (
	"context"

	"github.com/lintang-b-s/vrpdatasetgen/pkg/engine/routing"
)

type RoutingService interface {
	Route(ctx context.Context, fromLat, fromLon, toLat, toLon float64, weighting routing.Weighting) (*routing.RouteResult, string, error)
}
