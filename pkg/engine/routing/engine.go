package routing

import (
	"context"

	da "github.com/lintang-b-s/vrpdatasetgen/pkg/datastructure"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/geo"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/spatialindex"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/util"
	"go.uber.org/zap"
)

const maxSearchRadius = 5.0 // km

type RoutingEngine struct {
	graph        *da.Graph
	rtree        *spatialindex.Rtree
	searchRadius float64
	logger       *zap.Logger
}

func NewRoutingEngine(graph *da.Graph, rtree *spatialindex.Rtree, searchRadius float64,
	logger *zap.Logger) *RoutingEngine {
	return &RoutingEngine{
		graph:        graph,
		rtree:        rtree,
		searchRadius: searchRadius,
		logger:       logger,
	}
}

func (re *RoutingEngine) GetGraph() *da.Graph {
	return re.graph
}

func (re *RoutingEngine) Route(ctx context.Context, from, to geo.Coordinate, weighting Weighting) (*RouteResult, error) {
	sources, err := re.rtree.NearestEdges(from.Lat, from.Lon, re.searchRadius, maxSearchRadius)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "cannot snap origin %f,%f to a road", from.Lat, from.Lon)
	}
	targets, err := re.rtree.NearestEdges(to.Lat, to.Lon, re.searchRadius, maxSearchRadius)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "cannot snap destination %f,%f to a road", to.Lat, to.Lon)
	}

	query := NewDijkstra(re.graph, weighting, sources, targets)
	route, found, err := query.ShortestPath(ctx)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, util.WrapErrorf(ErrPathNotFound, util.ErrNotFound, "no path found from %f,%f to %f,%f",
			from.Lat, from.Lon, to.Lat, to.Lon)
	}
	re.logger.Debug("route computed", zap.String("weighting", weighting.String()),
		zap.Float64("distance", route.DistanceMeters), zap.Int("settled", query.numSettledNodes))
	return route, nil
}
