package dataset

import (
	"context"
	"errors"
	"fmt"

	"github.com/lintang-b-s/vrpdatasetgen/pkg/concurrent"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/engine/routing"
	"go.uber.org/zap"
)

var ErrZeroDistance = errors.New("zero distance between distinct locations")

// Measure is how a road route is turned into one matrix value.
type Measure func(route *routing.RouteResult) (float64, error)

// RoadMatrix routes every ordered pair of locations and returns the full matrix of the
// distance type. Rows are routed on workers goroutines.
func RoadMatrix(ctx context.Context, router routing.Router, locations []Location, distanceType DistanceType,
	workers int, log *zap.Logger) ([][]float64, error) {
	if !distanceType.IsRoad() {
		return nil, ErrAirDistance
	}
	return MeasuredMatrix(ctx, router, locations, distanceType.Weighting(), distanceType.ExtractDistance, true, workers, log)
}

// MeasuredMatrix routes every ordered pair with weighting and applies measure to each route.
// The diagonal is zero. With rejectZero a zero off-diagonal value is an error.
func MeasuredMatrix(ctx context.Context, router routing.Router, locations []Location, weighting routing.Weighting,
	measure Measure, rejectZero bool, workers int, log *zap.Logger) ([][]float64, error) {
	rowIDs := make([]int, len(locations))
	for i := range rowIDs {
		rowIDs[i] = i
	}

	matrix, err := concurrent.MapCtx(ctx, workers, rowIDs, func(ctx context.Context, i int) ([]float64, error) {
		from := locations[i]
		distances := make([]float64, len(locations))
		for j, to := range locations {
			if i == j {
				continue
			}
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			route, err := router.Route(ctx, from.Coordinate, to.Coordinate, weighting)
			if err != nil {
				return nil, fmt.Errorf("route from %v to %v: %w", from, to, err)
			}
			d, err := measure(route)
			if err != nil {
				return nil, err
			}
			if rejectZero && d == 0 {
				return nil, fmt.Errorf("%w: %v and %v", ErrZeroDistance, from, to)
			}
			distances[j] = d
		}
		log.Sugar().Infof("All distances calculated for location (%v).", from)
		return distances, nil
	})
	if err != nil {
		return nil, err
	}
	return matrix, nil
}

// CheckAirDistances warns about distinct locations that an EUC_2D instance puts on the same spot.
func CheckAirDistances(locations []Location, log *zap.Logger) int {
	same := 0
	for i, from := range locations {
		for j, to := range locations {
			if i != j && from.AirDistanceTo(to) == 0 {
				same++
				log.Warn("locations are the same",
					zap.String("from", from.String()), zap.String("to", to.String()))
			}
		}
	}
	return same
}
