// Package routingtest provides routers for tests that need road routes without a road graph.
package routingtest

import (
	"context"
	"fmt"
	"sync"

	"github.com/lintang-b-s/vrpdatasetgen/pkg/engine/routing"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/geo"
)

// speed of every fake road in m/s
const Speed = 10.0

// StraightRouter drives in a straight line between the two points.
type StraightRouter struct {
	mu    sync.Mutex
	calls int
}

func (r *StraightRouter) Route(ctx context.Context, from, to geo.Coordinate, weighting routing.Weighting) (*routing.RouteResult, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	return newResult([]geo.Coordinate{from, to}), nil
}

func (r *StraightRouter) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// LineRouter knows one road through Stops in order. A route between two stops visits
// every stop in between. Unknown points are an error.
type LineRouter struct {
	Stops []geo.Coordinate

	mu    sync.Mutex
	calls int
}

func (r *LineRouter) index(c geo.Coordinate) (int, error) {
	for i, s := range r.Stops {
		if s == c {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%v is not on the road", c)
}

func (r *LineRouter) Route(ctx context.Context, from, to geo.Coordinate, weighting routing.Weighting) (*routing.RouteResult, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()

	i, err := r.index(from)
	if err != nil {
		return nil, err
	}
	j, err := r.index(to)
	if err != nil {
		return nil, err
	}

	points := []geo.Coordinate{}
	if i <= j {
		points = append(points, r.Stops[i:j+1]...)
	} else {
		for k := i; k >= j; k-- {
			points = append(points, r.Stops[k])
		}
	}
	return newResult(points), nil
}

func (r *LineRouter) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func newResult(points []geo.Coordinate) *routing.RouteResult {
	dist := 0.0
	for k := 1; k < len(points); k++ {
		dist += geo.CalculateHaversineDistance(points[k-1].Lat, points[k-1].Lon, points[k].Lat, points[k].Lon) * 1000
	}
	return &routing.RouteResult{
		DistanceMeters: dist,
		TimeMillis:     int64(dist / Speed * 1000),
		Points:         points,
	}
}

// ErrorRouter fails every route.
type ErrorRouter struct {
	Err error
}

func (r ErrorRouter) Route(ctx context.Context, from, to geo.Coordinate, weighting routing.Weighting) (*routing.RouteResult, error) {
	return nil, r.Err
}
