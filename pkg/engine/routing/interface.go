package routing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lintang-b-s/vrpdatasetgen/pkg/geo"
)

type Weighting uint8

const (
	// Shortest minimizes distance.
	Shortest Weighting = iota
	// Fastest minimizes travel time.
	Fastest
)

func (w Weighting) String() string {
	if w == Fastest {
		return "fastest"
	}
	return "shortest"
}

func ParseWeighting(s string) (Weighting, error) {
	switch strings.ToLower(s) {
	case "shortest", "":
		return Shortest, nil
	case "fastest":
		return Fastest, nil
	}
	return Shortest, fmt.Errorf("unknown weighting %q", s)
}

var ErrPathNotFound = errors.New("path not found")

// RouteResult is a single point to point route.
type RouteResult struct {
	DistanceMeters float64
	TimeMillis     int64
	// road points in travel order, snapped endpoints included
	Points []geo.Coordinate
}

// Router answers point to point route queries. Implementations must be safe for concurrent use.
type Router interface {
	Route(ctx context.Context, from, to geo.Coordinate, weighting Weighting) (*RouteResult, error)
}
