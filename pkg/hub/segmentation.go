// Package hub builds the two level location→hub→location distance approximation of a
// segmented instance and suggests hubs from the points many routes share.
package hub

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/lintang-b-s/vrpdatasetgen/pkg/concurrent"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/dataset"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/engine/routing"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/geo"
	"go.uber.org/zap"
)

const (
	shortcutThreshold = 0.01
	overshootLimit    = -0.001
	noHub             = -1
)

var (
	ErrSameHub       = errors.New("hubs have a zero distance")
	ErrSegmentedLong = errors.New("distance is much smaller than the segmented distance")
)

// Segmentation is the result of Segment. Hub i is hubs[i] and location i is locations[i].
type Segmentation struct {
	hubs      []dataset.Location
	locations []dataset.Location

	hubNodes      []*node
	locationNodes []*node

	decimals  int
	shortcuts int
}

type Segmenter struct {
	router       routing.Router
	distanceType dataset.DistanceType
	workers      int
	log          *zap.Logger
}

func NewSegmenter(router routing.Router, distanceType dataset.DistanceType, workers int, log *zap.Logger) *Segmenter {
	return &Segmenter{
		router:       router,
		distanceType: distanceType,
		workers:      workers,
		log:          log,
	}
}

func (sg *Segmenter) distance(ctx context.Context, from, to geo.Coordinate) (*routing.RouteResult, float64, error) {
	route, err := sg.router.Route(ctx, from, to, sg.distanceType.Weighting())
	if err != nil {
		return nil, 0, fmt.Errorf("route from %v to %v: %w", from, to, err)
	}
	d, err := sg.distanceType.ExtractDistance(route)
	if err != nil {
		return nil, 0, err
	}
	return route, d, nil
}

// locationRoute is a routed location pair and the first and last hub its road passes.
type locationRoute struct {
	distance float64
	firstHub int
	lastHub  int
}

// Segment computes the hub and nearby distances of every hub and location. A route
// between two locations that passes a hub is stored as location→first hub plus
// last hub→location. Other routes are stored as a nearby distance.
func (sg *Segmenter) Segment(ctx context.Context, hubs, locations []dataset.Location) (*Segmentation, error) {
	if !sg.distanceType.IsSegmented() {
		return nil, fmt.Errorf("distance type %v is not segmented", sg.distanceType)
	}

	s := &Segmentation{
		hubs:          hubs,
		locations:     locations,
		hubNodes:      make([]*node, len(hubs)),
		locationNodes: make([]*node, len(locations)),
		decimals:      3,
	}

	hubIDs := make([]int, len(hubs))
	for i := range hubIDs {
		hubIDs[i] = i
	}
	hubRows, err := concurrent.MapCtx(ctx, sg.workers, hubIDs, func(ctx context.Context, i int) ([]float64, error) {
		row := make([]float64, len(hubs))
		for j := range hubs {
			if i == j {
				continue
			}
			_, d, err := sg.distance(ctx, hubs[i].Coordinate, hubs[j].Coordinate)
			if err != nil {
				return nil, err
			}
			if d == 0 {
				return nil, fmt.Errorf("%w: %v and %v", ErrSameHub, hubs[i], hubs[j])
			}
			row[j] = d
		}
		sg.log.Sugar().Infof("All hub distances calculated for hub (%v).", hubs[i])
		return row, nil
	})
	if err != nil {
		return nil, err
	}
	for i, row := range hubRows {
		n := newNode()
		for j, d := range row {
			if i != j {
				n.hubs.put(j, d)
			}
		}
		s.hubNodes[i] = n
	}

	pointToHub := make(map[geo.Coordinate]int, len(hubs))
	for i, h := range hubs {
		pointToHub[h.Coordinate] = i
	}

	locationIDs := make([]int, len(locations))
	for i := range locationIDs {
		locationIDs[i] = i
	}
	rows, err := concurrent.MapCtx(ctx, sg.workers, locationIDs, func(ctx context.Context, i int) ([]locationRoute, error) {
		routes := make([]locationRoute, len(locations))
		for j := range locations {
			if i == j {
				continue
			}
			route, d, err := sg.distance(ctx, locations[i].Coordinate, locations[j].Coordinate)
			if err != nil {
				return nil, err
			}
			if d == 0 {
				return nil, fmt.Errorf("%w: %v and %v", dataset.ErrZeroDistance, locations[i], locations[j])
			}
			routes[j] = locationRoute{
				distance: d,
				firstHub: firstHub(route.Points, pointToHub),
				lastHub:  lastHub(route.Points, pointToHub),
			}
		}
		return routes, nil
	})
	if err != nil {
		return nil, err
	}

	for i := range locations {
		s.locationNodes[i] = newNode()
	}
	for i, routes := range rows {
		if err := sg.addRow(ctx, s, i, routes); err != nil {
			return nil, err
		}
		sg.log.Sugar().Infof("All distances calculated for location (%v).", locations[i])
	}
	return s, nil
}

// addRow runs sequentially in row order so the insertion order of every distance map,
// and so the written section, does not depend on the workers.
func (sg *Segmenter) addRow(ctx context.Context, s *Segmentation, from int, routes []locationRoute) error {
	fromNode := s.locationNodes[from]
	fromLoc := s.locations[from]
	for to, r := range routes {
		if to == from {
			continue
		}
		toLoc := s.locations[to]
		if r.firstHub == noHub {
			fromNode.nearby.put(to, r.distance)
			continue
		}

		if _, ok := fromNode.hubs.get(r.firstHub); !ok {
			_, d, err := sg.distance(ctx, fromLoc.Coordinate, s.hubs[r.firstHub].Coordinate)
			if err != nil {
				return err
			}
			fromNode.hubs.put(r.firstHub, d)
		}
		last := s.hubNodes[r.lastHub]
		if _, ok := last.nearby.get(to); !ok {
			_, d, err := sg.distance(ctx, s.hubs[r.lastHub].Coordinate, toLoc.Coordinate)
			if err != nil {
				return err
			}
			last.nearby.put(to, d)
		}

		segmented := s.distanceTo(from, to)
		diff := r.distance - segmented
		if diff > shortcutThreshold {
			s.shortcuts++
			sg.log.Warn("found a shortcut, the distance is bigger than the segmented distance",
				zap.Float64("distance", r.distance), zap.Float64("segmentedDistance", segmented),
				zap.String("from", fromLoc.String()), zap.String("to", toLoc.String()))
		} else if diff < overshootLimit {
			return fmt.Errorf("%w: %v from %v to %v, segmented %v", ErrSegmentedLong, r.distance, fromLoc, toLoc, segmented)
		}
	}
	return nil
}

func firstHub(points []geo.Coordinate, pointToHub map[geo.Coordinate]int) int {
	for _, p := range points {
		if h, ok := pointToHub[p]; ok {
			return h
		}
	}
	return noHub
}

func lastHub(points []geo.Coordinate, pointToHub map[geo.Coordinate]int) int {
	for i := len(points) - 1; i >= 0; i-- {
		if h, ok := pointToHub[points[i]]; ok {
			return h
		}
	}
	return noHub
}

// Shortcuts is the number of routes shorter than their segmented distance.
func (s *Segmentation) Shortcuts() int {
	return s.shortcuts
}

// Distance returns the segmented distance between locations i and j.
func (s *Segmentation) Distance(i, j int) float64 {
	if i == j {
		return 0
	}
	return s.distanceTo(i, j)
}

// WriteTo writes the SEGMENTED_EDGE_WEIGHT_SECTION body. Every hub line and then every
// location line is "<id> " followed by "<hubId> <d> " pairs and "<nearbyId> <d> " pairs.
func (s *Segmentation) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	bw := bufio.NewWriter(cw)
	for i, n := range s.hubNodes {
		s.writeLine(bw, s.hubs[i].ID, n)
	}
	for i, n := range s.locationNodes {
		s.writeLine(bw, s.locations[i].ID, n)
	}
	err := bw.Flush()
	return cw.n, err
}

func (s *Segmentation) writeLine(bw *bufio.Writer, id int64, n *node) {
	bw.WriteString(strconv.FormatInt(id, 10) + " ")
	n.hubs.each(func(k int, d float64) {
		bw.WriteString(strconv.FormatInt(s.hubs[k].ID, 10) + " " + dataset.FormatDistance(d, s.decimals) + " ")
	})
	n.nearby.each(func(k int, d float64) {
		bw.WriteString(strconv.FormatInt(s.locations[k].ID, 10) + " " + dataset.FormatDistance(d, s.decimals) + " ")
	})
	bw.WriteString("\n")
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
