package spatialindex

import (
	"errors"
	"math"
	"sort"

	"github.com/lintang-b-s/vrpdatasetgen/pkg/datastructure"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/geo"
	"github.com/tidwall/rtree"
	"go.uber.org/zap"
)

var ErrNoNearbyRoad = errors.New("no road segment near the query point")

// Rtree indexes every graph edge by the bounding box of its geometry.
type Rtree struct {
	tr    *rtree.RTreeG[datastructure.Index]
	graph *datastructure.Graph
}

func NewRtree() *Rtree {
	var tr rtree.RTreeG[datastructure.Index]
	return &Rtree{
		tr: &tr,
	}
}

// Build. build r-tree, with each leaf having bounding box with radius boundingBoxRadius (in km)
func (rt *Rtree) Build(graph *datastructure.Graph, boundingBoxRadius float64, log *zap.Logger) {
	log.Info("Building R-tree spatial index...")
	rt.graph = graph
	total := graph.NumberOfEdges()
	graph.ForOutEdges(func(e *datastructure.OutEdge, edgeID, tail datastructure.Index) {
		if total > 0 && int(edgeID)%max(total/10, 1) == 0 {
			log.Info("Building R-tree spatial index...", zap.Float64("progress", 100*float64(edgeID)/float64(total)))
		}

		minLat, minLon := math.Inf(1), math.Inf(1)
		maxLat, maxLon := math.Inf(-1), math.Inf(-1)
		for _, p := range graph.GetEdgeGeometry(edgeID) {
			lowerLat, lowerLon := geo.GetDestinationPoint(p.Lat, p.Lon, 225, boundingBoxRadius)
			upperLat, upperLon := geo.GetDestinationPoint(p.Lat, p.Lon, 45, boundingBoxRadius)
			minLat = math.Min(minLat, lowerLat)
			minLon = math.Min(minLon, lowerLon)
			maxLat = math.Max(maxLat, upperLat)
			maxLon = math.Max(maxLon, upperLon)
		}

		rt.tr.Insert([2]float64{minLon, minLat}, [2]float64{maxLon, maxLat}, edgeID)
	})

	log.Info("R-tree spatial index built.")
}

// SearchWithinRadius search for all edges within radius (in km) from the query point (qLat, qLon)
func (rt *Rtree) SearchWithinRadius(qLat, qLon, radius float64) []datastructure.Index {
	lowerLat, lowerLon := geo.GetDestinationPoint(qLat, qLon, 225, radius)
	upperLat, upperLon := geo.GetDestinationPoint(qLat, qLon, 45, radius)

	results := make([]datastructure.Index, 0, 10)
	rt.tr.Search([2]float64{lowerLon, lowerLat}, [2]float64{upperLon, upperLat},
		func(min, max [2]float64, data datastructure.Index) bool {
			results = append(results, data)
			return true
		})
	return results
}

// Snap is the projection of a query point onto one directed edge.
type Snap struct {
	EdgeID datastructure.Index
	// index of the geometry point where the projected sub-segment starts
	Segment int
	Point   geo.Coordinate
	// meters from the query point to the road
	Distance float64
	// share of the edge geometry before Point, 0..1
	Fraction float64
}

// NearestEdges returns the snaps that lie at the minimum distance from (qLat, qLon).
// Both directions of a two way street are returned. The search radius (km) doubles up to maxRadius.
func (rt *Rtree) NearestEdges(qLat, qLon, radius, maxRadius float64) ([]Snap, error) {
	query := geo.NewCoordinate(qLat, qLon)
	for r := radius; r <= maxRadius; r *= 2 {
		candidates := rt.SearchWithinRadius(qLat, qLon, r)
		if len(candidates) == 0 {
			continue
		}

		snaps := make([]Snap, 0, len(candidates))
		for _, edgeID := range candidates {
			snaps = append(snaps, snapToEdge(rt.graph.GetEdgeGeometry(edgeID), edgeID, query))
		}
		sort.SliceStable(snaps, func(i, j int) bool {
			if snaps[i].Distance != snaps[j].Distance {
				return snaps[i].Distance < snaps[j].Distance
			}
			return snaps[i].EdgeID < snaps[j].EdgeID
		})

		best := snaps[0].Distance
		// the nearest edge must lie inside the searched box, else a farther ring may hide a closer edge
		if best > r*1000 {
			continue
		}
		n := 1
		for n < len(snaps) && snaps[n].Distance-best < 1e-6 {
			n++
		}
		return snaps[:n], nil
	}
	return nil, ErrNoNearbyRoad
}

func snapToEdge(geometry []geo.Coordinate, edgeID datastructure.Index, query geo.Coordinate) Snap {
	best := Snap{EdgeID: edgeID, Distance: math.Inf(1)}
	total := 0.0
	along := make([]float64, len(geometry))
	for i := 1; i < len(geometry); i++ {
		total += geo.CalculateHaversineDistance(geometry[i-1].Lat, geometry[i-1].Lon, geometry[i].Lat, geometry[i].Lon)
		along[i] = total
	}

	bestAlong := 0.0
	for i := 0; i+1 < len(geometry); i++ {
		a, b := geometry[i], geometry[i+1]
		var projection geo.Coordinate
		if a == b {
			projection = a
		} else {
			projection = geo.ProjectPointToLineCoord(a, b, query)
		}
		dist := geo.CalculateHaversineDistance(query.Lat, query.Lon, projection.Lat, projection.Lon) * 1000
		if dist < best.Distance {
			best.Distance = dist
			best.Segment = i
			best.Point = projection
			bestAlong = along[i] + geo.SegmentFraction(a, b, query)*(along[i+1]-along[i])
		}
	}

	if total > 0 {
		best.Fraction = bestAlong / total
	}
	// a projection onto a geometry point keeps that point as is, so it can match exactly later
	for i, p := range geometry {
		if geo.CalculateHaversineDistance(p.Lat, p.Lon, best.Point.Lat, best.Point.Lon)*1000 < 1e-3 {
			best.Point = p
			if i == len(geometry)-1 {
				best.Fraction = 1
			} else if i == 0 {
				best.Fraction = 0
			}
			break
		}
	}
	return best
}
