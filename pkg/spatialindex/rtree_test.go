package spatialindex

import (
	"testing"

	"github.com/lintang-b-s/vrpdatasetgen/pkg/datastructure"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func buildIndex() (*Rtree, *datastructure.Graph) {
	coords := []geo.Coordinate{
		geo.NewCoordinate(0, 0),
		geo.NewCoordinate(0, 0.01),
		geo.NewCoordinate(0.5, 0.5),
		geo.NewCoordinate(0.5, 0.51),
	}
	edges := []datastructure.RawEdge{
		{From: 0, To: 1, Dist: 1112, TravelTime: 100},
		{From: 1, To: 0, Dist: 1112, TravelTime: 100},
		{From: 2, To: 3, Dist: 1112, TravelTime: 100},
	}
	g := datastructure.NewGraph(coords, edges)
	rt := NewRtree()
	rt.Build(g, 0.05, zap.NewNop())
	return rt, g
}

func TestSearchWithinRadius(t *testing.T) {
	rt, _ := buildIndex()

	got := rt.SearchWithinRadius(0.0001, 0.005, 0.05)
	assert.ElementsMatch(t, []datastructure.Index{0, 1}, got)

	assert.Empty(t, rt.SearchWithinRadius(10, 10, 0.05))
}

func TestNearestEdges(t *testing.T) {
	rt, _ := buildIndex()

	snaps, err := rt.NearestEdges(0.0001, 0.0025, 0.05, 10)
	require.NoError(t, err)
	// both directions of the street
	require.Len(t, snaps, 2)

	byEdge := map[datastructure.Index]Snap{}
	for _, s := range snaps {
		byEdge[s.EdgeID] = s
	}
	assert.InDelta(t, 0.25, byEdge[0].Fraction, 1e-3)
	assert.InDelta(t, 0.75, byEdge[1].Fraction, 1e-3)
	assert.InDelta(t, 11.1, byEdge[0].Distance, 0.1)
	assert.InDelta(t, 0, byEdge[0].Point.Lat, 1e-9)
	assert.InDelta(t, 0.0025, byEdge[0].Point.Lon, 1e-9)
}

func TestNearestEdgesExpandsRadius(t *testing.T) {
	rt, _ := buildIndex()

	// 0.02 degree north of the first street, outside of the first search box
	snaps, err := rt.NearestEdges(0.02, 0.005, 0.05, 10)
	require.NoError(t, err)
	assert.Len(t, snaps, 2)
	assert.InDelta(t, 2224, snaps[0].Distance, 5)
}

func TestNearestEdgesNothingAround(t *testing.T) {
	rt, _ := buildIndex()

	_, err := rt.NearestEdges(45, 45, 0.05, 1)
	assert.ErrorIs(t, err, ErrNoNearbyRoad)
}

func TestSnapOntoGeometryPoint(t *testing.T) {
	geometry := []geo.Coordinate{
		geo.NewCoordinate(0, 0),
		geo.NewCoordinate(0, 0.001),
		geo.NewCoordinate(0, 0.002),
	}
	s := snapToEdge(geometry, 7, geo.NewCoordinate(0.0005, 0.002))
	assert.Equal(t, geometry[2], s.Point)
	assert.Equal(t, 1.0, s.Fraction)
	assert.Equal(t, datastructure.Index(7), s.EdgeID)
}
