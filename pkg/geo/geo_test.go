package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateHaversineDistance(t *testing.T) {
	// brussels -> antwerpen is roughly 41 km as the crow flies
	got := CalculateHaversineDistance(50.8503, 4.3517, 51.2194, 4.4025)
	assert.InDelta(t, 41.2, got, 0.5)
	assert.Zero(t, CalculateHaversineDistance(50.8503, 4.3517, 50.8503, 4.3517))
}

func TestEuclideanDegrees(t *testing.T) {
	got := EuclideanDegrees(NewCoordinate(0, 0), NewCoordinate(3, 4))
	assert.InDelta(t, 5.0, got, 1e-12)
}

func TestGetDestinationPoint(t *testing.T) {
	lat, lon := GetDestinationPoint(50.0, 4.0, 90, 10)
	back := CalculateHaversineDistance(50.0, 4.0, lat, lon)
	assert.InDelta(t, 10, back, 1e-6)
	assert.Greater(t, lon, 4.0)
}

func TestProjectPointToLineCoord(t *testing.T) {
	a := NewCoordinate(0, 0)
	b := NewCoordinate(0, 1)
	p := ProjectPointToLineCoord(a, b, NewCoordinate(0.001, 0.5))

	assert.InDelta(t, 0, p.Lat, 1e-9)
	assert.InDelta(t, 0.5, p.Lon, 1e-9)
	assert.InDelta(t, 0.5, SegmentFraction(a, b, NewCoordinate(0.001, 0.5)), 1e-6)
	assert.InDelta(t, 111.19, PointLinePerpendicularDistance(a, b, NewCoordinate(0.001, 0.5)), 0.1)
}

func TestPolylineRoundTrip(t *testing.T) {
	path := []Coordinate{
		NewCoordinate(50.8503396, 4.3517103),
		NewCoordinate(51.2194475, 4.4024643),
		NewCoordinate(-33.8688197, 151.2092955),
	}

	encoded := PolylineFromCoords(path)
	decoded, err := CoordsFromPolyline(encoded)
	require.NoError(t, err)
	require.Len(t, decoded, len(path))
	for i := range path {
		// exact equality matters: hubs are matched against decoded route points
		assert.Equal(t, path[i], decoded[i])
	}
	assert.False(t, math.IsNaN(decoded[0].Lat))
}
