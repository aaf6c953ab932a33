package geo

import (
	"fmt"

	"github.com/twpayne/go-polyline"
)

// paths keep osm precision, so the 1e5 default of the google format would break exact point matching
var codec = polyline.Codec{Dim: 2, Scale: 1e7}

func PolylineFromCoords(path []Coordinate) string {
	coords := make([][]float64, 0, len(path))
	for _, p := range path {
		coords = append(coords, []float64{p.Lat, p.Lon})
	}
	return string(codec.EncodeCoords(nil, coords))
}

func CoordsFromPolyline(encoded string) ([]Coordinate, error) {
	coords, rest, err := codec.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, fmt.Errorf("decode polyline: %w", err)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("decode polyline: %d trailing bytes", len(rest))
	}
	path := make([]Coordinate, 0, len(coords))
	for _, c := range coords {
		path = append(path, NewCoordinate(c[0], c[1]))
	}
	return path, nil
}
