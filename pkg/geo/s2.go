package geo

import (
	"github.com/golang/geo/s2"
)

// ProjectPointToLineCoord projects snap onto the great-circle segment a-b.
func ProjectPointToLineCoord(pointA Coordinate, pointB Coordinate,
	snap Coordinate) Coordinate {
	pointAS2 := s2.PointFromLatLng(s2.LatLngFromDegrees(pointA.Lat, pointA.Lon))
	pointBS2 := s2.PointFromLatLng(s2.LatLngFromDegrees(pointB.Lat, pointB.Lon))
	snapS2 := s2.PointFromLatLng(s2.LatLngFromDegrees(snap.Lat, snap.Lon))
	projection := s2.Project(snapS2, pointAS2, pointBS2)
	projectLatLng := s2.LatLngFromPoint(projection)
	return NewCoordinate(projectLatLng.Lat.Degrees(), projectLatLng.Lng.Degrees())
}

// return in meter
func PointLinePerpendicularDistance(pointA Coordinate, pointB Coordinate,
	snap Coordinate) float64 {
	projectionPoint := ProjectPointToLineCoord(pointA, pointB, snap)

	dist := CalculateHaversineDistance(snap.GetLat(), snap.GetLon(), projectionPoint.GetLat(), projectionPoint.GetLon())

	return dist * 1000
}

// SegmentFraction is how far along a-b (0..1) the projection of snap lies.
func SegmentFraction(pointA, pointB, snap Coordinate) float64 {
	total := CalculateHaversineDistance(pointA.Lat, pointA.Lon, pointB.Lat, pointB.Lon)
	if total == 0 {
		return 0
	}
	projection := ProjectPointToLineCoord(pointA, pointB, snap)
	part := CalculateHaversineDistance(pointA.Lat, pointA.Lon, projection.Lat, projection.Lon)
	return min(part/total, 1)
}
