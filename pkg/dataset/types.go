package dataset

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/lintang-b-s/vrpdatasetgen/pkg/engine/routing"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/geo"
)

var (
	ErrAirDistance           = errors.New("air distance has no road measure")
	ErrUnsupportedDepotCount = errors.New("unsupported depot count")
)

// DistanceType is how the distance between two locations of a generated instance is measured.
type DistanceType uint8

const (
	AirDistance DistanceType = iota
	RoadDistanceKm
	RoadDistanceTime
	SegmentedRoadDistanceKm
	SegmentedRoadDistanceTime
)

var AllDistanceTypes = []DistanceType{
	AirDistance, RoadDistanceKm, RoadDistanceTime, SegmentedRoadDistanceKm, SegmentedRoadDistanceTime,
}

func (d DistanceType) String() string {
	switch d {
	case AirDistance:
		return "air"
	case RoadDistanceKm:
		return "road-km"
	case RoadDistanceTime:
		return "road-time"
	case SegmentedRoadDistanceKm:
		return "segmented-road-km"
	case SegmentedRoadDistanceTime:
		return "segmented-road-time"
	}
	return fmt.Sprintf("DistanceType(%d)", uint8(d))
}

func ParseDistanceType(s string) (DistanceType, error) {
	for _, d := range AllDistanceTypes {
		if strings.EqualFold(d.String(), s) {
			return d, nil
		}
	}
	return AirDistance, fmt.Errorf("unknown distance type %q", s)
}

func (d DistanceType) FileSuffix() string {
	switch d {
	case RoadDistanceKm:
		return "-road-km"
	case RoadDistanceTime:
		return "-road-time"
	case SegmentedRoadDistanceKm:
		return "-segmentedRoad-km"
	case SegmentedRoadDistanceTime:
		return "-segmentedRoad-time"
	}
	return ""
}

func (d DistanceType) IsRoad() bool {
	return d != AirDistance
}

func (d DistanceType) IsSegmented() bool {
	return d == SegmentedRoadDistanceKm || d == SegmentedRoadDistanceTime
}

func (d DistanceType) IsShortest() bool {
	return d == AirDistance || d == RoadDistanceKm || d == SegmentedRoadDistanceKm
}

// Weighting is the routing weighting the distances of this type are computed with.
func (d DistanceType) Weighting() routing.Weighting {
	if d.IsShortest() {
		return routing.Shortest
	}
	return routing.Fastest
}

// ExtractDistance converts a route to the unit of the type: km or seconds.
func (d DistanceType) ExtractDistance(route *routing.RouteResult) (float64, error) {
	switch d {
	case RoadDistanceKm, SegmentedRoadDistanceKm:
		return route.DistanceMeters / 1000.0, nil
	case RoadDistanceTime, SegmentedRoadDistanceTime:
		return float64(route.TimeMillis) / 1000.0, nil
	}
	return 0, ErrAirDistance
}

func (d DistanceType) UnitOfMeasurement() (string, error) {
	switch d {
	case RoadDistanceKm, SegmentedRoadDistanceKm:
		return "km", nil
	case RoadDistanceTime, SegmentedRoadDistanceTime:
		return "sec", nil
	}
	return "", ErrAirDistance
}

func (d DistanceType) DirName() string {
	switch d {
	case RoadDistanceKm, SegmentedRoadDistanceKm:
		return "road-km"
	case RoadDistanceTime, SegmentedRoadDistanceTime:
		return "road-time"
	}
	return "air"
}

type VrpType uint8

const (
	Basic VrpType = iota
	TimeWindowed
)

func ParseVrpType(s string) (VrpType, error) {
	switch strings.ToLower(s) {
	case "basic":
		return Basic, nil
	case "timewindowed", "tw":
		return TimeWindowed, nil
	}
	return Basic, fmt.Errorf("unknown vrp type %q", s)
}

func (v VrpType) FileSuffix() string {
	if v == TimeWindowed {
		return "-tw"
	}
	return ""
}

func (v VrpType) DirName(multidepot bool) string {
	name := "basic"
	if v == TimeWindowed {
		name = "timewindowed"
	}
	if multidepot {
		return "multidepot-" + name
	}
	return name
}

func (v VrpType) HeaderType() string {
	if v == TimeWindowed {
		return "CVRPTW"
	}
	return "CVRP"
}

// Location is a city, customer or depot. Name may be empty.
type Location struct {
	ID   int64
	Name string
	geo.Coordinate
}

func (l Location) String() string {
	if l.Name != "" {
		return fmt.Sprintf("%d %s (%v,%v)", l.ID, l.Name, l.Lat, l.Lon)
	}
	return fmt.Sprintf("%d (%v,%v)", l.ID, l.Lat, l.Lon)
}

// AirDistanceTo is the distance an EUC_2D instance uses, rounded to the thousandth like the solver does.
func (l Location) AirDistanceTo(other Location) int64 {
	return int64(geo.EuclideanDegrees(l.Coordinate, other.Coordinate)*1000 + 0.5)
}

// DataSource is the region a city list comes from. It fixes the csv layout, the osm extract and the output dir.
type DataSource uint8

const (
	Belgium DataSource = iota
	USA
	UKTeams
)

var AllDataSources = []DataSource{Belgium, USA, UKTeams}

func (s DataSource) String() string {
	switch s {
	case Belgium:
		return "BELGIUM"
	case USA:
		return "USA"
	case UKTeams:
		return "UK_TEAMS"
	}
	return fmt.Sprintf("DataSource(%d)", uint8(s))
}

// ParseDataSource accepts both the enum name and the dir name, case insensitive.
func ParseDataSource(s string) (DataSource, error) {
	for _, ds := range AllDataSources {
		if strings.EqualFold(ds.String(), s) || strings.EqualFold(ds.DirName(), s) {
			return ds, nil
		}
	}
	return Belgium, fmt.Errorf("unknown data source %q", s)
}

func (s DataSource) DirName() string {
	switch s {
	case USA:
		return "usa"
	case UKTeams:
		return "uk-teams"
	}
	return "belgium"
}

// OsmConfigKey is the viper key holding the osm extract of the source.
func (s DataSource) OsmConfigKey() string {
	return "osm." + s.DirName()
}

// TokenCount is the number of ';' separated fields of one city csv line.
func (s DataSource) TokenCount() int {
	switch s {
	case USA:
		return 3
	case UKTeams:
		return 6
	}
	return 5
}

// HasDepotNames reports whether depots are picked by city name.
func (s DataSource) HasDepotNames() bool {
	return s == Belgium
}

var belgiumDepots = []string{
	"WAVRE", "LEUVEN", "MONS", "ANTWERPEN", "LIEGE", "BRUGGE", "ARLON", "HASSELT", "GENT", "NAMUR",
}

const MaxDepots = 10

// DepotNames returns the city names of the depots, in the order they are extracted.
func (s DataSource) DepotNames(depots int) ([]string, error) {
	if depots < 1 || depots > MaxDepots {
		return nil, fmt.Errorf("%w: %d depots", ErrUnsupportedDepotCount, depots)
	}
	if depots == 1 {
		return []string{"BRUSSEL"}, nil
	}
	names := belgiumDepots[MaxDepots-depots:]
	return slices.Clone(names), nil
}

// Comment is the COMMENT header line of a generated instance.
func (s DataSource) Comment(engineName string, road bool) string {
	with := ""
	if road {
		with = " with " + engineName
	}
	if s == UKTeams {
		return "Generated" + with + " by Graham Kendall, Geoffrey De Smet, Nasser Sabar and Angelina Yee."
	}
	return "Generated for OptaPlanner Examples" + with + " by Geoffrey De Smet."
}
