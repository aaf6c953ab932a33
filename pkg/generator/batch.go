package generator

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/lintang-b-s/vrpdatasetgen/pkg/dataset"
)

// Batch is one row of the published dataset tables. Every row expands to several instances.
type Batch struct {
	LocationFile string
	HubFile      string
	Locations    int
	Depots       int
	Vehicles     int
	Capacity     int
}

// Batches lists the published instances of a data source. File names are relative to rawDir.
func Batches(source dataset.DataSource, rawDir string) []Batch {
	raw := func(name string) string {
		return filepath.Join(rawDir, name)
	}
	switch source {
	case dataset.Belgium:
		cities, hubs := raw("belgium-2750.csv"), raw("belgium-hubs.txt")
		return []Batch{
			{cities, hubs, 50, 1, 10, 125},
			{cities, hubs, 50, 2, 10, 125},
			{cities, hubs, 100, 1, 10, 250},
			{cities, hubs, 100, 3, 10, 250},
			{cities, hubs, 500, 1, 20, 250},
			{cities, hubs, 500, 5, 20, 250},
			{cities, hubs, 1000, 1, 20, 500},
			{cities, hubs, 1000, 8, 20, 500},
			{cities, hubs, 2750, 1, 55, 500},
			{cities, hubs, 2750, 10, 55, 500},
		}
	case dataset.USA:
		cities := raw("usa-115475.csv")
		return []Batch{
			{cities, "", 1000, 1, 10, 1000},
			{cities, "", 5000, 1, 50, 1000},
			{cities, "", 10000, 1, 100, 1000},
			{cities, "", 50000, 1, 500, 1000},
			{cities, "", 100000, 1, 1000, 1000},
		}
	case dataset.UKTeams:
		return []Batch{
			{raw("uk-teams-41.csv"), "", 41, 1, 10, 125},
			{raw("uk-teams-92.csv"), "", 92, 1, 10, 250},
			{raw("uk-teams-160.csv"), "", 160, 1, 12, 250},
			{raw("uk-teams-201.csv"), "", 201, 1, 14, 250},
		}
	}
	return nil
}

// Variants expands a batch into its instances: air distance for every source, road
// distance except for USA, and segmented road distance for single depot batches with hubs.
// Road distance in km with time windows is left out.
func Variants(source dataset.DataSource, b Batch) []Options {
	opt := func(d dataset.DistanceType, v dataset.VrpType) Options {
		o := Options{
			Source:       source,
			LocationFile: b.LocationFile,
			Locations:    b.Locations,
			Depots:       b.Depots,
			Vehicles:     b.Vehicles,
			Capacity:     b.Capacity,
			DistanceType: d,
			VrpType:      v,
		}
		if d.IsSegmented() {
			o.HubFile = b.HubFile
		}
		return o
	}

	variants := []Options{
		opt(dataset.AirDistance, dataset.Basic),
		opt(dataset.AirDistance, dataset.TimeWindowed),
	}
	if source != dataset.USA {
		variants = append(variants,
			opt(dataset.RoadDistanceKm, dataset.Basic),
			opt(dataset.RoadDistanceTime, dataset.Basic),
			opt(dataset.RoadDistanceTime, dataset.TimeWindowed),
		)
	}
	if b.HubFile != "" && b.Depots == 1 {
		variants = append(variants,
			opt(dataset.SegmentedRoadDistanceKm, dataset.Basic),
			opt(dataset.SegmentedRoadDistanceTime, dataset.Basic),
		)
	}
	return variants
}

// GenerateAll writes every published instance of the source, stopping at the first error.
func (g *Generator) GenerateAll(ctx context.Context, source dataset.DataSource, rawDir string) ([]string, error) {
	batches := Batches(source, rawDir)
	if len(batches) == 0 {
		return nil, fmt.Errorf("unsupported data source %v", source)
	}
	written := make([]string, 0, len(batches)*7)
	for _, b := range batches {
		for _, o := range Variants(source, b) {
			path, err := g.Generate(ctx, o)
			if err != nil {
				return written, fmt.Errorf("%s: %w", InstanceName(o), err)
			}
			written = append(written, path)
		}
	}
	return written, nil
}
