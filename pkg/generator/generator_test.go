package generator

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/lintang-b-s/vrpdatasetgen/pkg/dataset"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/engine/routing/routingtest"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

const belgiumCities = "1000;x;50.85;4.35;A\n" +
	"2000;x;50.95;4.45;B\n" +
	"3000;x;50.85;4.35001;BRUSSEL\n" +
	"4000;x;51.05;3.72;C\n"

func TestInstanceName(t *testing.T) {
	o := Options{
		LocationFile: "data/raw/belgium-2750.csv",
		Locations:    50,
		Depots:       1,
		Vehicles:     10,
		DistanceType: dataset.AirDistance,
		VrpType:      dataset.Basic,
	}
	assert.Equal(t, "belgium-n50-k10", InstanceName(o))

	o.Depots = 2
	o.DistanceType = dataset.RoadDistanceTime
	o.VrpType = dataset.TimeWindowed
	assert.Equal(t, "belgium-road-time-tw-d2-n50-k10", InstanceName(o))

	o.Depots = 1
	o.DistanceType = dataset.SegmentedRoadDistanceKm
	o.VrpType = dataset.Basic
	assert.Equal(t, "belgium-segmentedRoad-km-n50-k10", InstanceName(o))

	g := NewGenerator(nil, Config{DataDir: "data"}, zap.NewNop())
	o.Source = dataset.Belgium
	o.Depots = 2
	o.DistanceType = dataset.RoadDistanceTime
	o.VrpType = dataset.TimeWindowed
	assert.Equal(t, filepath.Join("data", "import", "belgium", "multidepot-timewindowed", "road-time",
		"belgium-road-time-tw-d2-n50-k10.vrp"), g.OutputPath(o))
}

func TestBatchesAndVariants(t *testing.T) {
	assert.Len(t, Batches(dataset.Belgium, "raw"), 10)
	assert.Len(t, Batches(dataset.USA, "raw"), 5)
	assert.Len(t, Batches(dataset.UKTeams, "raw"), 4)

	belgium := Batches(dataset.Belgium, "raw")
	assert.Equal(t, filepath.Join("raw", "belgium-2750.csv"), belgium[0].LocationFile)
	assert.Len(t, Variants(dataset.Belgium, belgium[0]), 7)
	assert.Len(t, Variants(dataset.Belgium, belgium[1]), 5)
	assert.Len(t, Variants(dataset.USA, Batches(dataset.USA, "raw")[0]), 2)
	assert.Len(t, Variants(dataset.UKTeams, Batches(dataset.UKTeams, "raw")[0]), 5)

	for _, o := range Variants(dataset.Belgium, belgium[0]) {
		if o.DistanceType.IsSegmented() {
			assert.Equal(t, belgium[0].HubFile, o.HubFile)
		} else {
			assert.Empty(t, o.HubFile)
		}
	}

	_, err := NewGenerator(nil, Config{}, zap.NewNop()).GenerateAll(context.Background(), dataset.DataSource(99), "raw")
	assert.Error(t, err)
}

func TestGenerateAir(t *testing.T) {
	dir := t.TempDir()
	cities := writeFile(t, dir, "belgium-4.csv", belgiumCities)
	g := NewGenerator(nil, Config{DataDir: dir, EngineName: "GraphHopper", CreateDirs: true}, zap.NewNop())

	path, err := g.Generate(context.Background(), Options{
		Source:       dataset.Belgium,
		LocationFile: cities,
		Locations:    3,
		Depots:       1,
		Vehicles:     1,
		Capacity:     20,
		DistanceType: dataset.AirDistance,
		VrpType:      dataset.Basic,
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "import", "belgium", "basic", "air", "belgium-n3-k1.vrp"), path)

	content := readFile(t, path)
	assert.Contains(t, content, "NAME: belgium-n3-k1\n")
	assert.Contains(t, content, "COMMENT: Generated for OptaPlanner Examples by Geoffrey De Smet.\n")
	assert.Contains(t, content, "EDGE_WEIGHT_TYPE: EUC_2D\n")
	assert.Contains(t, content, "NODE_COORD_SECTION\n2 50.85 4.35001 BRUSSEL\n")
	assert.Contains(t, content, "DEPOT_SECTION\n2\n-1\nEOF\n")
	assert.NotContains(t, content, "EDGE_WEIGHT_SECTION")
}

func TestGenerateLegacyNumbering(t *testing.T) {
	dir := t.TempDir()
	cities := writeFile(t, dir, "belgium-4.csv", belgiumCities)
	g := NewGenerator(nil, Config{DataDir: dir, CreateDirs: true}, zap.NewNop())
	o := Options{
		Source:          dataset.Belgium,
		LocationFile:    cities,
		Locations:       3,
		Depots:          1,
		Vehicles:        1,
		Capacity:        20,
		DistanceType:    dataset.AirDistance,
		VrpType:         dataset.Basic,
		LegacyNumbering: true,
	}

	path, err := g.Generate(context.Background(), o)
	require.NoError(t, err)
	content := readFile(t, path)
	assert.Contains(t, content, "NODE_COORD_SECTION\n1 50.85 4.35001 BRUSSEL\n2 ")
	assert.Contains(t, content, "\n3 ")
	assert.Contains(t, content, "DEMAND_SECTION\n1 0\n2 ")
	assert.Contains(t, content, "DEPOT_SECTION\n1\n-1\nEOF\n")

	o.DistanceType = dataset.SegmentedRoadDistanceKm
	o.HubFile = writeFile(t, dir, "belgium-hubs.txt", "0 50.9 4.4 0-5\n")
	_, err = NewGenerator(&routingtest.StraightRouter{}, Config{DataDir: dir, CreateDirs: true}, zap.NewNop()).
		Generate(context.Background(), o)
	assert.ErrorIs(t, err, ErrLegacyNumberingHubs)
}

func TestGenerateRoad(t *testing.T) {
	dir := t.TempDir()
	cities := writeFile(t, dir, "belgium-4.csv", belgiumCities)
	o := Options{
		Source:       dataset.Belgium,
		LocationFile: cities,
		Locations:    3,
		Depots:       1,
		Vehicles:     1,
		Capacity:     20,
		DistanceType: dataset.RoadDistanceKm,
		VrpType:      dataset.TimeWindowed,
	}

	_, err := NewGenerator(&routingtest.StraightRouter{}, Config{DataDir: dir}, zap.NewNop()).
		Generate(context.Background(), o)
	assert.ErrorIs(t, err, ErrMissingOutputDir)

	_, err = NewGenerator(nil, Config{DataDir: dir, CreateDirs: true}, zap.NewNop()).
		Generate(context.Background(), o)
	assert.ErrorIs(t, err, ErrNoRouter)

	router := &routingtest.StraightRouter{}
	g := NewGenerator(router, Config{DataDir: dir, EngineName: "GraphHopper", CreateDirs: true, Workers: 2}, zap.NewNop())
	path, err := g.Generate(context.Background(), o)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "import", "belgium", "timewindowed", "road-km", "belgium-road-km-tw-n3-k1.vrp"), path)
	assert.Equal(t, 6, router.Calls())

	content := readFile(t, path)
	assert.Contains(t, content, "TYPE: CVRPTW\n")
	assert.Contains(t, content, "EDGE_WEIGHT_TYPE: EXPLICIT\nEDGE_WEIGHT_FORMAT: FULL_MATRIX\nEDGE_WEIGHT_UNIT_OF_MEASUREMENT: km\n")
	assert.Contains(t, content, "EDGE_WEIGHT_SECTION\n0.000 ")
	assert.Contains(t, content, "DEMAND_SECTION\n2 0 25200 68400 0\n")

	o.DistanceType = dataset.SegmentedRoadDistanceKm
	_, err = g.Generate(context.Background(), o)
	assert.ErrorIs(t, err, ErrNoHubFile)
}

func TestGenerateSegmented(t *testing.T) {
	dir := t.TempDir()
	stops := make([]geo.Coordinate, 5)
	for i := range stops {
		stops[i] = geo.NewCoordinate(0, float64(i)/100)
	}
	cities := writeFile(t, dir, "belgium-3.csv", "1;x;0.0;0.0;BRUSSEL\n2;x;0.0;0.02;A\n3;x;0.0;0.04;B\n")
	hubs := writeFile(t, dir, "belgium-hubs.txt", "HUB_COORD_SECTION\n0 0.0 0.01 0-5\n1 0.0 0.03 1-5\n")

	g := NewGenerator(&routingtest.LineRouter{Stops: stops}, Config{DataDir: dir, EngineName: "GraphHopper", CreateDirs: true}, zap.NewNop())
	path, err := g.Generate(context.Background(), Options{
		Source:       dataset.Belgium,
		LocationFile: cities,
		HubFile:      hubs,
		Locations:    3,
		Depots:       1,
		Vehicles:     1,
		Capacity:     20,
		DistanceType: dataset.SegmentedRoadDistanceKm,
		VrpType:      dataset.Basic,
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "import", "belgium", "basic", "road-km", "belgium-segmentedRoad-km-n3-k1.vrp"), path)

	content := readFile(t, path)
	assert.Contains(t, content, "EDGE_WEIGHT_TYPE: SEGMENTED_EXPLICIT\nEDGE_WEIGHT_FORMAT: HUB_AND_NEARBY_MATRIX\n")
	assert.Contains(t, content, "HUBS: 2\nHUB_COORD_SECTION\n0 0.0 0.01 0-5\n1 0.0 0.03 1-5\nNODE_COORD_SECTION\n2 0.0 0.0 BRUSSEL\n")
	assert.Contains(t, content, "SEGMENTED_EDGE_WEIGHT_SECTION\n0 1 2.224 3 1.112 2 1.112 \n")
	assert.Contains(t, content, "\n4 1 1.112 \nDEMAND_SECTION\n")
}

func TestGenerateFromTsp(t *testing.T) {
	dir := t.TempDir()
	tsp := writeFile(t, dir, "usa4.tsp", `NAME: usa4
TYPE: TSP
DIMENSION: 4
EDGE_WEIGHT_TYPE: EUC_2D
NODE_COORD_SECTION
1 40.0 -74.0 one
2 40.1 -74.1
3 40.2 -74.2
4 40.3 -74.3
EOF
`)
	assert.Equal(t, "usa-road-n100-k10", TspRoadName("data/raw/usa115475.tsp", 100, 10))

	_, err := NewGenerator(nil, Config{DataDir: dir, CreateDirs: true}, zap.NewNop()).
		GenerateFromTsp(context.Background(), tsp, 2, 1, 10)
	assert.ErrorIs(t, err, ErrNoRouter)

	router := &routingtest.StraightRouter{}
	g := NewGenerator(router, Config{DataDir: dir, EngineName: "GraphHopper", CreateDirs: true}, zap.NewNop())
	path, err := g.GenerateFromTsp(context.Background(), tsp, 2, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "import", "roaddistance", "capacitated", "usa-road-n2-k1.vrp"), path)
	assert.Equal(t, 2, router.Calls())

	content := readFile(t, path)
	assert.Contains(t, content, "COMMENT: Generated from usa4.tsp. Road distance calculated with GraphHopper.\n")
	assert.Contains(t, content, "EDGE_WEIGHT_FORMAT: FULL_MATRIX\nCAPACITY: 10\n")
	assert.Contains(t, content, "NODE_COORD_SECTION\n1 40.0 -74.0\n2 40.2 -74.2\nEDGE_WEIGHT_SECTION\n0.0000 ")
	assert.Contains(t, content, "DEPOT_SECTION\n1\n-1\n")
}
