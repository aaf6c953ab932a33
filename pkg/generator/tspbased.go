package generator

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/lintang-b-s/vrpdatasetgen/pkg/dataset"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/engine/routing"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/tsplib"
	"go.uber.org/zap"
)

var tspFileSuffix = regexp.MustCompile(`\d+\.tsp`)

const tspRoadDecimals = 4

// TspRoadName maps "usa115475.tsp" with 100 locations and 10 vehicles to "usa-road-n100-k10".
func TspRoadName(tspFile string, locations, vehicles int) string {
	return tspFileSuffix.ReplaceAllString(filepath.Base(tspFile), "") +
		"-road-n" + strconv.Itoa(locations) + "-k" + strconv.Itoa(vehicles)
}

// TspRoadPath is <dataDir>/import/roaddistance/capacitated/<name>.vrp.
func (g *Generator) TspRoadPath(tspFile string, locations, vehicles int) string {
	return filepath.Join(g.dataDir, "import", "roaddistance", "capacitated", TspRoadName(tspFile, locations, vehicles)+".vrp")
}

// BuildTspRoadInstance spreads n cities of a tsp file, numbers them 1..n with the first as
// depot and fills a road distance matrix in meters.
func (g *Generator) BuildTspRoadInstance(ctx context.Context, tspFile string, n, vehicles, capacity int) (*dataset.Instance, error) {
	if g.router == nil {
		return nil, ErrNoRouter
	}
	tour, err := tsplib.ReadTourFile(tspFile)
	if err != nil {
		return nil, err
	}
	g.log.Info("tsp tour read", zap.String("file", tspFile))

	cities, err := dataset.Spread(tour.Cities, n)
	if err != nil {
		return nil, err
	}
	if len(cities) != n {
		return nil, fmt.Errorf("selected %d cities instead of %d", len(cities), n)
	}
	cities = dataset.Renumber(cities)
	for i := range cities {
		cities[i].Name = ""
	}

	meters := func(route *routing.RouteResult) (float64, error) {
		return route.DistanceMeters, nil
	}
	matrix, err := dataset.MeasuredMatrix(ctx, g.router, cities, routing.Fastest, meters, false, g.workers, g.log)
	if err != nil {
		return nil, err
	}
	demands, err := dataset.GenerateDemands(cities, 1, vehicles, capacity, dataset.Basic)
	if err != nil {
		return nil, err
	}

	return &dataset.Instance{
		Name:      TspRoadName(tspFile, n, vehicles),
		Comment:   "Generated from " + filepath.Base(tspFile) + ". Road distance calculated with " + g.engineName + ".",
		VrpType:   dataset.Basic,
		Capacity:  capacity,
		Locations: cities,
		Depots:    1,
		Demands:   demands,
		Matrix:    matrix,
		Decimals:  tspRoadDecimals,
	}, nil
}

// GenerateFromTsp writes the road distance instance of a tsp file and returns its path.
func (g *Generator) GenerateFromTsp(ctx context.Context, tspFile string, n, vehicles, capacity int) (string, error) {
	path := g.TspRoadPath(tspFile, n, vehicles)
	if err := g.checkOutputDir(path); err != nil {
		return "", err
	}
	inst, err := g.BuildTspRoadInstance(ctx, tspFile, n, vehicles, capacity)
	if err != nil {
		return "", err
	}
	if err := g.write(path, inst); err != nil {
		return "", err
	}
	return path, nil
}
