// Package generator turns city lists into .vrp instances.
package generator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/lintang-b-s/vrpdatasetgen/pkg/dataset"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/engine/routing"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/hub"
	"go.uber.org/zap"
)

var (
	ErrNoRouter         = errors.New("road distance types need a router")
	ErrNoHubFile        = errors.New("segmented distance types need a hub file")
	ErrMissingOutputDir = errors.New("the output parent directory does not exist")

	ErrLegacyNumberingHubs = errors.New("legacy numbering cannot be used with hubs")
)

var locationFileSuffix = regexp.MustCompile(`-\d+\.csv`)

// Options describe one instance.
type Options struct {
	Source       dataset.DataSource
	LocationFile string
	// HubFile is only read for segmented distance types.
	HubFile      string
	Locations    int
	Depots       int
	Vehicles     int
	Capacity     int
	DistanceType dataset.DistanceType
	VrpType      dataset.VrpType
	// LegacyNumbering renumbers the selected locations 1..n. Segmented instances number
	// their locations after the hubs and cannot use it.
	LegacyNumbering bool
}

func (o Options) validate() error {
	if o.Locations < 2 {
		return fmt.Errorf("at least 2 locations are needed, got %d", o.Locations)
	}
	if o.Vehicles < 1 || o.Capacity < 1 {
		return fmt.Errorf("vehicles (%d) and capacity (%d) must be positive", o.Vehicles, o.Capacity)
	}
	if o.DistanceType.IsSegmented() && o.HubFile == "" {
		return ErrNoHubFile
	}
	if o.DistanceType.IsSegmented() && o.LegacyNumbering {
		return ErrLegacyNumberingHubs
	}
	return nil
}

// InstanceName is "<location file without -<count>.csv><distance suffix><vrp suffix>[-d<depots>]-n<n>-k<k>".
func InstanceName(o Options) string {
	name := locationFileSuffix.ReplaceAllString(filepath.Base(o.LocationFile), "") +
		o.DistanceType.FileSuffix() + o.VrpType.FileSuffix()
	if o.Depots != 1 {
		name += "-d" + strconv.Itoa(o.Depots)
	}
	return name + "-n" + strconv.Itoa(o.Locations) + "-k" + strconv.Itoa(o.Vehicles)
}

type Generator struct {
	router     routing.Router
	dataDir    string
	engineName string
	createDirs bool
	workers    int
	log        *zap.Logger
}

type Config struct {
	DataDir    string
	EngineName string
	// CreateDirs creates missing output directories instead of failing.
	CreateDirs bool
	Workers    int
}

// NewGenerator returns a generator writing under cfg.DataDir. router may be nil when only
// air distance instances are generated.
func NewGenerator(router routing.Router, cfg Config, log *zap.Logger) *Generator {
	return &Generator{
		router:     router,
		dataDir:    cfg.DataDir,
		engineName: cfg.EngineName,
		createDirs: cfg.CreateDirs,
		workers:    max(cfg.Workers, 1),
		log:        log,
	}
}

// OutputPath is <dataDir>/import/<source>/<vrp type dir>/<distance dir>/<name>.vrp.
func (g *Generator) OutputPath(o Options) string {
	return filepath.Join(g.dataDir, "import", o.Source.DirName(), o.VrpType.DirName(o.Depots != 1),
		o.DistanceType.DirName(), InstanceName(o)+".vrp")
}

func (g *Generator) outputFile(path string) (*os.File, error) {
	dir := filepath.Dir(path)
	if _, err := os.Stat(dir); err != nil {
		if !errors.Is(err, os.ErrNotExist) || !g.createDirs {
			return nil, fmt.Errorf("%w: %s", ErrMissingOutputDir, dir)
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.Create(path)
}

// BuildInstance reads the files of o and computes everything the instance file holds.
func (g *Generator) BuildInstance(ctx context.Context, o Options) (*dataset.Instance, error) {
	if err := o.validate(); err != nil {
		return nil, err
	}
	if o.DistanceType.IsRoad() && g.router == nil {
		return nil, ErrNoRouter
	}

	var hubs []dataset.Location
	if o.DistanceType.IsSegmented() {
		var err error
		hubs, err = dataset.ReadHubFile(o.HubFile)
		if err != nil {
			return nil, err
		}
	}

	all, err := dataset.ReadLocationFile(o.LocationFile, o.Source, int64(len(hubs)))
	if err != nil {
		return nil, err
	}
	g.log.Sugar().Infof("Read %d cities.", len(all))
	locations, err := dataset.SelectWithDepots(all, o.Locations, o.Depots, o.Source)
	if err != nil {
		return nil, err
	}
	if o.LegacyNumbering {
		locations = dataset.Renumber(locations)
	}

	inst := &dataset.Instance{
		Name:      InstanceName(o),
		Comment:   o.Source.Comment(g.engineName, o.DistanceType.IsRoad()),
		VrpType:   o.VrpType,
		Capacity:  o.Capacity,
		Hubs:      hubs,
		Locations: locations,
		Depots:    o.Depots,
	}
	if unit, err := o.DistanceType.UnitOfMeasurement(); err == nil {
		inst.Unit = unit
	}

	switch {
	case o.DistanceType.IsSegmented():
		segmenter := hub.NewSegmenter(g.router, o.DistanceType, g.workers, g.log)
		inst.Segments, err = segmenter.Segment(ctx, hubs, locations)
	case o.DistanceType.IsRoad():
		inst.Matrix, err = dataset.RoadMatrix(ctx, g.router, locations, o.DistanceType, g.workers, g.log)
	default:
		dataset.CheckAirDistances(locations, g.log)
	}
	if err != nil {
		return nil, err
	}

	inst.Demands, err = dataset.GenerateDemands(locations, o.Depots, o.Vehicles, o.Capacity, o.VrpType)
	if err != nil {
		return nil, err
	}
	return inst, nil
}

// Generate writes the instance of o and returns its path.
func (g *Generator) Generate(ctx context.Context, o Options) (string, error) {
	path := g.OutputPath(o)
	if err := g.checkOutputDir(path); err != nil {
		return "", err
	}

	inst, err := g.BuildInstance(ctx, o)
	if err != nil {
		return "", err
	}
	if err := g.write(path, inst); err != nil {
		return "", err
	}
	return path, nil
}

// checkOutputDir fails before any routing is done when the instance could not be written.
func (g *Generator) checkOutputDir(path string) error {
	dir := filepath.Dir(path)
	if _, err := os.Stat(dir); err != nil && !g.createDirs {
		return fmt.Errorf("%w: %s", ErrMissingOutputDir, dir)
	}
	return nil
}

func (g *Generator) write(path string, inst *dataset.Instance) error {
	f, err := g.outputFile(path)
	if err != nil {
		return err
	}
	if err := dataset.WriteVRP(f, inst); err != nil {
		f.Close()
		return fmt.Errorf("could not write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	g.log.Info("Generated", zap.String("file", path))
	return nil
}
