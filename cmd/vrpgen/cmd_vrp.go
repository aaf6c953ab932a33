package main

import (
	"github.com/lintang-b-s/vrpdatasetgen/pkg/dataset"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/engine/routing"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/generator"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var vrpFlags struct {
	source       string
	locationFile string
	hubFile      string
	locations    int
	depots       int
	vehicles     int
	capacity     int
	distanceType string
	vrpType      string
	all          bool
}

var vrpCmd = &cobra.Command{
	Use:   "vrp",
	Short: "Generate vehicle routing instances from a city list",
	Long: `Generate one instance from the given options, or with --all every published
instance of the data source: air distance, road distance and, for single depot
Belgium instances, hub segmented road distance.`,
	RunE: runVrp,
}

func init() {
	f := vrpCmd.Flags()
	f.StringVar(&vrpFlags.source, "source", "belgium", "data source: belgium, usa or uk-teams")
	f.StringVar(&vrpFlags.locationFile, "locations", "", "city csv")
	f.StringVar(&vrpFlags.hubFile, "hubs", "", "hub file, read for segmented distance types")
	f.IntVarP(&vrpFlags.locations, "size", "n", 50, "number of locations, depots included")
	f.IntVar(&vrpFlags.depots, "depots", 1, "number of depots")
	f.IntVarP(&vrpFlags.vehicles, "vehicles", "k", 10, "number of vehicles")
	f.IntVar(&vrpFlags.capacity, "capacity", 125, "vehicle capacity")
	f.StringVar(&vrpFlags.distanceType, "distance", "air", "air, road-km, road-time, segmented-road-km or segmented-road-time")
	f.StringVar(&vrpFlags.vrpType, "type", "basic", "basic or timewindowed")
	f.BoolVar(&vrpFlags.all, "all", false, "generate every published instance of the source")
	f.Bool("legacy-numbering", false, "number the locations 1..n, not with segmented distance types")
	if err := viper.BindPFlag("legacy_numbering", f.Lookup("legacy-numbering")); err != nil {
		panic(err)
	}
}

func runVrp(cmd *cobra.Command, args []string) error {
	source, err := dataset.ParseDataSource(vrpFlags.source)
	if err != nil {
		return err
	}

	var options []generator.Options
	if vrpFlags.all {
		for _, b := range generator.Batches(source, viper.GetString("raw_dir")) {
			options = append(options, generator.Variants(source, b)...)
		}
	} else {
		distanceType, err := dataset.ParseDistanceType(vrpFlags.distanceType)
		if err != nil {
			return err
		}
		vrpType, err := dataset.ParseVrpType(vrpFlags.vrpType)
		if err != nil {
			return err
		}
		options = append(options, generator.Options{
			Source:       source,
			LocationFile: vrpFlags.locationFile,
			HubFile:      vrpFlags.hubFile,
			Locations:    vrpFlags.locations,
			Depots:       vrpFlags.depots,
			Vehicles:     vrpFlags.vehicles,
			Capacity:     vrpFlags.capacity,
			DistanceType: distanceType,
			VrpType:      vrpType,

			LegacyNumbering: viper.GetBool("legacy_numbering"),
		})
	}

	ctx, cancel := signalContext()
	defer cancel()

	var router routing.Router
	for _, o := range options {
		if o.DistanceType.IsRoad() {
			r, cleanup, err := newRouter(ctx, source)
			if err != nil {
				return err
			}
			defer cleanup()
			router = r
			break
		}
	}

	gen := generator.NewGenerator(router, generatorConfig(), log)
	if vrpFlags.all {
		written, err := gen.GenerateAll(ctx, source, viper.GetString("raw_dir"))
		log.Info("instances written", zap.Int("count", len(written)))
		return err
	}
	for _, o := range options {
		path, err := gen.Generate(ctx, o)
		if err != nil {
			return err
		}
		log.Debug("instance written", zap.String("name", generator.InstanceName(o)), zap.String("path", path))
	}
	return nil
}

func generatorConfig() generator.Config {
	return generator.Config{
		DataDir:    viper.GetString("data_dir"),
		EngineName: viper.GetString("engine.name"),
		CreateDirs: viper.GetBool("create_dirs"),
		Workers:    viper.GetInt("workers"),
	}
}
