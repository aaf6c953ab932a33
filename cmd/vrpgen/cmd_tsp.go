package main

import (
	"os"

	"github.com/lintang-b-s/vrpdatasetgen/pkg/dataset"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/generator"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/tsplib"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var tspRoadFlags struct {
	source    string
	locations int
	vehicles  int
	capacity  int
}

var tspRoadCmd = &cobra.Command{
	Use:   "tsp-road <file.tsp>",
	Short: "Generate a road distance vehicle routing instance from a tsp file",
	Args:  cobra.ExactArgs(1),
	RunE:  runTspRoad,
}

var vrpToTspCmd = &cobra.Command{
	Use:   "vrp2tsp <vrp dir> <tsp dir>",
	Short: "Convert every vehicle routing instance of a dir into a tsp instance",
	Args:  cobra.ExactArgs(2),
	RunE:  runVrpToTsp,
}

func init() {
	f := tspRoadCmd.Flags()
	f.StringVar(&tspRoadFlags.source, "source", "usa", "data source whose road graph is used")
	f.IntVarP(&tspRoadFlags.locations, "size", "n", 100, "number of locations")
	f.IntVarP(&tspRoadFlags.vehicles, "vehicles", "k", 10, "number of vehicles")
	f.IntVar(&tspRoadFlags.capacity, "capacity", 250, "vehicle capacity")
}

func runTspRoad(cmd *cobra.Command, args []string) error {
	source, err := dataset.ParseDataSource(tspRoadFlags.source)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	router, cleanup, err := newRouter(ctx, source)
	if err != nil {
		return err
	}
	defer cleanup()

	gen := generator.NewGenerator(router, generatorConfig(), log)
	_, err = gen.GenerateFromTsp(ctx, args[0], tspRoadFlags.locations, tspRoadFlags.vehicles, tspRoadFlags.capacity)
	return err
}

func runVrpToTsp(cmd *cobra.Command, args []string) error {
	if viper.GetBool("create_dirs") {
		if err := os.MkdirAll(args[1], 0o755); err != nil {
			return err
		}
	}
	written, err := tsplib.ConvertDir(args[0], args[1], log)
	if err != nil {
		return err
	}
	log.Info("converted", zap.Int("files", len(written)))
	return nil
}
