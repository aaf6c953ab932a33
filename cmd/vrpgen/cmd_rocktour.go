package main

import (
	"github.com/lintang-b-s/vrpdatasetgen/pkg/dataset"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/rocktour"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rockTourFlags struct {
	source string
	input  string
	output string
}

var rockTourCmd = &cobra.Command{
	Use:   "rocktour",
	Short: "Fill the driving time sheet of the rock tour example",
	RunE:  runRockTour,
}

func init() {
	f := rockTourCmd.Flags()
	f.StringVar(&rockTourFlags.source, "source", "usa", "data source whose road graph is used")
	f.StringVar(&rockTourFlags.input, "input", "data/rocktour/xlsxDrivingTimeSheetInput.txt", "sheet input")
	f.StringVar(&rockTourFlags.output, "output", "data/rocktour/xlsxDrivingTimeSheetOutput.txt", "sheet output")
}

func runRockTour(cmd *cobra.Command, args []string) error {
	source, err := dataset.ParseDataSource(rockTourFlags.source)
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

	gen := rocktour.NewGenerator(router, viper.GetInt("workers"), log)
	return gen.Generate(ctx, rockTourFlags.input, rockTourFlags.output)
}
