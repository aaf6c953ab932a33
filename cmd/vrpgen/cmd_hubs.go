package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/lintang-b-s/vrpdatasetgen/pkg/dataset"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/hub"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var hubFlags struct {
	locationFile string
	output       string
	locations    int
}

var suggestHubsCmd = &cobra.Command{
	Use:   "suggest-hubs",
	Short: "Suggest hubs for segmented road distance instances",
	Long: `Route every pair of a spread subset of the Belgium cities and write the road
points passed by more than twice as many pairs as there are cities.`,
	RunE: runSuggestHubs,
}

func init() {
	f := suggestHubsCmd.Flags()
	f.StringVar(&hubFlags.locationFile, "locations", "", "city csv, <raw_dir>/belgium-cities.csv when empty")
	f.StringVar(&hubFlags.output, "output", "", "hub file, <raw_dir>/belgium-hubs.txt when empty")
	f.IntVarP(&hubFlags.locations, "size", "n", 100, "number of cities to route between")
}

func runSuggestHubs(cmd *cobra.Command, args []string) error {
	rawDir := viper.GetString("raw_dir")
	locationFile := hubFlags.locationFile
	if locationFile == "" {
		locationFile = filepath.Join(rawDir, "belgium-cities.csv")
	}
	output := hubFlags.output
	if output == "" {
		output = filepath.Join(rawDir, "belgium-hubs.txt")
	}

	all, err := dataset.ReadLocationFile(locationFile, dataset.Belgium, 0)
	if err != nil {
		return err
	}
	log.Sugar().Infof("Read %d cities.", len(all))

	ctx, cancel := signalContext()
	defer cancel()
	router, cleanup, err := newRouter(ctx, dataset.Belgium)
	if err != nil {
		return err
	}
	defer cleanup()

	suggester := hub.NewSuggester(router, viper.GetInt("workers"), log)
	suggestions, err := suggester.Suggest(ctx, all, hubFlags.locations)
	if err != nil {
		return err
	}

	log.Info("Writing hubs...")
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("could not write the hub file %s: %w", output, err)
	}
	written, err := hub.WriteHubs(f, suggestions, hubFlags.locations)
	if err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Info("hubs written", zap.String("file", output), zap.Int("hubs", written),
		zap.Int("candidates", len(suggestions)))
	return nil
}
