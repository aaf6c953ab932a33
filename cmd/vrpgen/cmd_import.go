package main

import (
	"github.com/lintang-b-s/vrpdatasetgen/pkg/dataset"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/engine"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var importCmd = &cobra.Command{
	Use:   "import <source>",
	Short: "Import the openstreetmap extract of a data source into a road graph",
	Long: `Parse the osm.pbf extract configured under osm.<source> and write the road graph
to <graph_dir>/<source>.graph, replacing a previous import.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	source, err := dataset.ParseDataSource(args[0])
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	graph, err := engine.Import(ctx, graphPath(source), viper.GetString(source.OsmConfigKey()), log)
	if err != nil {
		return err
	}
	log.Info("graph imported", zap.String("source", source.String()),
		zap.Int("vertices", graph.NumberOfVertices()), zap.Int("edges", graph.NumberOfEdges()))
	return nil
}
