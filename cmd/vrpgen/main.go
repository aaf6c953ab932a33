package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lintang-b-s/vrpdatasetgen/pkg/logger"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var log *zap.Logger

var rootCmd = &cobra.Command{
	Use:   "vrpgen",
	Short: "Generate TSP and VRP benchmark datasets",
	Long: `vrpgen builds vehicle routing and traveling salesman instances from city lists.

Distances are air distances, road distances from a road graph built from an
openstreetmap extract, or hub segmented road distances.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := util.ReadConfig(); err != nil {
			return err
		}
		var err error
		log, err = logger.New()
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("data-dir", "data/vehiclerouting", "root of the generated instances")
	flags.String("raw-dir", "data/raw", "dir of the city lists and hub files")
	flags.String("graph-dir", "local/graph", "dir of the imported road graphs")
	flags.Int("workers", 8, "goroutines routing matrix rows")
	flags.Bool("create-dirs", false, "create missing output dirs")
	flags.String("engine-url", "", "route through a running vrpgen serve instead of a local graph")
	flags.Bool("debug", false, "debug logging")

	bind := map[string]string{
		"data_dir":    "data-dir",
		"raw_dir":     "raw-dir",
		"graph_dir":   "graph-dir",
		"workers":     "workers",
		"create_dirs": "create-dirs",
		"engine.url":  "engine-url",
		"log.debug":   "debug",
	}
	for key, flag := range bind {
		if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(importCmd, vrpCmd, suggestHubsCmd, tspRoadCmd, vrpToTspCmd, rockTourCmd, gmatrixCmd, serveCmd)
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
