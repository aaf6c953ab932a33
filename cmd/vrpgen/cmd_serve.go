package main

import (
	"github.com/lintang-b-s/vrpdatasetgen/pkg/dataset"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/http"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/http/usecases"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveFlags struct {
	rateLimit bool
}

var serveCmd = &cobra.Command{
	Use:   "serve <source>",
	Short: "Serve the road graph of a data source over http",
	Long: `Load (or import) the road graph of the source and answer
GET /api/route?from_lat=&from_lon=&to_lat=&to_lon=&weighting= on api_port.`,
	Args: cobra.ExactArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveFlags.rateLimit, "rate-limit", false, "limit requests per client to api_rate_limit per second")
}

func runServe(cmd *cobra.Command, args []string) error {
	source, err := dataset.ParseDataSource(args[0])
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	e, err := loadEngine(ctx, source)
	if err != nil {
		return err
	}

	api := http.NewServer(log)
	routingService := usecases.NewRoutingService(log, e.GetRoutingEngine())
	if _, err := api.Use(ctx, serveFlags.rateLimit, routingService); err != nil {
		return err
	}

	err = api.Wait()
	log.Info("Routing engine server stopped", zap.String("source", source.String()), zap.Error(err))
	return err
}
