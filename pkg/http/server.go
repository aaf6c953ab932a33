package http

import (
	"context"

	http_router "github.com/lintang-b-s/vrpdatasetgen/pkg/http/router"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/http/router/controllers"
	http_server "github.com/lintang-b-s/vrpdatasetgen/pkg/http/server"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Server struct {
	Log *zap.Logger
	g   *errgroup.Group
}

func NewServer(log *zap.Logger) *Server {
	return &Server{Log: log}
}

// Use starts the api in the background.
func (s *Server) Use(
	ctx context.Context,
	useRateLimit bool,
	routingService controllers.RoutingService,
) (*Server, error) {
	config := http_server.Config{
		Port:    viper.GetInt("api_port"),
		Timeout: viper.GetDuration("api_timeout"),
	}

	api := http_router.NewAPI(s.Log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return api.Run(gctx, config, useRateLimit, routingService)
	})
	s.g = g

	return s, nil
}

// Wait blocks until the api stops. It returns the listen error when the api could not
// start and nil once ctx is canceled.
func (s *Server) Wait() error {
	if s.g == nil {
		return nil
	}
	return s.g.Wait()
}
