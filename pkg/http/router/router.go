package router

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/justinas/alice"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/http/router/controllers"
	router_helper "github.com/lintang-b-s/vrpdatasetgen/pkg/http/router/routerhelper"
	http_server "github.com/lintang-b-s/vrpdatasetgen/pkg/http/server"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

type API struct {
	log *zap.Logger
}

func NewAPI(log *zap.Logger) *API {
	return &API{log: log}
}

// Handler builds the middleware chain in front of the api routes.
func (api *API) Handler(useRateLimit bool, routingService controllers.RoutingService) http.Handler {
	router := httprouter.New()

	corsHandler := cors.New(cors.Options{ //nolint:gocritic // ignore
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, //nolint:mnd // ignore
	})

	group := router_helper.NewRouteGroup(router, "/api")
	routingRoutes := controllers.New(routingService, api.log)
	routingRoutes.Routes(group)

	mwChain := []alice.Constructor{corsHandler.Handler, EnforceJSONHandler, api.recoverPanic,
		RealIP, Heartbeat("healthz"), Logger(api.log), Labels}
	if useRateLimit {
		mwChain = append(mwChain, Limit)
	}
	return alice.New(mwChain...).Then(router)
}

// Run serves the api until ctx is canceled or the server fails.
func (api *API) Run(
	ctx context.Context,
	config http_server.Config,
	useRateLimit bool,
	routingService controllers.RoutingService,
) error {
	api.log.Info("Run httprouter API")

	srv := http_server.New(ctx, api.Handler(useRateLimit, routingService), config)
	api.log.Info(fmt.Sprintf("API run on port %d", config.Port))

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		api.log.Info("HTTP server stopped", zap.Error(err))
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		api.log.Info("Context canceled, shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	}
}
