package main

import (
	"context"
	"path/filepath"

	"github.com/lintang-b-s/vrpdatasetgen/pkg/dataset"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/engine"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/engine/routing"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/routecache"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/routingclient"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func graphPath(source dataset.DataSource) string {
	return filepath.Join(viper.GetString("graph_dir"), source.DirName()+".graph")
}

// loadEngine imports the osm extract of the source on first use and loads the cached graph after that.
func loadEngine(ctx context.Context, source dataset.DataSource) (*engine.Engine, error) {
	return engine.NewEngine(ctx, graphPath(source), viper.GetString(source.OsmConfigKey()),
		viper.GetFloat64("engine.search_radius"), log)
}

// newRouter returns the router of the source, remote when engine.url is set, behind the route cache.
// The returned func releases the on disk cache.
func newRouter(ctx context.Context, source dataset.DataSource) (routing.Router, func(), error) {
	var next routing.Router
	if url := viper.GetString("engine.url"); url != "" {
		log.Info("routing through remote engine", zap.String("url", url))
		next = routingclient.New(url, viper.GetDuration("api_timeout"))
	} else {
		e, err := loadEngine(ctx, source)
		if err != nil {
			return nil, nil, err
		}
		next = e.GetRoutingEngine()
	}

	var store *routecache.PebbleStore
	if dir := viper.GetString("route_cache.dir"); dir != "" {
		var err error
		store, err = routecache.OpenPebbleStore(filepath.Join(dir, source.DirName()))
		if err != nil {
			return nil, nil, err
		}
	}
	cached, err := routecache.New(next, viper.GetInt("route_cache.size"), store, log)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, nil, err
	}

	cleanup := func() {
		hits, misses := cached.Stats()
		log.Info("route cache", zap.Int64("hits", hits), zap.Int64("misses", misses))
		if store != nil {
			if err := store.Close(); err != nil {
				log.Warn("closing route store", zap.Error(err))
			}
		}
	}
	return cached, cleanup, nil
}
