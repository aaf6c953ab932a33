package routecache

import (
	"context"
	"strconv"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/engine/routing"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/geo"
	"go.uber.org/zap"
)

// CachedRouter memoizes another router in memory and, when a store is given, on disk.
type CachedRouter struct {
	next   routing.Router
	cache  *lru.Cache[string, *routing.RouteResult]
	store  *PebbleStore
	log    *zap.Logger
	hits   atomic.Int64
	misses atomic.Int64
}

func New(next routing.Router, size int, store *PebbleStore, log *zap.Logger) (*CachedRouter, error) {
	cache, err := lru.New[string, *routing.RouteResult](size)
	if err != nil {
		return nil, err
	}
	return &CachedRouter{next: next, cache: cache, store: store, log: log}, nil
}

func routeKey(from, to geo.Coordinate, weighting routing.Weighting) string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	return weighting.String() + "|" + f(from.Lat) + "," + f(from.Lon) + "|" + f(to.Lat) + "," + f(to.Lon)
}

func (c *CachedRouter) Route(ctx context.Context, from, to geo.Coordinate, weighting routing.Weighting) (*routing.RouteResult, error) {
	key := routeKey(from, to, weighting)
	if route, ok := c.cache.Get(key); ok {
		c.hits.Add(1)
		return route, nil
	}

	if c.store != nil {
		route, ok, err := c.store.Get(key)
		if err != nil {
			c.log.Warn("route store read failed", zap.String("key", key), zap.Error(err))
		} else if ok {
			c.hits.Add(1)
			c.cache.Add(key, route)
			return route, nil
		}
	}

	c.misses.Add(1)
	route, err := c.next.Route(ctx, from, to, weighting)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, route)
	if c.store != nil {
		if err := c.store.Put(key, route); err != nil {
			c.log.Warn("route store write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return route, nil
}

// Stats returns cache hits and misses so far.
func (c *CachedRouter) Stats() (int64, int64) {
	return c.hits.Load(), c.misses.Load()
}
