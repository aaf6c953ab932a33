package routecache

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/pebble"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/engine/routing"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/geo"
)

// PebbleStore keeps computed routes on disk, so a rerun of a generator after a crash
// or with another vrp type does not route the same pairs again.
type PebbleStore struct {
	db *pebble.DB
}

func OpenPebbleStore(dir string) (*PebbleStore, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open route store %s: %w", dir, err)
	}
	return &PebbleStore{db: db}, nil
}

func (s *PebbleStore) Get(key string) (*routing.RouteResult, bool, error) {
	value, closer, err := s.db.Get([]byte(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	defer closer.Close()

	route, err := decodeRoute(string(value))
	if err != nil {
		return nil, false, fmt.Errorf("route store key %s: %w", key, err)
	}
	return route, true, nil
}

func (s *PebbleStore) Put(key string, route *routing.RouteResult) error {
	return s.db.Set([]byte(key), []byte(encodeRoute(route)), pebble.NoSync)
}

func (s *PebbleStore) Close() error {
	if err := s.db.Flush(); err != nil {
		s.db.Close()
		return err
	}
	return s.db.Close()
}

// "<meters> <millis> <polyline>"
func encodeRoute(route *routing.RouteResult) string {
	return strconv.FormatFloat(route.DistanceMeters, 'g', -1, 64) + " " +
		strconv.FormatInt(route.TimeMillis, 10) + " " +
		geo.PolylineFromCoords(route.Points)
}

func decodeRoute(value string) (*routing.RouteResult, error) {
	tokens := strings.SplitN(value, " ", 3)
	if len(tokens) != 3 {
		return nil, fmt.Errorf("malformed route %q", value)
	}
	dist, err := strconv.ParseFloat(tokens[0], 64)
	if err != nil {
		return nil, err
	}
	millis, err := strconv.ParseInt(tokens[1], 10, 64)
	if err != nil {
		return nil, err
	}
	points, err := geo.CoordsFromPolyline(tokens[2])
	if err != nil {
		return nil, err
	}
	return &routing.RouteResult{DistanceMeters: dist, TimeMillis: millis, Points: points}, nil
}
