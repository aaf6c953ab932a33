package routingclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lintang-b-s/vrpdatasetgen/pkg/engine/routing"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/engine/routing/routingtest"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/geo"
	http_router "github.com/lintang-b-s/vrpdatasetgen/pkg/http/router"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/http/usecases"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newServer(t *testing.T, engine usecases.RoutingEngine) *httptest.Server {
	t.Helper()
	handler := http_router.NewAPI(zap.NewNop()).Handler(false, usecases.NewRoutingService(zap.NewNop(), engine))
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestRoute(t *testing.T) {
	srv := newServer(t, &routingtest.StraightRouter{})
	client := New(srv.URL+"/", 5*time.Second)

	from := geo.NewCoordinate(50.85, 4.35)
	to := geo.NewCoordinate(51.05, 3.72)
	route, err := client.Route(context.Background(), from, to, routing.Fastest)
	require.NoError(t, err)

	want, err := (&routingtest.StraightRouter{}).Route(context.Background(), from, to, routing.Fastest)
	require.NoError(t, err)
	assert.InDelta(t, want.DistanceMeters, route.DistanceMeters, 1e-6)
	assert.Equal(t, want.TimeMillis, route.TimeMillis)
	require.Len(t, route.Points, 2)
	assert.InDelta(t, from.Lat, route.Points[0].Lat, 1e-7)
	assert.InDelta(t, from.Lon, route.Points[0].Lon, 1e-7)
	assert.InDelta(t, to.Lat, route.Points[1].Lat, 1e-7)
	assert.InDelta(t, to.Lon, route.Points[1].Lon, 1e-7)
}

func TestRouteErrors(t *testing.T) {
	from := geo.NewCoordinate(50.85, 4.35)
	to := geo.NewCoordinate(51.05, 3.72)

	notFound := util.WrapErrorf(routing.ErrPathNotFound, util.ErrNotFound, "no route")
	srv := newServer(t, routingtest.ErrorRouter{Err: notFound})
	_, err := New(srv.URL, time.Second).Route(context.Background(), from, to, routing.Shortest)
	assert.ErrorIs(t, err, routing.ErrPathNotFound)
	assert.EqualError(t, err, "no route")

	_, err = New(srv.URL, time.Second).Route(context.Background(), geo.NewCoordinate(95, 4.35), to, routing.Shortest)
	var uerr *util.Error
	require.True(t, errors.As(err, &uerr))
	assert.Equal(t, util.ErrBadParamInput, uerr.Code())

	teapot := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "short and stout", http.StatusTeapot)
	}))
	defer teapot.Close()
	_, err = New(teapot.URL, time.Second).Route(context.Background(), from, to, routing.Shortest)
	assert.ErrorContains(t, err, "status 418: short and stout")
}
