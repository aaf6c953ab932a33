package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lintang-b-s/vrpdatasetgen/pkg/engine/routing"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/geo"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/util"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRoutingService struct {
	err       error
	weighting routing.Weighting
	from, to  geo.Coordinate
}

func (f *fakeRoutingService) Route(ctx context.Context, fromLat, fromLon, toLat, toLon float64,
	weighting routing.Weighting) (*routing.RouteResult, string, error) {
	f.from = geo.NewCoordinate(fromLat, fromLon)
	f.to = geo.NewCoordinate(toLat, toLon)
	f.weighting = weighting
	if f.err != nil {
		return nil, "", f.err
	}
	return &routing.RouteResult{DistanceMeters: 1234.5, TimeMillis: 98765}, "_p~iF~ps|U", nil
}

type body struct {
	Data struct {
		Distance float64 `json:"distance"`
		Time     int64   `json:"time"`
		Points   string  `json:"points"`
	} `json:"data"`
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func serve(t *testing.T, h http.Handler, target string) (*httptest.ResponseRecorder, body) {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.RemoteAddr = "192.0.2.1:4321"
	h.ServeHTTP(rec, req)

	var b body
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
	}
	return rec, b
}

func TestRoute(t *testing.T) {
	svc := &fakeRoutingService{}
	h := NewAPI(zap.NewNop()).Handler(false, svc)

	rec, b := serve(t, h, "/api/route?from_lat=50.85&from_lon=4.35&to_lat=51.05&to_lon=3.72&weighting=fastest")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1234.5, b.Data.Distance)
	assert.Equal(t, int64(98765), b.Data.Time)
	assert.Equal(t, "_p~iF~ps|U", b.Data.Points)
	assert.Equal(t, routing.Fastest, svc.weighting)
	assert.Equal(t, geo.NewCoordinate(50.85, 4.35), svc.from)
	assert.Equal(t, geo.NewCoordinate(51.05, 3.72), svc.to)
	assert.Equal(t, "vrpdatasetgen-routing", rec.Header().Get("X-Service"))

	_, _ = serve(t, h, "/api/route?from_lat=50.85&from_lon=4.35&to_lat=51.05&to_lon=3.72")
	assert.Equal(t, routing.Shortest, svc.weighting)
}

func TestRouteBadRequest(t *testing.T) {
	h := NewAPI(zap.NewNop()).Handler(false, &fakeRoutingService{})

	tests := []struct {
		name   string
		target string
	}{
		{"missing param", "/api/route?from_lat=50.85&from_lon=4.35&to_lat=51.05"},
		{"not a number", "/api/route?from_lat=north&from_lon=4.35&to_lat=51.05&to_lon=3.72"},
		{"latitude out of range", "/api/route?from_lat=95&from_lon=4.35&to_lat=51.05&to_lon=3.72"},
		{"unknown weighting", "/api/route?from_lat=50.85&from_lon=4.35&to_lat=51.05&to_lon=3.72&weighting=walking"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, b := serve(t, h, tt.target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "BAD_REQUEST", b.Error.Code)
			assert.NotEmpty(t, b.Error.Message)
		})
	}
}

func TestRouteErrors(t *testing.T) {
	target := "/api/route?from_lat=50.85&from_lon=4.35&to_lat=51.05&to_lon=3.72"

	notFound := util.WrapErrorf(routing.ErrPathNotFound, util.ErrNotFound, "no route between the points")
	rec, b := serve(t, NewAPI(zap.NewNop()).Handler(false, &fakeRoutingService{err: notFound}), target)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", b.Error.Code)
	assert.Equal(t, "no route between the points", b.Error.Message)

	badPoint := util.WrapErrorf(nil, util.ErrBadParamInput, "point is too far from any road")
	rec, b = serve(t, NewAPI(zap.NewNop()).Handler(false, &fakeRoutingService{err: badPoint}), target)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "point is too far from any road", b.Error.Message)

	rec, b = serve(t, NewAPI(zap.NewNop()).Handler(false, &fakeRoutingService{err: context.DeadlineExceeded}), target)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, util.MessageInternalServerError, b.Error.Message)
}

func TestHeartbeatAndLimit(t *testing.T) {
	viper.Set("api_rate_limit", 1)
	t.Cleanup(func() { viper.Set("api_rate_limit", nil) })
	h := NewAPI(zap.NewNop()).Handler(true, &fakeRoutingService{})

	rec, _ := serve(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ".", rec.Body.String())

	target := "/api/route?from_lat=50.85&from_lon=4.35&to_lat=51.05&to_lon=3.72"
	rec, _ = serve(t, h, target)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = serve(t, h, target)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRealIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", realIP(req))

	req.Header.Set("X-Real-IP", "198.51.100.2")
	assert.Equal(t, "198.51.100.2", realIP(req))
}
