// Package routingclient queries a routing engine served by another vrpgen process.
package routingclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lintang-b-s/vrpdatasetgen/pkg/engine/routing"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/geo"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/util"
)

// Client implements routing.Router over GET /api/route.
type Client struct {
	endpoint string
	client   *http.Client
}

func New(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type routeResponse struct {
	Data struct {
		Distance float64 `json:"distance"`
		Time     int64   `json:"time"`
		Points   string  `json:"points"`
	} `json:"data"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (c *Client) Route(ctx context.Context, from, to geo.Coordinate, weighting routing.Weighting) (*routing.RouteResult, error) {
	query := url.Values{}
	query.Set("from_lat", formatFloat(from.Lat))
	query.Set("from_lon", formatFloat(from.Lon))
	query.Set("to_lat", formatFloat(to.Lat))
	query.Set("to_lon", formatFloat(to.Lon))
	query.Set("weighting", weighting.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/api/route?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("route request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		var errResp errorResponse
		msg := strings.TrimSpace(string(body))
		if json.Unmarshal(body, &errResp) == nil && errResp.Error.Message != "" {
			msg = errResp.Error.Message
		}
		switch resp.StatusCode {
		case http.StatusNotFound:
			return nil, util.WrapErrorf(routing.ErrPathNotFound, util.ErrNotFound, "%s", msg)
		case http.StatusBadRequest:
			return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "%s", msg)
		}
		return nil, fmt.Errorf("routing engine returned status %d: %s", resp.StatusCode, msg)
	}

	var result routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	points, err := geo.CoordsFromPolyline(result.Data.Points)
	if err != nil {
		return nil, fmt.Errorf("failed to decode points: %w", err)
	}
	return &routing.RouteResult{
		DistanceMeters: result.Data.Distance,
		TimeMillis:     result.Data.Time,
		Points:         points,
	}, nil
}
