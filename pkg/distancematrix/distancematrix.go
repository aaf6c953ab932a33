// Package distancematrix fills road distance and time matrices of a tsp tour from the
// Google Maps distance matrix API, one origin per request.
package distancematrix

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/lintang-b-s/vrpdatasetgen/pkg/geo"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/tsplib"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/util"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"googlemaps.github.io/maps"
)

var (
	ErrNoAPIKey         = errors.New("google api key is not configured")
	ErrUnexpectedMatrix = errors.New("unexpected distance matrix shape")
)

const (
	statusOK = "OK"
	unknown  = "?"
)

// MatrixAPI is the part of *maps.Client the generator calls.
type MatrixAPI interface {
	DistanceMatrix(ctx context.Context, r *maps.DistanceMatrixRequest) (*maps.DistanceMatrixResponse, error)
}

// NewMapsClient builds the Google Maps client. The key only ever comes from configuration.
func NewMapsClient(apiKey string) (*maps.Client, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	return maps.NewClient(maps.WithAPIKey(apiKey))
}

type Generator struct {
	api     MatrixAPI
	limiter *rate.Limiter
	log     *zap.Logger
}

// NewGenerator paces requests to one per interval.
func NewGenerator(api MatrixAPI, interval time.Duration, log *zap.Logger) *Generator {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Generator{
		api:     api,
		limiter: rate.NewLimiter(limit, 1),
		log:     log,
	}
}

func latLng(c geo.Coordinate) string {
	return util.FormatDouble(c.Lat) + "," + util.FormatDouble(c.Lon)
}

// Matrices holds one row per origin. Values are meters and seconds, "0" on the diagonal
// and "?" for pairs the api could not route.
type Matrices struct {
	Distances [][]string
	Times     [][]string
}

// row requests the distances from coords[i] to every other location.
func (g *Generator) row(ctx context.Context, coords []geo.Coordinate, i int) ([]string, []string, error) {
	n := len(coords)
	destinations := make([]string, 0, n-1)
	for j, c := range coords {
		if i != j {
			destinations = append(destinations, latLng(c))
		}
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return nil, nil, err
	}
	resp, err := g.api.DistanceMatrix(ctx, &maps.DistanceMatrixRequest{
		Origins:      []string{latLng(coords[i])},
		Destinations: destinations,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("distance matrix request for origin %d failed: %w", i, err)
	}
	if len(resp.Rows) != 1 {
		return nil, nil, fmt.Errorf("%w: %d rows instead of 1", ErrUnexpectedMatrix, len(resp.Rows))
	}
	elements := resp.Rows[0].Elements
	if len(elements) != n-1 {
		return nil, nil, fmt.Errorf("%w: %d elements instead of %d", ErrUnexpectedMatrix, len(elements), n-1)
	}

	distances := make([]string, n)
	times := make([]string, n)
	for j := 0; j < n; j++ {
		if i == j {
			distances[j], times[j] = "0", "0"
			continue
		}
		k := j
		if j > i {
			k = j - 1
		}
		el := elements[k]
		if el == nil || el.Status != statusOK {
			distances[j], times[j] = unknown, unknown
			continue
		}
		distances[j] = strconv.Itoa(el.Distance.Meters)
		times[j] = strconv.FormatInt(int64(el.Duration/time.Second), 10)
	}
	return distances, times, nil
}

// Fetch requests every row in origin order.
func (g *Generator) Fetch(ctx context.Context, coords []geo.Coordinate) (*Matrices, error) {
	m := &Matrices{
		Distances: make([][]string, 0, len(coords)),
		Times:     make([][]string, 0, len(coords)),
	}
	if len(coords) < 2 {
		return nil, fmt.Errorf("%w: %d locations", ErrUnexpectedMatrix, len(coords))
	}
	for i := range coords {
		distances, times, err := g.row(ctx, coords, i)
		if err != nil {
			return nil, err
		}
		m.Distances = append(m.Distances, distances)
		m.Times = append(m.Times, times)
		g.log.Info("Written row", zap.Int("origin", i))
	}
	return m, nil
}

// WriteMatrix writes one space separated line per row.
func WriteMatrix(w io.Writer, rows [][]string) error {
	bw := bufio.NewWriter(w)
	for _, row := range rows {
		for j, v := range row {
			if j != 0 {
				bw.WriteByte(' ')
			}
			bw.WriteString(v)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// Generate reads the cities of tspFile and writes the meters matrix to distanceFile and
// the seconds matrix to timeFile.
func (g *Generator) Generate(ctx context.Context, tspFile, distanceFile, timeFile string) error {
	tour, err := tsplib.ReadTourFile(tspFile)
	if err != nil {
		return err
	}
	coords := make([]geo.Coordinate, len(tour.Cities))
	for i, c := range tour.Cities {
		coords[i] = c.Coordinate
	}

	m, err := g.Fetch(ctx, coords)
	if err != nil {
		return err
	}
	if err := writeFile(distanceFile, m.Distances); err != nil {
		return err
	}
	return writeFile(timeFile, m.Times)
}

func writeFile(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not write %s: %w", path, err)
	}
	if err := WriteMatrix(f, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
