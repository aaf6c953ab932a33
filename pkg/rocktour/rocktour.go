// Package rocktour fills the driving time sheet of the rock tour example.
package rocktour

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/lintang-b-s/vrpdatasetgen/pkg/concurrent"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/engine/routing"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/geo"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/util"
	"go.uber.org/zap"
)

var ErrInvalidInput = errors.New("invalid driving time sheet input")

const outputHeader = "Driving time in seconds. Delete this sheet to generate it from air distances."

var inputHeaders = []string{"Driving time", "Latitude", "Longitude"}

// ReadInput checks the three header lines and reads the "lat lon" lines after them.
func ReadInput(r io.Reader) ([]geo.Coordinate, error) {
	sc := bufio.NewScanner(r)
	for i, header := range inputHeaders {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return nil, err
			}
			return nil, fmt.Errorf("%w: missing line %d", ErrInvalidInput, i+1)
		}
		if !strings.Contains(sc.Text(), header) {
			return nil, fmt.Errorf("%w: line %d does not contain %q", ErrInvalidInput, i+1, header)
		}
	}

	coords := make([]geo.Coordinate, 0, 100)
	lineNo := len(inputHeaders)
	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 2 {
			return nil, fmt.Errorf("%w: line %d has no longitude", ErrInvalidInput, lineNo)
		}
		lat, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrInvalidInput, lineNo, err)
		}
		lon, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrInvalidInput, lineNo, err)
		}
		coords = append(coords, geo.NewCoordinate(lat, lon))
	}
	return coords, sc.Err()
}

type Generator struct {
	router  routing.Router
	workers int
	log     *zap.Logger
}

func NewGenerator(router routing.Router, workers int, log *zap.Logger) *Generator {
	return &Generator{router: router, workers: workers, log: log}
}

// DrivingTimes returns the fastest driving time in whole seconds between every pair.
func (g *Generator) DrivingTimes(ctx context.Context, coords []geo.Coordinate) ([][]int64, error) {
	ids := make([]int, len(coords))
	for i := range ids {
		ids[i] = i
	}
	return concurrent.MapCtx(ctx, g.workers, ids, func(ctx context.Context, i int) ([]int64, error) {
		seconds := make([]int64, len(coords))
		for j, to := range coords {
			from := coords[i]
			if from == to {
				continue
			}
			route, err := g.router.Route(ctx, from, to, routing.Fastest)
			if err != nil {
				return nil, fmt.Errorf("driving from (%v, %v) to (%v, %v): %w", from.Lat, from.Lon, to.Lat, to.Lon, err)
			}
			seconds[j] = route.TimeMillis / 1000
		}
		return seconds, nil
	})
}

// WriteSheet writes the tab separated sheet: the header, a latitude row, a longitude row
// and one row of driving times per origin.
func WriteSheet(w io.Writer, coords []geo.Coordinate, times [][]int64) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(outputHeader + "\n")
	bw.WriteString("Latitude\t")
	for _, c := range coords {
		bw.WriteString("\t" + util.FormatDouble(c.Lat))
	}
	bw.WriteString("\n")
	bw.WriteString("\tLongitude")
	for _, c := range coords {
		bw.WriteString("\t" + util.FormatDouble(c.Lon))
	}
	bw.WriteString("\n")
	for i, from := range coords {
		bw.WriteString(util.FormatDouble(from.Lat) + "\t" + util.FormatDouble(from.Lon))
		for _, s := range times[i] {
			bw.WriteString("\t" + strconv.FormatInt(s, 10))
		}
		bw.WriteString("\n")
	}
	return bw.Flush()
}

// Generate reads inputFile and writes the driving time sheet to outputFile.
func (g *Generator) Generate(ctx context.Context, inputFile, outputFile string) error {
	in, err := os.Open(inputFile)
	if err != nil {
		return fmt.Errorf("could not read the input file %s: %w", inputFile, err)
	}
	coords, err := ReadInput(in)
	in.Close()
	if err != nil {
		return fmt.Errorf("%s: %w", inputFile, err)
	}
	g.log.Info("read coordinates", zap.Int("count", len(coords)))

	times, err := g.DrivingTimes(ctx, coords)
	if err != nil {
		return err
	}

	out, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("could not write the output file %s: %w", outputFile, err)
	}
	if err := WriteSheet(out, coords, times); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
