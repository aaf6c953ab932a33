// Package tsplib reads TSPLIB-like .tsp files and converts generated .vrp instances to .tsp.
package tsplib

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/lintang-b-s/vrpdatasetgen/pkg/dataset"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/geo"
)

var (
	ErrInvalidLine   = errors.New("invalid line")
	ErrMissingCities = errors.New("node coord section is shorter than the dimension")
)

// Tour is a parsed .tsp file. Its cities keep their file ids.
type Tour struct {
	Name           string
	Comment        string
	Type           string
	EdgeWeightType string
	Dimension      int
	Cities         []dataset.Location
}

func ReadTourFile(path string) (*Tour, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not read the tsp file %s: %w", path, err)
	}
	defer f.Close()

	tour, err := ReadTour(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tour, nil
}

// ReadTour reads the "KEY: value" headers up to NODE_COORD_SECTION and then DIMENSION
// "id lat lon [name]" lines.
func ReadTour(r io.Reader) (*Tour, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	tour := &Tour{}
	lineNo := 0

	inSection := false
	for !inSection && sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if line == "NODE_COORD_SECTION" {
			inSection = true
			break
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("%w %d: %q is not a header", ErrInvalidLine, lineNo, line)
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "NAME":
			tour.Name = value
		case "COMMENT":
			tour.Comment = value
		case "TYPE":
			tour.Type = value
		case "EDGE_WEIGHT_TYPE":
			tour.EdgeWeightType = value
		case "DIMENSION":
			dim, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("%w %d: dimension: %w", ErrInvalidLine, lineNo, err)
			}
			tour.Dimension = dim
		}
	}
	if !inSection {
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: no NODE_COORD_SECTION", ErrInvalidLine)
	}

	tour.Cities = make([]dataset.Location, 0, tour.Dimension)
	for len(tour.Cities) < tour.Dimension && sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) < 3 {
			return nil, fmt.Errorf("%w %d: %q does not have at least 3 tokens", ErrInvalidLine, lineNo, sc.Text())
		}
		id, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w %d: id: %w", ErrInvalidLine, lineNo, err)
		}
		lat, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w %d: latitude: %w", ErrInvalidLine, lineNo, err)
		}
		lon, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("%w %d: longitude: %w", ErrInvalidLine, lineNo, err)
		}
		city := dataset.Location{ID: id, Coordinate: geo.NewCoordinate(lat, lon)}
		if len(fields) > 3 {
			city.Name = strings.Join(fields[3:], " ")
		}
		tour.Cities = append(tour.Cities, city)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(tour.Cities) < tour.Dimension {
		return nil, fmt.Errorf("%w: %d of %d", ErrMissingCities, len(tour.Cities), tour.Dimension)
	}
	return tour, nil
}
