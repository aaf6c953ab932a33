package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/lintang-b-s/vrpdatasetgen/pkg/geo"
)

var ErrInvalidLine = errors.New("invalid line")

const hubCoordSection = "HUB_COORD_SECTION"

// ReadLocationFile reads a city csv of the data source. Sources without an id column number
// their cities from startID in file order.
func ReadLocationFile(path string, source DataSource, startID int64) ([]Location, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not read the location file %s: %w", path, err)
	}
	defer f.Close()

	locations, err := ReadLocations(f, source, startID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return locations, nil
}

// ReadLocations splits every line on ';'. Quotes have no meaning in the city files.
func ReadLocations(r io.Reader, source DataSource, startID int64) ([]Location, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	locations := make([]Location, 0, 3000)
	id := startID
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSuffix(sc.Text(), "\r")
		if text == "" {
			continue
		}
		tokens := strings.Split(text, ";")
		if len(tokens) != source.TokenCount() {
			return nil, fmt.Errorf("%w %d: %q does not have %d tokens (%d)", ErrInvalidLine, line,
				text, source.TokenCount(), len(tokens))
		}

		var err error
		var loc Location
		switch source {
		case Belgium:
			loc.ID = id
			id++
			loc.Name = tokens[4]
			loc.Coordinate, err = parseCoordinate(tokens[2], tokens[3])
		case USA:
			loc.ID = id
			id++
			loc.Name = tokens[0]
			loc.Coordinate, err = parseCoordinate(tokens[1], tokens[2])
		case UKTeams:
			loc.ID, err = strconv.ParseInt(strings.TrimSpace(tokens[5]), 10, 64)
			if err == nil {
				loc.Name = tokens[1] + " (" + tokens[0] + ")"
				loc.Coordinate, err = parseCoordinate(tokens[3], tokens[4])
			}
		default:
			return nil, fmt.Errorf("unsupported data source %v", source)
		}
		if err != nil {
			return nil, fmt.Errorf("%w %d: %w", ErrInvalidLine, line, err)
		}
		locations = append(locations, loc)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return locations, nil
}

// ReadHubFile reads "id lat lon name" lines. Hubs are renumbered 0..h-1 in file order.
func ReadHubFile(path string) ([]Location, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not read the hub file %s: %w", path, err)
	}
	defer f.Close()

	hubs, err := ReadHubs(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return hubs, nil
}

func ReadHubs(r io.Reader) ([]Location, error) {
	sc := bufio.NewScanner(r)
	hubs := make([]Location, 0, 3000)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if lineNo == 1 && strings.TrimSpace(line) == hubCoordSection {
			continue
		}
		tokens := strings.Split(line, " ")
		if len(tokens) != 4 {
			return nil, fmt.Errorf("%w %d: %q does not have 4 tokens (%d)", ErrInvalidLine, lineNo, line, len(tokens))
		}
		coord, err := parseCoordinate(tokens[1], tokens[2])
		if err != nil {
			return nil, fmt.Errorf("%w %d: %w", ErrInvalidLine, lineNo, err)
		}
		hubs = append(hubs, Location{ID: int64(len(hubs)), Name: tokens[3], Coordinate: coord})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return hubs, nil
}

func parseCoordinate(lat, lon string) (geo.Coordinate, error) {
	la, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("latitude: %w", err)
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(lon), 64)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("longitude: %w", err)
	}
	return geo.NewCoordinate(la, lo), nil
}
