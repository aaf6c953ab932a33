package datastructure

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/geo"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/util"
)

// WriteGraph stores the graph as bzip2 compressed text:
// a "vertices edges points" header, then one line per vertex, edge and geometry point.
func (g *Graph) WriteGraph(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	bz, err := bzip2.NewWriter(f, &bzip2.WriterConfig{})
	if err != nil {
		return err
	}

	w := bufio.NewWriter(bz)

	fmt.Fprintf(w, "%d %d %d\n", g.NumberOfVertices(), g.NumberOfEdges(), len(g.points))

	for vId := 0; vId < g.NumberOfVertices(); vId++ {
		v := g.vertices[vId]
		fmt.Fprintf(w, "%s %s\n", formatFloat(v.lat), formatFloat(v.lon))
	}

	g.ForOutEdges(func(e *OutEdge, edgeID, tail Index) {
		fmt.Fprintf(w, "%d %d %s %s %d %d\n",
			tail, e.head, formatFloat(e.dist), formatFloat(e.travelTime), e.pointsStart, e.pointsEnd)
	})

	for _, p := range g.points {
		fmt.Fprintf(w, "%s %s\n", formatFloat(p.Lat), formatFloat(p.Lon))
	}

	if err := w.Flush(); err != nil {
		return err
	}
	return bz.Close()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func fields(s string) []string {
	return strings.Fields(s)
}

func ParseIndex(s string) (Index, error) {
	u, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if u > math.MaxUint32 {
		return 0, fmt.Errorf("value %s overflows uint32", s)
	}
	return Index(u), nil
}

func ReadGraph(filename string) (*Graph, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	defer f.Close()

	bz, err := bzip2.NewReader(f, nil)
	if err != nil {
		return nil, err
	}
	defer bz.Close()

	br := bufio.NewReader(bz)

	line, err := util.ReadLine(br)
	if err != nil {
		return nil, err
	}

	tokens := fields(line)
	if len(tokens) != 3 {
		return nil, fmt.Errorf("graph header: expected 3 counts, got %q", line)
	}

	counts := make([]Index, 3)
	for i, tok := range tokens {
		counts[i], err = ParseIndex(tok)
		if err != nil {
			return nil, fmt.Errorf("graph header: %w", err)
		}
	}
	numVertices, numEdges, numPoints := int(counts[0]), int(counts[1]), int(counts[2])

	g := &Graph{
		vertices: make([]Vertex, numVertices+1),
		outEdges: make([]OutEdge, numEdges),
		points:   make([]geo.Coordinate, numPoints),
	}

	for i := 0; i < numVertices; i++ {
		c, err := readCoordinate(br)
		if err != nil {
			return nil, fmt.Errorf("vertex %d: %w", i, err)
		}
		g.vertices[i] = Vertex{lat: c.Lat, lon: c.Lon}
	}

	prevTail := -1
	for i := 0; i < numEdges; i++ {
		edgeLine, err := util.ReadLine(br)
		if err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}
		tail, e, err := parseOutEdge(edgeLine)
		if err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}
		if int(tail) < prevTail || int(tail) >= numVertices {
			return nil, fmt.Errorf("edge %d: tail %d out of order", i, tail)
		}
		for v := prevTail + 1; v <= int(tail); v++ {
			g.vertices[v].firstOut = Index(i)
		}
		prevTail = int(tail)
		g.outEdges[i] = e
	}
	for v := prevTail + 1; v <= numVertices; v++ {
		g.vertices[v].firstOut = Index(numEdges)
	}

	for i := 0; i < numPoints; i++ {
		g.points[i], err = readCoordinate(br)
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
	}

	return g, nil
}

func readCoordinate(br *bufio.Reader) (geo.Coordinate, error) {
	line, err := util.ReadLine(br)
	if err != nil {
		return geo.Coordinate{}, err
	}
	tokens := fields(line)
	if len(tokens) != 2 {
		return geo.Coordinate{}, fmt.Errorf("expected lat lon, got %q", line)
	}
	lat, err := strconv.ParseFloat(tokens[0], 64)
	if err != nil {
		return geo.Coordinate{}, err
	}
	lon, err := strconv.ParseFloat(tokens[1], 64)
	if err != nil {
		return geo.Coordinate{}, err
	}
	return geo.NewCoordinate(lat, lon), nil
}

func parseOutEdge(line string) (Index, OutEdge, error) {
	tokens := fields(line)
	if len(tokens) != 6 {
		return 0, OutEdge{}, fmt.Errorf("expected 6 fields, got %q", line)
	}
	tail, err := ParseIndex(tokens[0])
	if err != nil {
		return 0, OutEdge{}, err
	}
	head, err := ParseIndex(tokens[1])
	if err != nil {
		return 0, OutEdge{}, err
	}
	dist, err := strconv.ParseFloat(tokens[2], 64)
	if err != nil {
		return 0, OutEdge{}, err
	}
	travelTime, err := strconv.ParseFloat(tokens[3], 64)
	if err != nil {
		return 0, OutEdge{}, err
	}
	start, err := ParseIndex(tokens[4])
	if err != nil {
		return 0, OutEdge{}, err
	}
	end, err := ParseIndex(tokens[5])
	if err != nil {
		return 0, OutEdge{}, err
	}
	return tail, OutEdge{
		head:        head,
		dist:        dist,
		travelTime:  travelTime,
		pointsStart: start,
		pointsEnd:   end,
	}, nil
}
