package datastructure

import (
	"math"
	"sort"

	"github.com/lintang-b-s/vrpdatasetgen/pkg/geo"
)

type Index uint32

const (
	INVALID_VERTEX_ID Index = math.MaxUint32
	INVALID_EDGE_ID   Index = math.MaxUint32

	INF_WEIGHT float64 = 1e15
)

type Vertex struct {
	lat      float64
	lon      float64
	firstOut Index // index of the first outEdge of this vertex in the flattened graph.outEdges array
}

func (v *Vertex) GetLat() float64 {
	return v.lat
}

func (v *Vertex) GetLon() float64 {
	return v.lon
}

// OutEdge is a directed road segment. dist in meters, travelTime in seconds.
// geometry is points[pointsStart:pointsEnd] of the graph, tail and head included.
type OutEdge struct {
	head        Index
	dist        float64
	travelTime  float64
	pointsStart Index
	pointsEnd   Index
}

func (e *OutEdge) GetHead() Index {
	return e.head
}

func (e *OutEdge) GetDist() float64 {
	return e.dist
}

func (e *OutEdge) GetTravelTime() float64 {
	return e.travelTime
}

// RawEdge is an edge before the graph is laid out in compressed sparse row form.
type RawEdge struct {
	From       Index
	To         Index
	Dist       float64
	TravelTime float64
	Points     []geo.Coordinate
}

// Graph is a directed road graph stored as compressed sparse rows over the tail vertex.
type Graph struct {
	vertices []Vertex // len = n+1, last one is a sentinel
	outEdges []OutEdge
	points   []geo.Coordinate
}

// NewGraph lays out edges by tail vertex. Edge order within a tail follows the input order.
func NewGraph(coords []geo.Coordinate, edges []RawEdge) *Graph {
	sorted := make([]RawEdge, len(edges))
	copy(sorted, edges)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].From < sorted[j].From
	})

	g := &Graph{
		vertices: make([]Vertex, len(coords)+1),
		outEdges: make([]OutEdge, 0, len(sorted)),
		points:   make([]geo.Coordinate, 0, 2*len(sorted)),
	}

	for i, c := range coords {
		g.vertices[i] = Vertex{lat: c.Lat, lon: c.Lon}
	}

	e := 0
	for v := 0; v < len(coords); v++ {
		g.vertices[v].firstOut = Index(len(g.outEdges))
		for ; e < len(sorted) && int(sorted[e].From) == v; e++ {
			raw := sorted[e]
			points := raw.Points
			if len(points) < 2 {
				points = []geo.Coordinate{coords[raw.From], coords[raw.To]}
			}
			start := Index(len(g.points))
			g.points = append(g.points, points...)
			g.outEdges = append(g.outEdges, OutEdge{
				head:        raw.To,
				dist:        raw.Dist,
				travelTime:  raw.TravelTime,
				pointsStart: start,
				pointsEnd:   Index(len(g.points)),
			})
		}
	}
	g.vertices[len(coords)].firstOut = Index(len(g.outEdges))
	return g
}

func (g *Graph) NumberOfVertices() int {
	return len(g.vertices) - 1
}

func (g *Graph) NumberOfEdges() int {
	return len(g.outEdges)
}

func (g *Graph) GetVertexCoordinates(v Index) (float64, float64) {
	return g.vertices[v].lat, g.vertices[v].lon
}

func (g *Graph) GetOutEdge(e Index) *OutEdge {
	return &g.outEdges[e]
}

func (g *Graph) GetOutDegree(v Index) int {
	return int(g.vertices[v+1].firstOut - g.vertices[v].firstOut)
}

// ForOutEdgesOf calls handle for each out edge of u with its edge id.
func (g *Graph) ForOutEdgesOf(u Index, handle func(e *OutEdge, edgeID Index)) {
	for e := g.vertices[u].firstOut; e < g.vertices[u+1].firstOut; e++ {
		handle(&g.outEdges[e], e)
	}
}

// ForOutEdges iterates over every edge with its tail vertex.
func (g *Graph) ForOutEdges(handle func(e *OutEdge, edgeID, tail Index)) {
	for u := 0; u < g.NumberOfVertices(); u++ {
		g.ForOutEdgesOf(Index(u), func(e *OutEdge, edgeID Index) {
			handle(e, edgeID, Index(u))
		})
	}
}

// GetEdgeGeometry returns the polyline of an edge. The slice aliases graph storage.
func (g *Graph) GetEdgeGeometry(e Index) []geo.Coordinate {
	edge := g.outEdges[e]
	return g.points[edge.pointsStart:edge.pointsEnd]
}

// GetEdgeTail finds the tail of an edge with a binary search over firstOut.
func (g *Graph) GetEdgeTail(e Index) Index {
	n := g.NumberOfVertices()
	v := sort.Search(n, func(i int) bool {
		return g.vertices[i+1].firstOut > e
	})
	return Index(v)
}

func Eq(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func Lt(a, b float64) bool {
	return a < b && !Eq(a, b)
}

func Ge(a, b float64) bool {
	return !Lt(a, b)
}
