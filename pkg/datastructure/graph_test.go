package datastructure

import (
	"path/filepath"
	"testing"

	"github.com/lintang-b-s/vrpdatasetgen/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallGraph() *Graph {
	coords := []geo.Coordinate{
		geo.NewCoordinate(50.0, 4.0),
		geo.NewCoordinate(50.0, 4.01),
		geo.NewCoordinate(50.01, 4.01),
		geo.NewCoordinate(50.5, 4.5), // isolated
	}
	edges := []RawEdge{
		{From: 1, To: 2, Dist: 1112, TravelTime: 80},
		{From: 0, To: 1, Dist: 715, TravelTime: 50, Points: []geo.Coordinate{
			coords[0], geo.NewCoordinate(50.0001, 4.005), coords[1],
		}},
		{From: 1, To: 0, Dist: 715, TravelTime: 50},
	}
	return NewGraph(coords, edges)
}

func TestNewGraph(t *testing.T) {
	g := smallGraph()

	assert.Equal(t, 4, g.NumberOfVertices())
	assert.Equal(t, 3, g.NumberOfEdges())
	assert.Equal(t, 1, g.GetOutDegree(0))
	assert.Equal(t, 2, g.GetOutDegree(1))
	assert.Equal(t, 0, g.GetOutDegree(2))
	assert.Equal(t, 0, g.GetOutDegree(3))

	heads := []Index{}
	g.ForOutEdgesOf(1, func(e *OutEdge, edgeID Index) {
		heads = append(heads, e.GetHead())
		assert.Equal(t, Index(1), g.GetEdgeTail(edgeID))
	})
	// input order is kept within a tail
	assert.Equal(t, []Index{2, 0}, heads)

	assert.Len(t, g.GetEdgeGeometry(0), 3)
	assert.Len(t, g.GetEdgeGeometry(1), 2)
}

func TestGraphReadWrite(t *testing.T) {
	g := smallGraph()
	filename := filepath.Join(t.TempDir(), "test.graph")

	require.NoError(t, g.WriteGraph(filename))

	got, err := ReadGraph(filename)
	require.NoError(t, err)

	assert.Equal(t, g.vertices, got.vertices)
	assert.Equal(t, g.outEdges, got.outEdges)
	assert.Equal(t, g.points, got.points)
}

func TestReadGraphMissingFile(t *testing.T) {
	_, err := ReadGraph(filepath.Join(t.TempDir(), "missing.graph"))
	assert.Error(t, err)
}

func TestMinHeap(t *testing.T) {
	h := NewFourAryHeap[int]()
	nodes := map[int]*PriorityQueueNode[int]{}
	for i, rank := range []float64{5, 3, 8, 1, 9, 7} {
		nodes[i] = NewPriorityQueueNode(rank, i)
		h.Insert(nodes[i])
	}

	require.NoError(t, h.DecreaseKey(nodes[4], 0.5))
	assert.ErrorIs(t, h.DecreaseKey(nodes[2], 100), ErrInvalidHeapKey)

	order := []int{}
	for !h.IsEmpty() {
		n, err := h.ExtractMin()
		require.NoError(t, err)
		order = append(order, n.GetItem())
	}
	assert.Equal(t, []int{4, 3, 1, 0, 5, 2}, order)

	assert.ErrorIs(t, h.DecreaseKey(nodes[0], 0), ErrInvalidHeapKey)

	_, err := h.ExtractMin()
	assert.ErrorIs(t, err, ErrEmptyHeap)
}
