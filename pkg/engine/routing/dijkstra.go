package routing

import (
	"context"

	da "github.com/lintang-b-s/vrpdatasetgen/pkg/datastructure"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/geo"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/spatialindex"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/util"
)

type vertexInfo struct {
	rank       float64
	parentEdge da.Index
	// index into the source snaps when parentEdge is only partially travelled, else -1
	sourceSnap int
	node       *da.PriorityQueueNode[da.Index]
	settled    bool
}

// Dijkstra is a single point to point query between two snapped positions.
// Labels live in a map, so a query only pays for the vertices it touches.
type Dijkstra struct {
	graph     *da.Graph
	weighting Weighting
	sources   []spatialindex.Snap
	targets   []spatialindex.Snap

	info map[da.Index]*vertexInfo
	pq   *da.MinHeap[da.Index]

	numSettledNodes int
}

func NewDijkstra(graph *da.Graph, weighting Weighting, sources, targets []spatialindex.Snap) *Dijkstra {
	return &Dijkstra{
		graph:     graph,
		weighting: weighting,
		sources:   sources,
		targets:   targets,
		info:      make(map[da.Index]*vertexInfo),
		pq:        da.NewFourAryHeap[da.Index](),
	}
}

func (d *Dijkstra) edgeWeight(e *da.OutEdge) float64 {
	if d.weighting == Fastest {
		return e.GetTravelTime()
	}
	return e.GetDist()
}

type candidate struct {
	rank float64
	// vertex the target edge leaves from, INVALID_VERTEX_ID for a route inside a single edge
	via        da.Index
	sourceSnap int
	targetSnap int
}

// ShortestPath runs the query. ok is false when no target is reachable.
func (d *Dijkstra) ShortestPath(ctx context.Context) (*RouteResult, bool, error) {
	best := candidate{rank: da.INF_WEIGHT, via: da.INVALID_VERTEX_ID}

	// both ends on the same edge, source before target
	for i, s := range d.sources {
		for j, t := range d.targets {
			if s.EdgeID != t.EdgeID || s.Fraction > t.Fraction {
				continue
			}
			rank := (t.Fraction - s.Fraction) * d.edgeWeight(d.graph.GetOutEdge(s.EdgeID))
			if rank < best.rank {
				best = candidate{rank: rank, via: da.INVALID_VERTEX_ID, sourceSnap: i, targetSnap: j}
			}
		}
	}

	targetsByTail := make(map[da.Index][]int, len(d.targets))
	for j, t := range d.targets {
		tail := d.graph.GetEdgeTail(t.EdgeID)
		targetsByTail[tail] = append(targetsByTail[tail], j)
	}

	for i, s := range d.sources {
		e := d.graph.GetOutEdge(s.EdgeID)
		d.relax(e.GetHead(), (1-s.Fraction)*d.edgeWeight(e), s.EdgeID, i)
	}

	for !d.pq.IsEmpty() {
		if d.numSettledNodes%4096 == 0 && util.StopConcurrentOperation(ctx) {
			return nil, false, ctx.Err()
		}
		if d.pq.GetMinrank() >= best.rank {
			break
		}

		queryKey, _ := d.pq.ExtractMin()
		uId := queryKey.GetItem()
		uInfo := d.info[uId]
		uInfo.settled = true
		d.numSettledNodes++

		for _, j := range targetsByTail[uId] {
			t := d.targets[j]
			rank := uInfo.rank + t.Fraction*d.edgeWeight(d.graph.GetOutEdge(t.EdgeID))
			if rank < best.rank {
				best = candidate{rank: rank, via: uId, targetSnap: j}
			}
		}

		d.graph.ForOutEdgesOf(uId, func(e *da.OutEdge, edgeID da.Index) {
			d.relax(e.GetHead(), uInfo.rank+d.edgeWeight(e), edgeID, -1)
		})
	}

	if best.rank >= da.INF_WEIGHT {
		return nil, false, nil
	}
	return d.buildRoute(best), true, nil
}

func (d *Dijkstra) relax(v da.Index, rank float64, edgeID da.Index, sourceSnap int) {
	vInfo, ok := d.info[v]
	if !ok {
		node := da.NewPriorityQueueNode(rank, v)
		d.info[v] = &vertexInfo{rank: rank, parentEdge: edgeID, sourceSnap: sourceSnap, node: node}
		d.pq.Insert(node)
		return
	}
	if vInfo.settled || rank >= vInfo.rank {
		return
	}
	vInfo.rank = rank
	vInfo.parentEdge = edgeID
	vInfo.sourceSnap = sourceSnap
	_ = d.pq.DecreaseKey(vInfo.node, rank)
}

func (d *Dijkstra) buildRoute(best candidate) *RouteResult {
	target := d.targets[best.targetSnap]
	targetEdge := d.graph.GetOutEdge(target.EdgeID)

	if best.via == da.INVALID_VERTEX_ID {
		source := d.sources[best.sourceSnap]
		share := target.Fraction - source.Fraction
		geometry := d.graph.GetEdgeGeometry(source.EdgeID)

		points := []geo.Coordinate{source.Point}
		if source.Segment < target.Segment {
			points = append(points, geometry[source.Segment+1:target.Segment+1]...)
		}
		points = append(points, target.Point)
		return newRouteResult(share*targetEdge.GetDist(), share*targetEdge.GetTravelTime(), points)
	}

	// walk back from the vertex the target edge leaves from
	edges := make([]da.Index, 0)
	sourceSnap := -1
	for v := best.via; ; {
		vInfo := d.info[v]
		edges = append(edges, vInfo.parentEdge)
		if vInfo.sourceSnap >= 0 {
			sourceSnap = vInfo.sourceSnap
			break
		}
		v = d.graph.GetEdgeTail(vInfo.parentEdge)
	}
	edges = util.ReverseG(edges)

	source := d.sources[sourceSnap]
	sourceEdge := d.graph.GetOutEdge(source.EdgeID)
	dist := (1 - source.Fraction) * sourceEdge.GetDist()
	travelTime := (1 - source.Fraction) * sourceEdge.GetTravelTime()

	points := []geo.Coordinate{source.Point}
	points = append(points, d.graph.GetEdgeGeometry(source.EdgeID)[source.Segment+1:]...)

	for _, edgeID := range edges[1:] {
		e := d.graph.GetOutEdge(edgeID)
		dist += e.GetDist()
		travelTime += e.GetTravelTime()
		points = append(points, d.graph.GetEdgeGeometry(edgeID)[1:]...)
	}

	dist += target.Fraction * targetEdge.GetDist()
	travelTime += target.Fraction * targetEdge.GetTravelTime()
	points = append(points, d.graph.GetEdgeGeometry(target.EdgeID)[1:target.Segment+1]...)
	points = append(points, target.Point)

	return newRouteResult(dist, travelTime, points)
}

func newRouteResult(dist, travelTimeSeconds float64, points []geo.Coordinate) *RouteResult {
	deduped := make([]geo.Coordinate, 0, len(points))
	for i, p := range points {
		if i > 0 && p == deduped[len(deduped)-1] {
			continue
		}
		deduped = append(deduped, p)
	}
	return &RouteResult{
		DistanceMeters: dist,
		TimeMillis:     int64(travelTimeSeconds*1000 + 0.5),
		Points:         deduped,
	}
}
