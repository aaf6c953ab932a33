package osmparser

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/lintang-b-s/vrpdatasetgen/pkg/datastructure"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/geo"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"go.uber.org/zap"
)

type node struct {
	id    int64
	coord geo.Coordinate
}

type wayDirection struct {
	oneWay  bool
	forward bool
}

type edgeKey struct {
	from, to datastructure.Index
}

// OsmParser turns the car-accessible highways of an osm pbf extract into a routing graph.
type OsmParser struct {
	wayNodeMap      map[int64]NodeType
	acceptedNodeMap map[int64]geo.Coordinate
	barrierNodes    map[int64]bool
	nodeIDMap       map[int64]datastructure.Index
	vertexCoords    []geo.Coordinate
	edgeSet         map[edgeKey]struct{}
	edges           []datastructure.RawEdge
	maxNodeID       int64
	log             *zap.Logger
}

func NewOSMParser(log *zap.Logger) *OsmParser {
	return &OsmParser{
		wayNodeMap:      make(map[int64]NodeType),
		acceptedNodeMap: make(map[int64]geo.Coordinate),
		barrierNodes:    make(map[int64]bool),
		nodeIDMap:       make(map[int64]datastructure.Index),
		vertexCoords:    make([]geo.Coordinate, 0),
		edgeSet:         make(map[edgeKey]struct{}),
		edges:           make([]datastructure.RawEdge, 0),
		log:             log,
	}
}

func (p *OsmParser) Parse(ctx context.Context, mapFile string) (*datastructure.Graph, error) {
	f, err := os.Open(mapFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := osmpbf.New(ctx, f, runtime.GOMAXPROCS(0))
	scanner.SkipNodes = true
	scanner.SkipRelations = true

	countWays := 0
	for scanner.Scan() {
		way, ok := scanner.Object().(*osm.Way)
		if !ok {
			continue
		}
		if p.scanWay(way) {
			if (countWays+1)%50000 == 0 {
				p.log.Sugar().Infof("scanning openstreetmap ways: %d...", countWays+1)
			}
			countWays++
		}
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("scan %s: %w", mapFile, err)
	}
	scanner.Close()

	if _, err = f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	// second pass. pbf files store nodes before ways, so coordinates are known when a way is processed
	scanner = osmpbf.New(ctx, f, runtime.GOMAXPROCS(0))
	scanner.SkipRelations = true
	defer scanner.Close()

	countWays = 0
	countNodes := 0
	for scanner.Scan() {
		switch o := scanner.Object().(type) {
		case *osm.Node:
			if (countNodes+1)%500000 == 0 {
				p.log.Sugar().Infof("processing openstreetmap nodes: %d...", countNodes+1)
			}
			countNodes++
			p.addNode(o)
		case *osm.Way:
			if !acceptOsmWay(o) || len(o.Nodes) < 2 {
				continue
			}
			if (countWays+1)%100000 == 0 {
				p.log.Sugar().Infof("processing openstreetmap ways: %d...", countWays+1)
			}
			countWays++
			p.processWay(o)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", mapFile, err)
	}

	graph := p.BuildGraph()
	p.log.Sugar().Infof("number of vertices: %v", graph.NumberOfVertices())
	p.log.Sugar().Infof("number of edges: %v", graph.NumberOfEdges())
	return graph, nil
}

// scanWay marks the nodes of an accepted way. Nodes shared by several ways become junctions.
func (p *OsmParser) scanWay(way *osm.Way) bool {
	if len(way.Nodes) < 2 || !acceptOsmWay(way) {
		return false
	}
	for i, n := range way.Nodes {
		id := int64(n.ID)
		if _, ok := p.wayNodeMap[id]; !ok {
			if i == 0 || i == len(way.Nodes)-1 {
				p.wayNodeMap[id] = END_NODE
			} else {
				p.wayNodeMap[id] = BETWEEN_NODE
			}
		} else {
			p.wayNodeMap[id] = JUNCTION_NODE
		}
	}
	return true
}

func (p *OsmParser) addNode(n *osm.Node) {
	id := int64(n.ID)
	p.maxNodeID = max(p.maxNodeID, id)

	if _, ok := p.wayNodeMap[id]; !ok {
		return
	}
	p.acceptedNodeMap[id] = geo.NewCoordinate(roundCoordinate(n.Lat), roundCoordinate(n.Lon))

	barrierType := n.Tags.Find("barrier")
	if _, ok := acceptedBarrierType[barrierType]; ok && n.Tags.Find("access") == "no" {
		p.barrierNodes[id] = true
	}
}

// osm stores coordinates with 7 decimals. Rounding keeps route points byte-identical
// after a trip through text files and polylines.
func roundCoordinate(v float64) float64 {
	return math.Round(v*1e7) / 1e7
}

func (p *OsmParser) processWay(way *osm.Way) {
	direction := getWayDirection(way)
	speed := waySpeed(way)

	waySegment := []node{}
	for i, wayNode := range way.Nodes {
		coord, ok := p.acceptedNodeMap[int64(wayNode.ID)]
		if !ok {
			// node outside of the extract
			if len(waySegment) > 1 {
				p.processSegment(waySegment, speed, direction)
			}
			waySegment = []node{}
			continue
		}
		nodeData := node{id: int64(wayNode.ID), coord: coord}
		waySegment = append(waySegment, nodeData)

		if p.isJunctionNode(nodeData.id) && i > 0 && i < len(way.Nodes)-1 {
			p.processSegment(waySegment, speed, direction)
			waySegment = []node{nodeData}
		}
	}
	if len(waySegment) > 1 {
		p.processSegment(waySegment, speed, direction)
	}
}

func (p *OsmParser) processSegment(segment []node, speed float64, direction wayDirection) {
	if len(segment) == 2 && segment[0].id == segment[1].id {
		return
	} else if len(segment) > 2 && segment[0].id == segment[len(segment)-1].id {
		// closed loop, split so that both halves have distinct endpoints
		p.splitAtBarriers(segment[0:len(segment)-1], speed, direction)
		p.splitAtBarriers(segment[len(segment)-2:], speed, direction)
	} else {
		p.splitAtBarriers(segment, speed, direction)
	}
}

func (p *OsmParser) splitAtBarriers(segment []node, speed float64, direction wayDirection) {
	waySegment := []node{}
	for _, nodeData := range segment {
		if !p.barrierNodes[nodeData.id] {
			waySegment = append(waySegment, nodeData)
			continue
		}
		if len(waySegment) != 0 {
			waySegment = append(waySegment, nodeData)
			p.addEdge(waySegment, speed, direction)
		}
		// same coordinate, fresh id: the edges on both sides of the barrier stay disconnected
		waySegment = []node{p.copyNode(nodeData)}
	}
	if len(waySegment) > 1 {
		p.addEdge(waySegment, speed, direction)
	}
}

func (p *OsmParser) copyNode(nodeData node) node {
	p.maxNodeID++
	p.acceptedNodeMap[p.maxNodeID] = nodeData.coord
	return node{id: p.maxNodeID, coord: nodeData.coord}
}

func (p *OsmParser) vertexID(n node) datastructure.Index {
	if id, ok := p.nodeIDMap[n.id]; ok {
		return id
	}
	id := datastructure.Index(len(p.vertexCoords))
	p.nodeIDMap[n.id] = id
	p.vertexCoords = append(p.vertexCoords, n.coord)
	return id
}

func (p *OsmParser) addEdge(segment []node, speed float64, direction wayDirection) {
	from := segment[0]
	to := segment[len(segment)-1]
	if from.id == to.id {
		return
	}

	points := make([]geo.Coordinate, 0, len(segment))
	distance := 0.0
	for i := 0; i < len(segment); i++ {
		points = append(points, segment[i].coord)
		if i > 0 {
			distance += geo.CalculateHaversineDistance(segment[i-1].coord.Lat, segment[i-1].coord.Lon,
				segment[i].coord.Lat, segment[i].coord.Lon)
		}
	}

	distanceInMeter := distance * 1000
	travelTime := distanceInMeter / (speed / 3.6) // seconds

	fromID := p.vertexID(from)
	toID := p.vertexID(to)

	if !direction.oneWay || direction.forward {
		p.appendEdge(fromID, toID, distanceInMeter, travelTime, points)
	}
	if !direction.oneWay || !direction.forward {
		reversed := make([]geo.Coordinate, len(points))
		for i := range points {
			reversed[i] = points[len(points)-1-i]
		}
		p.appendEdge(toID, fromID, distanceInMeter, travelTime, reversed)
	}
}

// appendEdge keeps the first of parallel edges between two vertices.
func (p *OsmParser) appendEdge(from, to datastructure.Index, dist, travelTime float64, points []geo.Coordinate) {
	key := edgeKey{from: from, to: to}
	if _, ok := p.edgeSet[key]; ok {
		return
	}
	p.edgeSet[key] = struct{}{}
	p.edges = append(p.edges, datastructure.RawEdge{
		From:       from,
		To:         to,
		Dist:       dist,
		TravelTime: travelTime,
		Points:     points,
	})
}

func (p *OsmParser) BuildGraph() *datastructure.Graph {
	return datastructure.NewGraph(p.vertexCoords, p.edges)
}

func (p *OsmParser) isJunctionNode(nodeID int64) bool {
	return p.wayNodeMap[nodeID] == JUNCTION_NODE
}

func acceptOsmWay(way *osm.Way) bool {
	highway := way.Tags.Find("highway")
	if highway != "" {
		_, ok := acceptedHighway[highway]
		return ok && way.Tags.Find("access") != "no" && way.Tags.Find("motor_vehicle") != "no"
	}
	return way.Tags.Find("junction") != ""
}

func isRestricted(value string) bool {
	return value == "no" || value == "restricted"
}

func getWayDirection(way *osm.Way) wayDirection {
	vehicleForward := isRestricted(way.Tags.Find("vehicle:forward"))
	motorVehicleForward := isRestricted(way.Tags.Find("motor_vehicle:forward"))
	vehicleBackward := isRestricted(way.Tags.Find("vehicle:backward"))
	motorVehicleBackward := isRestricted(way.Tags.Find("motor_vehicle:backward"))

	oneway := way.Tags.Find("oneway")
	junction := way.Tags.Find("junction")
	highway := way.Tags.Find("highway")

	d := wayDirection{forward: true}
	switch {
	case oneway == "yes" || oneway == "true" || oneway == "1" || oneway == "-1":
		d.oneWay = true
	case oneway == "no":
	case junction == "roundabout" || junction == "circular" || highway == "motorway":
		d.oneWay = true
	}
	if vehicleForward || motorVehicleForward || vehicleBackward || motorVehicleBackward {
		d.oneWay = true
	}

	if oneway == "-1" || vehicleForward || motorVehicleForward {
		// restricted/not allowed forward
		d.forward = false
	}
	return d
}

// waySpeed in km/h, from the maxspeed tag when it parses, else from the highway class.
func waySpeed(way *osm.Way) float64 {
	if speed, ok := parseMaxSpeed(way.Tags.Find("maxspeed")); ok {
		return speed
	}
	return roadTypeSpeed(way.Tags.Find("highway"))
}

func parseMaxSpeed(value string) (float64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}

	factor := 1.0
	switch {
	case strings.HasSuffix(value, "mph"):
		factor = 1.60934
		value = strings.TrimSuffix(value, "mph")
	case strings.HasSuffix(value, "km/h"):
		value = strings.TrimSuffix(value, "km/h")
	case strings.HasSuffix(value, "knots"):
		factor = 1.852
		value = strings.TrimSuffix(value, "knots")
	}

	speed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || speed <= 0 {
		// "none", "walk", "BE:urban" and friends
		return 0, false
	}
	return speed * factor, true
}
