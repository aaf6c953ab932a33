package dataset

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/lintang-b-s/vrpdatasetgen/pkg/engine/routing"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/engine/routing/routingtest"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGenerateDemands(t *testing.T) {
	locations := named("BRUSSEL", "A", "B")

	// (4 * 1 * 23) / (3 * 3) = 10
	demands, err := GenerateDemands(locations, 1, 1, 23, Basic)
	require.NoError(t, err)
	assert.Equal(t, []Demand{
		{ID: 0, Demand: 0, ReadyTime: minReadyTime, DueTime: maxDueTime},
		{ID: 1, Demand: 6},
		{ID: 2, Demand: 4},
	}, demands)

	_, err = GenerateDemands(locations, 1, 1, 1, Basic)
	assert.ErrorIs(t, err, ErrCapacityTooSmall)
}

func TestGenerateDemandsTimeWindowed(t *testing.T) {
	locations := named("BRUSSEL", "A", "B", "C", "D", "E", "F", "G")
	demands, err := GenerateDemands(locations, 2, 4, 100, TimeWindowed)
	require.NoError(t, err)

	again, err := GenerateDemands(locations, 2, 4, 100, TimeWindowed)
	require.NoError(t, err)
	assert.Equal(t, demands, again)

	for i, d := range demands {
		if i < 2 {
			assert.Equal(t, Demand{ID: int64(i), ReadyTime: 25200, DueTime: 68400}, d)
			continue
		}
		assert.GreaterOrEqual(t, d.Demand, 1)
		assert.GreaterOrEqual(t, d.ReadyTime, 25200)
		assert.LessOrEqual(t, d.DueTime, 68400)
		window := d.DueTime - d.ReadyTime
		assert.GreaterOrEqual(t, window, 4*3600)
		assert.LessOrEqual(t, window, 8*3600)
		assert.Zero(t, window%1800)
		assert.Zero(t, (d.ReadyTime-25200)%1800)
		assert.Equal(t, 300, d.ServiceDuration)
	}
}

func TestWriteVRPAir(t *testing.T) {
	inst := &Instance{
		Name:     "belgium-n2-k1",
		Comment:  Belgium.Comment("GraphHopper", false),
		VrpType:  Basic,
		Capacity: 125,
		Locations: []Location{
			{ID: 0, Name: "BRUSSEL", Coordinate: geo.NewCoordinate(50.85, 4.35)},
			{ID: 1, Name: "SINT GILLIS", Coordinate: geo.NewCoordinate(51.0, 4.0)},
		},
		Depots:  1,
		Demands: []Demand{{ID: 0, ReadyTime: minReadyTime, DueTime: maxDueTime}, {ID: 1, Demand: 7}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteVRP(&buf, inst))
	assert.Equal(t, `NAME: belgium-n2-k1
COMMENT: Generated for OptaPlanner Examples by Geoffrey De Smet.
TYPE: CVRP
DIMENSION: 2
EDGE_WEIGHT_TYPE: EUC_2D
CAPACITY: 125
NODE_COORD_SECTION
0 50.85 4.35 BRUSSEL
1 51.0 4.0 SINT_GILLIS
DEMAND_SECTION
0 0
1 7
DEPOT_SECTION
0
-1
EOF
`, buf.String())
}

func TestWriteVRPRoadTimeWindowed(t *testing.T) {
	inst := &Instance{
		Name:     "belgium-road-time-tw-n2-k1",
		Comment:  Belgium.Comment("GraphHopper", true),
		VrpType:  TimeWindowed,
		Capacity: 125,
		Unit:     "sec",
		Locations: []Location{
			{ID: 0, Coordinate: geo.NewCoordinate(50.5, 4.25)},
			{ID: 1, Coordinate: geo.NewCoordinate(50.75, 4.125)},
		},
		Depots: 1,
		Demands: []Demand{
			{ID: 0, ReadyTime: 25200, DueTime: 68400},
			{ID: 1, Demand: 3, ReadyTime: 30600, DueTime: 45000, ServiceDuration: 300},
		},
		Matrix: [][]float64{{0, 12.3456}, {11.0004, 0}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteVRP(&buf, inst))
	assert.Equal(t, `NAME: belgium-road-time-tw-n2-k1
COMMENT: Generated for OptaPlanner Examples with GraphHopper by Geoffrey De Smet.
TYPE: CVRPTW
DIMENSION: 2
EDGE_WEIGHT_TYPE: EXPLICIT
EDGE_WEIGHT_FORMAT: FULL_MATRIX
EDGE_WEIGHT_UNIT_OF_MEASUREMENT: sec
CAPACITY: 125
NODE_COORD_SECTION
0 50.5 4.25
1 50.75 4.125
EDGE_WEIGHT_SECTION
0.000 12.346
11.000 0.000
DEMAND_SECTION
0 0 25200 68400 0
1 3 30600 45000 300
DEPOT_SECTION
0
-1
EOF
`, buf.String())
}

func TestRoadMatrix(t *testing.T) {
	locations := []Location{
		{ID: 0, Coordinate: geo.NewCoordinate(0, 0)},
		{ID: 1, Coordinate: geo.NewCoordinate(0, 0.01)},
		{ID: 2, Coordinate: geo.NewCoordinate(0.01, 0)},
	}
	router := &routingtest.StraightRouter{}

	km, err := RoadMatrix(context.Background(), router, locations, RoadDistanceKm, 2, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, km, 3)
	for i := range km {
		assert.Zero(t, km[i][i])
	}
	want := geo.CalculateHaversineDistance(0, 0, 0, 0.01)
	assert.InDelta(t, want, km[0][1], 1e-9)
	assert.InDelta(t, km[0][1], km[1][0], 1e-9)
	assert.Equal(t, 6, router.Calls())

	sec, err := RoadMatrix(context.Background(), router, locations, RoadDistanceTime, 2, zap.NewNop())
	require.NoError(t, err)
	assert.InDelta(t, want*1000/routingtest.Speed, sec[0][1], 0.002)

	_, err = RoadMatrix(context.Background(), router, locations, AirDistance, 2, zap.NewNop())
	assert.ErrorIs(t, err, ErrAirDistance)
}

func TestRoadMatrixErrors(t *testing.T) {
	same := []Location{
		{ID: 0, Coordinate: geo.NewCoordinate(1, 1)},
		{ID: 1, Coordinate: geo.NewCoordinate(1, 1)},
	}
	_, err := RoadMatrix(context.Background(), &routingtest.StraightRouter{}, same, RoadDistanceKm, 1, zap.NewNop())
	assert.ErrorIs(t, err, ErrZeroDistance)

	// the first failing row stops the rows after it
	router := &routingtest.StraightRouter{}
	four := append(same, Location{ID: 2, Coordinate: geo.NewCoordinate(2, 2)}, Location{ID: 3, Coordinate: geo.NewCoordinate(3, 3)})
	_, err = RoadMatrix(context.Background(), router, four, RoadDistanceKm, 1, zap.NewNop())
	assert.ErrorIs(t, err, ErrZeroDistance)
	assert.Equal(t, 1, router.Calls())

	boom := errors.New("boom")
	_, err = RoadMatrix(context.Background(), routingtest.ErrorRouter{Err: boom}, named("A", "B"), RoadDistanceKm, 1, zap.NewNop())
	assert.ErrorIs(t, err, boom)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = MeasuredMatrix(ctx, &routingtest.StraightRouter{}, named("A", "B"), routing.Fastest,
		RoadDistanceKm.ExtractDistance, true, 1, zap.NewNop())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCheckAirDistances(t *testing.T) {
	locations := []Location{
		{ID: 0, Coordinate: geo.NewCoordinate(50, 4)},
		{ID: 1, Coordinate: geo.NewCoordinate(50.0001, 4)},
		{ID: 2, Coordinate: geo.NewCoordinate(51, 4)},
	}
	assert.Equal(t, 2, CheckAirDistances(locations, zap.NewNop()))
}
