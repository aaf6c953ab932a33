package hub

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lintang-b-s/vrpdatasetgen/pkg/concurrent"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/dataset"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/engine/routing"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/geo"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/util"
	"go.uber.org/zap"
)

// Suggestion is a road point and the number of location pairs whose route passes it.
type Suggestion struct {
	ID        int
	Point     geo.Coordinate
	PairCount int
}

type Suggester struct {
	router  routing.Router
	workers int
	log     *zap.Logger
}

func NewSuggester(router routing.Router, workers int, log *zap.Logger) *Suggester {
	return &Suggester{router: router, workers: workers, log: log}
}

// pairSet holds pair indexes in increasing order: pairs are added in row major order.
type pairSet struct {
	pairs []int
}

func (p *pairSet) add(pair int) {
	if n := len(p.pairs); n > 0 && p.pairs[n-1] == pair {
		return
	}
	p.pairs = append(p.pairs, pair)
}

func (p *pairSet) key() string {
	var sb strings.Builder
	for _, pair := range p.pairs {
		sb.WriteString(strconv.Itoa(pair))
		sb.WriteByte(',')
	}
	return sb.String()
}

// Suggest spreads n locations over the list, routes every ordered pair with the shortest
// weighting and returns one entry per distinct set of pairs sharing a road point, in the
// order the points were first seen.
func (sg *Suggester) Suggest(ctx context.Context, all []dataset.Location, n int) ([]Suggestion, error) {
	locations, err := dataset.Spread(all, n)
	if err != nil {
		return nil, err
	}

	ids := make([]int, len(locations))
	for i := range ids {
		ids[i] = i
	}
	rows, err := concurrent.MapCtx(ctx, sg.workers, ids, func(ctx context.Context, i int) ([][]geo.Coordinate, error) {
		points := make([][]geo.Coordinate, len(locations))
		for j := range locations {
			if i == j {
				continue
			}
			route, err := sg.router.Route(ctx, locations[i].Coordinate, locations[j].Coordinate, routing.Shortest)
			if err != nil {
				return nil, fmt.Errorf("route from %v to %v: %w", locations[i], locations[j], err)
			}
			if route.DistanceMeters == 0 {
				return nil, fmt.Errorf("%w: %v and %v", dataset.ErrZeroDistance, locations[i], locations[j])
			}
			points[j] = route.Points
		}
		sg.log.Debug("finished routes", zap.Int("rowIndex", i), zap.Int("rows", len(locations)))
		return points, nil
	})
	if err != nil {
		return nil, err
	}

	order := make([]geo.Coordinate, 0, len(locations)*len(locations))
	pointPairs := make(map[geo.Coordinate]*pairSet, len(locations)*len(locations))
	for i, row := range rows {
		for j, points := range row {
			pair := i*len(locations) + j
			for _, p := range points {
				set, ok := pointPairs[p]
				if !ok {
					set = &pairSet{}
					pointPairs[p] = set
					order = append(order, p)
				}
				set.add(pair)
			}
		}
	}

	sg.log.Info("Filtering hubs...")
	seen := make(map[string]struct{}, len(order))
	suggestions := make([]Suggestion, 0, len(order))
	for _, p := range order {
		set := pointPairs[p]
		key := set.key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		suggestions = append(suggestions, Suggestion{ID: len(suggestions), Point: p, PairCount: len(set.pairs)})
	}
	return suggestions, nil
}

// WriteHubs writes the suggestions passed by more than 2n pairs as a HUB_COORD_SECTION.
// The id of a line is its index among all suggestions, written or not.
func WriteHubs(w io.Writer, suggestions []Suggestion, n int) (int, error) {
	bw := bufio.NewWriter(w)
	bw.WriteString("HUB_COORD_SECTION\n")
	written := 0
	for _, s := range suggestions {
		if s.PairCount <= 2*n {
			continue
		}
		id := strconv.Itoa(s.ID)
		bw.WriteString(id + " " + util.FormatDouble(s.Point.Lat) + " " + util.FormatDouble(s.Point.Lon) + " " +
			id + "-" + strconv.Itoa(s.PairCount) + "\n")
		written++
	}
	return written, bw.Flush()
}
