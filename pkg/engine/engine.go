package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/lintang-b-s/vrpdatasetgen/pkg/datastructure"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/engine/routing"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/osmparser"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/spatialindex"
	"go.uber.org/zap"
)

type Engine struct {
	routingEngine *routing.RoutingEngine
}

func (e *Engine) GetRoutingEngine() *routing.RoutingEngine {
	return e.routingEngine
}

// NewEngine loads the graph cached at graphFilePath, or imports osmFilePath and caches the result there first.
func NewEngine(ctx context.Context, graphFilePath, osmFilePath string, searchRadius float64,
	logger *zap.Logger) (*Engine, error) {
	graph, err := ImportOrLoad(ctx, graphFilePath, osmFilePath, logger)
	if err != nil {
		return nil, err
	}

	rtree := spatialindex.NewRtree()
	rtree.Build(graph, searchRadius, logger)

	return &Engine{
		routingEngine: routing.NewRoutingEngine(graph, rtree, searchRadius, logger),
	}, nil
}

func ImportOrLoad(ctx context.Context, graphFilePath, osmFilePath string, logger *zap.Logger) (*datastructure.Graph, error) {
	_, err := os.Stat(graphFilePath)
	if err == nil {
		logger.Info("Reading graph from ", zap.String("graphFilePath", graphFilePath))
		return datastructure.ReadGraph(graphFilePath)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	graph, err := Import(ctx, graphFilePath, osmFilePath, logger)
	if err != nil {
		return nil, err
	}
	return graph, nil
}

// Import parses the osm file and writes the graph to graphFilePath, replacing any previous import.
func Import(ctx context.Context, graphFilePath, osmFilePath string, logger *zap.Logger) (*datastructure.Graph, error) {
	logger.Info("Importing openstreetmap file", zap.String("osmFilePath", osmFilePath))
	parser := osmparser.NewOSMParser(logger)
	graph, err := parser.Parse(ctx, osmFilePath)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", osmFilePath, err)
	}

	if err := os.MkdirAll(filepath.Dir(graphFilePath), 0o755); err != nil {
		return nil, err
	}
	logger.Info("Writing graph to ", zap.String("graphFilePath", graphFilePath))
	if err := graph.WriteGraph(graphFilePath); err != nil {
		return nil, fmt.Errorf("write graph %s: %w", graphFilePath, err)
	}
	return graph, nil
}
