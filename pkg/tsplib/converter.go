package tsplib

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

var ErrPatternMismatch = errors.New("line does not match the expected pattern")

var (
	namePattern           = regexp.MustCompile(`^NAME:.*$`)
	commentPattern        = regexp.MustCompile(`^COMMENT:.*$`)
	typePattern           = regexp.MustCompile(`^TYPE:.*$`)
	dimensionPattern      = regexp.MustCompile(`^DIMENSION: *(\d+)$`)
	edgeWeightTypePattern = regexp.MustCompile(`^EDGE_WEIGHT_TYPE:.*$`)
	edgeWeightFmtPattern  = regexp.MustCompile(`^EDGE_WEIGHT_FORMAT:.*$`)
	unitPattern           = regexp.MustCompile(`^EDGE_WEIGHT_UNIT_OF_MEASUREMENT:.*$`)
	capacityPattern       = regexp.MustCompile(`^CAPACITY:.*$`)
	nodeSectionPattern    = regexp.MustCompile(`^NODE_COORD_SECTION$`)
	edgeSectionPattern    = regexp.MustCompile(`^EDGE_WEIGHT_SECTION$`)
	demandSectionPattern  = regexp.MustCompile(`^DEMAND_SECTION$`)
	depotSectionPattern   = regexp.MustCompile(`^DEPOT_SECTION$`)
	eofPattern            = regexp.MustCompile(`^EOF$`)

	vehicleSuffix = regexp.MustCompile(`-k\d+\.vrp`)
)

type lineReader struct {
	sc     *bufio.Scanner
	lineNo int
	peeked *string
}

func newLineReader(r io.Reader) *lineReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	return &lineReader{sc: sc}
}

func (lr *lineReader) peek() (string, error) {
	if lr.peeked != nil {
		return *lr.peeked, nil
	}
	if !lr.sc.Scan() {
		if err := lr.sc.Err(); err != nil {
			return "", err
		}
		return "", io.ErrUnexpectedEOF
	}
	line := lr.sc.Text()
	lr.peeked = &line
	return line, nil
}

// next returns the next line, checked against pattern when it is not nil.
func (lr *lineReader) next(pattern *regexp.Regexp) (string, error) {
	line, err := lr.peek()
	if err != nil {
		return "", fmt.Errorf("line %d: %w", lr.lineNo+1, err)
	}
	lr.peeked = nil
	lr.lineNo++
	if pattern != nil && !pattern.MatchString(line) {
		return "", fmt.Errorf("%w: line %d (%s) does not match %s", ErrPatternMismatch, lr.lineNo, line, pattern)
	}
	return line, nil
}

// Convert rewrites a vrp instance as a tsp instance named tspName. Coordinates and an
// explicit matrix are kept. Capacity, demands and depots are dropped.
func Convert(r io.Reader, w io.Writer, tspName string) error {
	lr := newLineReader(r)
	bw := bufio.NewWriter(w)

	copyLine := func(pattern *regexp.Regexp) (string, error) {
		line, err := lr.next(pattern)
		if err != nil {
			return "", err
		}
		bw.WriteString(line + "\n")
		return line, nil
	}

	if _, err := lr.next(namePattern); err != nil {
		return err
	}
	bw.WriteString("NAME: " + tspName + "\n")
	if _, err := copyLine(commentPattern); err != nil {
		return err
	}
	if _, err := lr.next(typePattern); err != nil {
		return err
	}
	bw.WriteString("TYPE: TSP\n")

	line, err := copyLine(dimensionPattern)
	if err != nil {
		return err
	}
	dimension, err := strconv.Atoi(dimensionPattern.FindStringSubmatch(line)[1])
	if err != nil {
		return err
	}

	line, err = copyLine(edgeWeightTypePattern)
	if err != nil {
		return err
	}
	explicit := strings.HasSuffix(line, "EXPLICIT")
	if explicit {
		if _, err := copyLine(edgeWeightFmtPattern); err != nil {
			return err
		}
		// road distance instances generated from a tsp file have no unit line
		if next, err := lr.peek(); err == nil && unitPattern.MatchString(next) {
			if _, err := copyLine(unitPattern); err != nil {
				return err
			}
		}
	}
	if _, err := lr.next(capacityPattern); err != nil {
		return err
	}

	if _, err := copyLine(nodeSectionPattern); err != nil {
		return err
	}
	for i := 0; i < dimension; i++ {
		if _, err := copyLine(nil); err != nil {
			return err
		}
	}
	if explicit {
		if _, err := copyLine(edgeSectionPattern); err != nil {
			return err
		}
		for i := 0; i < dimension; i++ {
			if _, err := copyLine(nil); err != nil {
				return err
			}
		}
	}

	if _, err := lr.next(demandSectionPattern); err != nil {
		return err
	}
	for i := 0; i < dimension; i++ {
		if _, err := lr.next(nil); err != nil {
			return err
		}
	}
	if _, err := lr.next(depotSectionPattern); err != nil {
		return err
	}
	for {
		line, err := lr.next(nil)
		if err != nil {
			return err
		}
		if strings.TrimSpace(line) == "-1" {
			break
		}
	}
	if _, err := copyLine(eofPattern); err != nil {
		return err
	}
	return bw.Flush()
}

// TspFileName maps "belgium-n50-k10.vrp" to "belgium-n50.tsp". Every "-k<n>.vrp" in the
// name is replaced. A name without one only gets its .vrp extension swapped.
func TspFileName(vrpFileName string) string {
	if vehicleSuffix.MatchString(vrpFileName) {
		return vehicleSuffix.ReplaceAllString(vrpFileName, ".tsp")
	}
	return strings.TrimSuffix(vrpFileName, ".vrp") + ".tsp"
}

// ConvertFile converts one vrp file into outputDir and returns the written path.
func ConvertFile(inputFile, outputDir string) (string, error) {
	tspFile := TspFileName(filepath.Base(inputFile))
	outputFile := filepath.Join(outputDir, tspFile)

	in, err := os.Open(inputFile)
	if err != nil {
		return "", fmt.Errorf("could not read the input file %s: %w", inputFile, err)
	}
	defer in.Close()
	out, err := os.Create(outputFile)
	if err != nil {
		return "", fmt.Errorf("could not write the output file %s: %w", outputFile, err)
	}

	if err := Convert(in, out, strings.TrimSuffix(tspFile, ".tsp")); err != nil {
		out.Close()
		return "", fmt.Errorf("input file %s: %w", inputFile, err)
	}
	return outputFile, out.Close()
}

// ConvertDir converts every .vrp in inputDir, except segmented ones, in name order.
func ConvertDir(inputDir, outputDir string, log *zap.Logger) ([]string, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".vrp") || strings.Contains(name, "-segmentedRoad") {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	written := make([]string, 0, len(names))
	for _, name := range names {
		out, err := ConvertFile(filepath.Join(inputDir, name), outputDir)
		if err != nil {
			return written, err
		}
		log.Info("Converted", zap.String("file", filepath.Base(out)))
		written = append(written, out)
	}
	return written, nil
}
