package dataset

import (
	"bufio"
	"io"
	"strconv"

	"github.com/lintang-b-s/vrpdatasetgen/pkg/util"
)

const defaultDecimals = 3

// Instance is everything a .vrp file holds. The edge weight type follows from what is set:
// Segments gives SEGMENTED_EXPLICIT, Matrix gives EXPLICIT and neither gives EUC_2D.
type Instance struct {
	Name     string
	Comment  string
	VrpType  VrpType
	Capacity int
	// Unit is written as EDGE_WEIGHT_UNIT_OF_MEASUREMENT when not empty.
	Unit string

	Hubs      []Location
	Locations []Location
	Depots    int
	Demands   []Demand

	Matrix [][]float64
	// Decimals of the matrix values, 3 when zero.
	Decimals int
	Segments io.WriterTo
}

func (inst *Instance) edgeWeightType() string {
	switch {
	case inst.Segments != nil:
		return "SEGMENTED_EXPLICIT"
	case inst.Matrix != nil:
		return "EXPLICIT"
	}
	return "EUC_2D"
}

// WriteVRP writes the instance in the TSPLIB-like vrp format.
func WriteVRP(w io.Writer, inst *Instance) error {
	bw := bufio.NewWriter(w)

	bw.WriteString("NAME: " + inst.Name + "\n")
	bw.WriteString("COMMENT: " + inst.Comment + "\n")
	bw.WriteString("TYPE: " + inst.VrpType.HeaderType() + "\n")
	bw.WriteString("DIMENSION: " + strconv.Itoa(len(inst.Locations)) + "\n")
	bw.WriteString("EDGE_WEIGHT_TYPE: " + inst.edgeWeightType() + "\n")
	switch {
	case inst.Segments != nil:
		bw.WriteString("EDGE_WEIGHT_FORMAT: HUB_AND_NEARBY_MATRIX\n")
	case inst.Matrix != nil:
		bw.WriteString("EDGE_WEIGHT_FORMAT: FULL_MATRIX\n")
	}
	if inst.Unit != "" {
		bw.WriteString("EDGE_WEIGHT_UNIT_OF_MEASUREMENT: " + inst.Unit + "\n")
	}
	bw.WriteString("CAPACITY: " + strconv.Itoa(inst.Capacity) + "\n")

	if inst.Segments != nil {
		bw.WriteString("HUBS: " + strconv.Itoa(len(inst.Hubs)) + "\n")
		bw.WriteString("HUB_COORD_SECTION\n")
		writeCoordLines(bw, inst.Hubs)
	}
	bw.WriteString("NODE_COORD_SECTION\n")
	writeCoordLines(bw, inst.Locations)

	if inst.Segments != nil {
		bw.WriteString("SEGMENTED_EDGE_WEIGHT_SECTION\n")
		if _, err := inst.Segments.WriteTo(bw); err != nil {
			return err
		}
	} else if inst.Matrix != nil {
		decimals := inst.Decimals
		if decimals == 0 {
			decimals = defaultDecimals
		}
		bw.WriteString("EDGE_WEIGHT_SECTION\n")
		for _, row := range inst.Matrix {
			for _, d := range row {
				bw.WriteString(FormatDistance(d, decimals) + " ")
			}
			bw.WriteString("\n")
		}
	}

	bw.WriteString("DEMAND_SECTION\n")
	for _, d := range inst.Demands {
		line := strconv.FormatInt(d.ID, 10) + " " + strconv.Itoa(d.Demand)
		if inst.VrpType == TimeWindowed {
			line += " " + strconv.Itoa(d.ReadyTime) + " " + strconv.Itoa(d.DueTime) + " " + strconv.Itoa(d.ServiceDuration)
		}
		bw.WriteString(line + "\n")
	}

	bw.WriteString("DEPOT_SECTION\n")
	for i := 0; i < inst.Depots && i < len(inst.Locations); i++ {
		bw.WriteString(strconv.FormatInt(inst.Locations[i].ID, 10) + "\n")
	}
	bw.WriteString("-1\n")
	bw.WriteString("EOF\n")
	return bw.Flush()
}

// WriteCoordLine writes "id lat lon [name]" with the spaces of the name replaced.
func WriteCoordLine(w *bufio.Writer, loc Location) {
	w.WriteString(strconv.FormatInt(loc.ID, 10) + " " + util.FormatDouble(loc.Lat) + " " + util.FormatDouble(loc.Lon))
	if loc.Name != "" {
		w.WriteString(" " + util.SpacesToUnderscores(loc.Name))
	}
	w.WriteString("\n")
}

func writeCoordLines(w *bufio.Writer, locations []Location) {
	for _, loc := range locations {
		WriteCoordLine(w, loc)
	}
}

// FormatDistance prints a distance with a fixed number of decimals, "12.340".
func FormatDistance(d float64, decimals int) string {
	return strconv.FormatFloat(d, 'f', decimals, 64)
}
