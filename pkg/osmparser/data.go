package osmparser

type NodeType uint8

const (
	END_NODE NodeType = iota
	BETWEEN_NODE
	JUNCTION_NODE
)

var (
	// https://wiki.openstreetmap.org/wiki/OSM_tags_for_routing/Telenav
	acceptedHighway = map[string]struct{}{
		"motorway":       struct{}{},
		"motorway_link":  struct{}{},
		"trunk":          struct{}{},
		"trunk_link":     struct{}{},
		"primary":        struct{}{},
		"primary_link":   struct{}{},
		"secondary":      struct{}{},
		"secondary_link": struct{}{},
		"tertiary":       struct{}{},
		"tertiary_link":  struct{}{},
		"residential":    struct{}{},
		"service":        struct{}{},
		"road":           struct{}{},
		"unclassified":   struct{}{},
		"living_street":  struct{}{},
		"motorroad":      struct{}{},
	}

	//https://wiki.openstreetmap.org/wiki/Key:barrier
	// a barrier with access=no splits the street into two disconnected edges
	acceptedBarrierType = map[string]struct{}{
		"bollard":        struct{}{},
		"swing_gate":     struct{}{},
		"jersey_barrier": struct{}{},
		"lift_gate":      struct{}{},
		"block":          struct{}{},
		"gate":           struct{}{},
	}

	// km/h
	highwaySpeed = map[string]float64{
		"motorway":       100,
		"motorway_link":  70,
		"motorroad":      90,
		"trunk":          70,
		"trunk_link":     65,
		"primary":        65,
		"primary_link":   60,
		"secondary":      60,
		"secondary_link": 50,
		"tertiary":       50,
		"tertiary_link":  40,
		"unclassified":   30,
		"residential":    30,
		"living_street":  5,
		"service":        20,
		"road":           20,
	}
)

const defaultSpeed = 30.0

func roadTypeSpeed(highway string) float64 {
	if speed, ok := highwaySpeed[highway]; ok {
		return speed
	}
	return defaultSpeed
}
